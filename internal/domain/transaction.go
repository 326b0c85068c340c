package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status do ciclo de vida da transação.
// Guardado como string no banco (VARCHAR), não como enum numérico.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus valida o valor vindo da API (PATCH /transactions/{id})
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// CanTransitionTo implementa a tabela de transições intencionais:
// Pending -> {Completed, Cancelled}; Completed e Cancelled são terminais.
// A validação é OPCIONAL (toggle STRICT_STATUS_TRANSITIONS) porque os
// clientes em produção dependem de poder sobrescrever qualquer status.
func (s Status) CanTransitionTo(next Status) bool {
	allowed, ok := statusTransitions[s]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == next {
			return true
		}
	}
	return false
}

var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Transaction é a entidade central: o registro de um envio de dinheiro
// entre dois países. Clean Architecture: não sabe o que é JSON nem SQL.
type Transaction struct {
	ID        uuid.UUID
	Reference string // 8 dígitos, único, imutável depois de atribuído
	Timestamp time.Time

	SenderID uuid.UUID

	SenderCountry  string
	SenderCurrency string
	SenderAmount   int64

	ReceiverCountry  string
	ReceiverCurrency string
	ReceiverAmount   int64

	ConversionRate decimal.Decimal // DECIMAL(10,2)
	PaymentType    string

	// Destinatário é texto livre, não é um User cadastrado
	RecipientName  string
	RecipientPhone string
	RecipientType  string

	IncludeFee bool
	FeeAmount  int64

	Status   Status
	IsHidden bool
}

const (
	referenceMin = 10_000_000
	referenceMax = 99_999_999
)

// NewReference sorteia uma referência numérica de 8 dígitos.
// NÃO garante unicidade sozinha: quem persiste (repositório) precisa
// tentar de novo quando a constraint UNIQUE do banco recusar.
func NewReference() string {
	return fmt.Sprintf("%d", referenceMin+rand.Int63n(referenceMax-referenceMin+1))
}
