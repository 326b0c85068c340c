package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/gateway"
	"github.com/DinoRu/chapmoney/internal/tasks"
)

// CreateTransactionInput são os campos do draft vindos da API.
// DTO separado para não acoplar o JSON da request ao usecase.
type CreateTransactionInput struct {
	SenderCountry    string
	SenderCurrency   string
	SenderAmount     int64
	ReceiverCountry  string
	ReceiverCurrency string
	ReceiverAmount   int64
	ConversionRate   decimal.Decimal
	PaymentType      string
	RecipientName    string
	RecipientPhone   string
	RecipientType    string
	IncludeFee       bool
	FeeAmount        int64
}

type CreateTransactionUseCase struct {
	transactionRepository gateway.TransactionRepository
	broadcaster           gateway.Broadcaster
	taskPublisher         gateway.TaskPublisher
}

func NewCreateTransaction(
	transactionRepo gateway.TransactionRepository,
	broadcaster gateway.Broadcaster,
	publisher gateway.TaskPublisher,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepository: transactionRepo,
		broadcaster:           broadcaster,
		taskPublisher:         publisher,
	}
}

// Execute grava a transação (status Pending, referência fresca de 8
// dígitos) e dispara o fan-out: broadcast síncrono aos assinantes do
// WebSocket + email de alerta ao admin enfileirado (fire-and-forget).
// A request reporta sucesso mesmo se a notificação falhar depois.
func (u *CreateTransactionUseCase) Execute(ctx context.Context, senderID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	transaction := &domain.Transaction{
		SenderID:         senderID,
		SenderCountry:    input.SenderCountry,
		SenderCurrency:   input.SenderCurrency,
		SenderAmount:     input.SenderAmount,
		ReceiverCountry:  input.ReceiverCountry,
		ReceiverCurrency: input.ReceiverCurrency,
		ReceiverAmount:   input.ReceiverAmount,
		ConversionRate:   input.ConversionRate,
		PaymentType:      input.PaymentType,
		RecipientName:    input.RecipientName,
		RecipientPhone:   input.RecipientPhone,
		RecipientType:    input.RecipientType,
		IncludeFee:       input.IncludeFee,
		FeeAmount:        input.FeeAmount,
	}

	if err := u.transactionRepository.Create(ctx, transaction); err != nil {
		return nil, err
	}

	// Caminho síncrono: barato e in-process, completa antes de retornar
	u.broadcaster.Broadcast(domain.NewTransactionEvent{
		ID:        transaction.ID.String(),
		Reference: transaction.Reference,
		Amount:    transaction.SenderAmount,
		Currency:  transaction.SenderCurrency,
		Status:    transaction.Status,
	})

	// Caminho assíncrono: só logamos o erro, não falhamos a request
	if u.taskPublisher != nil {
		err := u.taskPublisher.Publish(ctx, tasks.Exchange, tasks.RoutingEmailTransaction, tasks.TransactionEmailTask{
			TransactionID: transaction.ID.String(),
			Reference:     transaction.Reference,
		})
		if err != nil {
			log.Error().Err(err).Str("reference", transaction.Reference).
				Msg("Falha ao enfileirar email de alerta do admin")
		}
	}

	return transaction, nil
}
