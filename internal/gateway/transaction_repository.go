package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DinoRu/chapmoney/internal/domain"
)

// ListFilter restringe a listagem paginada.
type ListFilter struct {
	Status   *domain.Status
	SenderID *uuid.UUID
	// VisibleOnly exclui linhas is_hidden=true (chamador não privilegiado)
	VisibleOnly bool
	Page        int
	Limit       int
}

// SearchFilter é a busca do dashboard: texto livre + status + intervalo.
type SearchFilter struct {
	Query  string
	Status *domain.Status
	// Intervalo inclusivo sobre timestamp; End já vem estendido para o
	// fim do dia pelo usecase (end_date + 24h, limite exclusivo).
	Start *time.Time
	End   *time.Time
}

// TransactionRepository é o contrato de persistência das transações.
// O usecase só conversa com isso, sem saber se é Postgres ou outro banco.
type TransactionRepository interface {
	// Create atribui id, referência (com retry na constraint UNIQUE),
	// timestamp, status=Pending e is_hidden=false.
	Create(ctx context.Context, tx *domain.Transaction) error

	// GetByID retorna ErrTransactionNotFound se ausente, ou se estiver
	// oculta e includeHidden=false.
	GetByID(ctx context.Context, id uuid.UUID, includeHidden bool) (*domain.Transaction, error)

	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)

	// List ordena por timestamp decrescente, offset = (page-1)*limit
	List(ctx context.Context, filter ListFilter) ([]*domain.Transaction, error)

	Search(ctx context.Context, filter SearchFilter) ([]*domain.Transaction, error)

	// UpdateStatus devolve o status anterior junto com a entidade
	// atualizada, para o chamador montar o evento de mudança.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (previous domain.Status, updated *domain.Transaction, err error)

	// SoftDelete marca is_hidden=true. Idempotente: chamar duas vezes
	// não é erro.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ListAll e UpdateReference servem o utilitário de re-key em massa.
	ListAll(ctx context.Context) ([]*domain.Transaction, error)
	UpdateReference(ctx context.Context, id uuid.UUID, reference string) error

	// WithTx devolve uma cópia do repositório participando da transação
	// iniciada pelo TransactionManager.
	WithTx(tx TransactionObject) TransactionRepository
}
