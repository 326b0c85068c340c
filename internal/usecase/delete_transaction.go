package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/gateway"
)

type DeleteTransactionUseCase struct {
	transactionRepository gateway.TransactionRepository
}

func NewDeleteTransaction(transactionRepo gateway.TransactionRepository) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{transactionRepository: transactionRepo}
}

// Execute faz o soft delete: marca is_hidden=true, a linha continua no
// banco para auditoria. Só o dono ou um admin podem esconder. Segunda
// chamada no mesmo id é um no-op bem sucedido.
func (u *DeleteTransactionUseCase) Execute(ctx context.Context, id uuid.UUID, actor domain.Actor) error {
	transaction, err := u.transactionRepository.GetByID(ctx, id, true)
	if err != nil {
		return err
	}

	if !actor.CanDelete(transaction) {
		return domain.ErrForbidden
	}

	return u.transactionRepository.SoftDelete(ctx, id)
}
