package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/gateway"
	"github.com/DinoRu/chapmoney/internal/tasks"
)

// NotifyTransactionUseCase reenvia sob demanda o push de conclusão de uma
// transação já validada (POST /transactions/{id}/notify).
type NotifyTransactionUseCase struct {
	transactionRepository gateway.TransactionRepository
	userRepository        gateway.UserRepository
	taskPublisher         gateway.TaskPublisher
}

func NewNotifyTransaction(
	transactionRepo gateway.TransactionRepository,
	userRepo gateway.UserRepository,
	publisher gateway.TaskPublisher,
) *NotifyTransactionUseCase {
	return &NotifyTransactionUseCase{
		transactionRepository: transactionRepo,
		userRepository:        userRepo,
		taskPublisher:         publisher,
	}
}

func (u *NotifyTransactionUseCase) Execute(ctx context.Context, id uuid.UUID) error {
	transaction, err := u.transactionRepository.GetByID(ctx, id, true)
	if err != nil {
		return err
	}

	// Só transação validada gera notificação de conclusão
	if transaction.Status != domain.StatusCompleted {
		return fmt.Errorf("%w: only Completed transactions can be notified", domain.ErrInvalidStatus)
	}

	playerIDs, err := u.userRepository.PlayerIDs(ctx, []uuid.UUID{transaction.SenderID})
	if err != nil {
		return err
	}
	if len(playerIDs) == 0 {
		log.Info().Str("reference", transaction.Reference).
			Msg("Push ignorado: remetente sem player id registrado")
		return nil
	}

	// Sem broker configurado não há fila para onde mandar
	if u.taskPublisher == nil {
		log.Warn().Str("reference", transaction.Reference).
			Msg("Publisher indisponível, push não enfileirado")
		return nil
	}

	return u.taskPublisher.Publish(ctx, tasks.Exchange, tasks.RoutingPush, tasks.PushTask{
		Title:     "Transaction validée",
		Message:   fmt.Sprintf("Votre transaction %s a été validée", transaction.Reference),
		PlayerIDs: playerIDs,
		Data: map[string]string{
			"type":           "transaction",
			"transaction_id": transaction.ID.String(),
			"status":         string(transaction.Status),
		},
	})
}
