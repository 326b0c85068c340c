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

type UpdateStatusUseCase struct {
	transactionRepository gateway.TransactionRepository
	userRepository        gateway.UserRepository
	broadcaster           gateway.Broadcaster
	taskPublisher         gateway.TaskPublisher

	// strictTransitions liga a tabela Pending->{Completed,Cancelled}.
	// Desligado por padrão: o comportamento histórico deixa qualquer
	// status sobrescrever qualquer outro e há cliente dependendo disso.
	strictTransitions bool
}

func NewUpdateStatus(
	transactionRepo gateway.TransactionRepository,
	userRepo gateway.UserRepository,
	broadcaster gateway.Broadcaster,
	publisher gateway.TaskPublisher,
	strictTransitions bool,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		transactionRepository: transactionRepo,
		userRepository:        userRepo,
		broadcaster:           broadcaster,
		taskPublisher:         publisher,
		strictTransitions:     strictTransitions,
	}
}

// Execute troca o status (admin-only), faz broadcast do STATUS_CHANGE se
// e somente se o valor mudou, e quando o novo status é Completed
// enfileira um push para o remetente da transação.
func (u *UpdateStatusUseCase) Execute(ctx context.Context, id uuid.UUID, newStatus domain.Status, actor domain.Actor) (*domain.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	if u.strictTransitions {
		current, err := u.transactionRepository.GetByID(ctx, id, true)
		if err != nil {
			return nil, err
		}
		if current.Status != newStatus && !current.Status.CanTransitionTo(newStatus) {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, newStatus)
		}
	}

	previous, transaction, err := u.transactionRepository.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		return nil, err
	}

	if previous != transaction.Status {
		u.broadcaster.Broadcast(domain.StatusChangeEvent{
			ID:        transaction.ID.String(),
			Reference: transaction.Reference,
			OldStatus: previous,
			NewStatus: transaction.Status,
		})
	}

	if transaction.Status == domain.StatusCompleted {
		u.enqueueCompletionPush(ctx, transaction)
	}

	return transaction, nil
}

// enqueueCompletionPush resolve o player id do remetente e publica a
// tarefa de push. Remetente sem aparelho registrado vira skip logado,
// nunca erro — a entrega é best-effort por contrato.
func (u *UpdateStatusUseCase) enqueueCompletionPush(ctx context.Context, transaction *domain.Transaction) {
	if u.taskPublisher == nil {
		return
	}

	playerIDs, err := u.userRepository.PlayerIDs(ctx, []uuid.UUID{transaction.SenderID})
	if err != nil {
		log.Error().Err(err).Str("reference", transaction.Reference).
			Msg("Falha ao resolver player id do remetente")
		return
	}
	if len(playerIDs) == 0 {
		log.Info().Str("reference", transaction.Reference).
			Msg("Push ignorado: remetente sem player id registrado")
		return
	}

	task := tasks.PushTask{
		Title:     "Transaction validée",
		Message:   fmt.Sprintf("Votre transaction %s a été validée", transaction.Reference),
		PlayerIDs: playerIDs,
		Data: map[string]string{
			"type":           "transaction",
			"transaction_id": transaction.ID.String(),
			"status":         string(transaction.Status),
		},
	}
	if err := u.taskPublisher.Publish(ctx, tasks.Exchange, tasks.RoutingPush, task); err != nil {
		log.Error().Err(err).Str("reference", transaction.Reference).
			Msg("Falha ao enfileirar push de conclusão")
	}
}
