package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/gateway"
	"github.com/DinoRu/chapmoney/internal/tasks"
)

type SendPromotionInput struct {
	Title     string
	Message   string
	PlayerIDs []string
	UserIDs   []uuid.UUID
}

// SendPromotionUseCase resolve os destinatários de uma notificação
// promocional e enfileira o push. Destinatário nenhum = erro para o
// chamador (400), diferente do push de transação que é best-effort.
type SendPromotionUseCase struct {
	userRepository gateway.UserRepository
	taskPublisher  gateway.TaskPublisher
}

func NewSendPromotion(userRepo gateway.UserRepository, publisher gateway.TaskPublisher) *SendPromotionUseCase {
	return &SendPromotionUseCase{
		userRepository: userRepo,
		taskPublisher:  publisher,
	}
}

func (u *SendPromotionUseCase) Execute(ctx context.Context, input SendPromotionInput) error {
	recipients := append([]string{}, input.PlayerIDs...)

	// user_ids viram player_ids; quem não tem aparelho registrado é
	// descartado em silêncio na resolução
	if len(input.UserIDs) > 0 {
		playerIDs, err := u.userRepository.PlayerIDs(ctx, input.UserIDs)
		if err != nil {
			return err
		}
		recipients = append(recipients, playerIDs...)
	}

	if len(recipients) == 0 {
		return domain.ErrNoRecipients
	}

	// Sem broker configurado não há fila para onde mandar
	if u.taskPublisher == nil {
		return nil
	}

	return u.taskPublisher.Publish(ctx, tasks.Exchange, tasks.RoutingPush, tasks.PushTask{
		Title:     input.Title,
		Message:   input.Message,
		PlayerIDs: recipients,
		Data:      map[string]string{"type": "promotion"},
	})
}
