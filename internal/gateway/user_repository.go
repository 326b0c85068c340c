package gateway

import (
	"context"

	"github.com/google/uuid"

	"github.com/DinoRu/chapmoney/internal/domain"
)

// UserRepository é a fronteira de leitura sobre os usuários (o CRUD em si
// vive no serviço de autenticação, fora deste core).
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// PlayerIDs resolve user ids -> player ids do OneSignal, descartando
	// silenciosamente quem não tem aparelho registrado.
	PlayerIDs(ctx context.Context, userIDs []uuid.UUID) ([]string, error)

	// HardDelete remove o usuário de verdade (contrato de durabilidade
	// diferente do soft delete das transações — mantidos separados de
	// propósito).
	HardDelete(ctx context.Context, id uuid.UUID) error
}
