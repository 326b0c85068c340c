package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DinoRu/chapmoney/internal/domain"
)

// UserRepository só LÊ usuários (mais o hard delete da conta): o cadastro
// em si pertence ao serviço de autenticação.
type UserRepository struct {
	db querier
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
		SELECT id, full_name, phone, email, country, role, onesignal_player_id, pin_hash
		FROM users WHERE id = $1`

	var user domain.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.FullName, &user.Phone, &user.Email, &user.Country,
		&user.Role, &user.OneSignalPlayerID, &user.PinHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// PlayerIDs descarta usuários sem onesignal_player_id direto no WHERE
func (r *UserRepository) PlayerIDs(ctx context.Context, userIDs []uuid.UUID) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	const query = `
		SELECT onesignal_player_id FROM users
		WHERE id = ANY($1) AND onesignal_player_id IS NOT NULL`

	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player ids: %w", err)
	}
	defer rows.Close()

	var playerIDs []string
	for rows.Next() {
		var playerID string
		if err := rows.Scan(&playerID); err != nil {
			return nil, err
		}
		playerIDs = append(playerIDs, playerID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading player id rows: %w", err)
	}
	return playerIDs, nil
}

// HardDelete remove a linha de verdade (contrato diferente do soft delete
// das transações). As transações do usuário caem junto via FK CASCADE.
func (r *UserRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to hard delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
