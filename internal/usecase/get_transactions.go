package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/gateway"
)

const dateLayout = "2006-01-02"

// GetTransactionsUseCase agrupa as operações de leitura: listagem admin,
// listagem do próprio usuário, busca do dashboard e fetch por id/ref.
type GetTransactionsUseCase struct {
	transactionRepository gateway.TransactionRepository
}

func NewGetTransactions(transactionRepo gateway.TransactionRepository) *GetTransactionsUseCase {
	return &GetTransactionsUseCase{transactionRepository: transactionRepo}
}

// List é a listagem admin: paginada, mais recentes primeiro, linhas
// ocultas incluídas (chamador privilegiado).
func (u *GetTransactionsUseCase) List(ctx context.Context, status *domain.Status, page, limit int) ([]*domain.Transaction, error) {
	return u.transactionRepository.List(ctx, gateway.ListFilter{
		Status:      status,
		VisibleOnly: false,
		Page:        normalizePage(page),
		Limit:       normalizeLimit(limit),
	})
}

// ListMine devolve as transações do próprio usuário, sem as ocultas.
func (u *GetTransactionsUseCase) ListMine(ctx context.Context, userID uuid.UUID, status *domain.Status, page, limit int) ([]*domain.Transaction, error) {
	return u.transactionRepository.List(ctx, gateway.ListFilter{
		Status:      status,
		SenderID:    &userID,
		VisibleOnly: true,
		Page:        normalizePage(page),
		Limit:       normalizeLimit(limit),
	})
}

// SearchParams chega cru da query string; as datas são validadas aqui.
type SearchParams struct {
	Query     string
	Status    string
	StartDate string
	EndDate   string
}

// Search valida os filtros e delega ao repositório. Data fora do formato
// YYYY-MM-DD é ErrInvalidDate (400 na API). O end_date é estendido para o
// fim do dia: o limite superior vira end + 24h.
func (u *GetTransactionsUseCase) Search(ctx context.Context, params SearchParams) ([]*domain.Transaction, error) {
	filter := gateway.SearchFilter{Query: params.Query}

	if params.Status != "" {
		status, err := domain.ParseStatus(params.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	if params.StartDate != "" {
		start, err := time.Parse(dateLayout, params.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDate, params.StartDate)
		}
		filter.Start = &start
	}

	if params.EndDate != "" {
		end, err := time.Parse(dateLayout, params.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDate, params.EndDate)
		}
		endOfDay := end.Add(24 * time.Hour)
		filter.End = &endOfDay
	}

	return u.transactionRepository.Search(ctx, filter)
}

func (u *GetTransactionsUseCase) GetByID(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Transaction, error) {
	return u.transactionRepository.GetByID(ctx, id, actor.IsAdmin())
}

func (u *GetTransactionsUseCase) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	return u.transactionRepository.GetByReference(ctx, reference)
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizeLimit(limit int) int {
	if limit < 1 || limit > 100 {
		return 100
	}
	return limit
}
