package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/usecase"
)

func TestSearchDateFilters(t *testing.T) {
	repo := newFakeTransactionRepo()
	uc := usecase.NewGetTransactions(repo)

	_, err := uc.Search(context.Background(), usecase.SearchParams{
		Query:     "0701020304",
		StartDate: "2025-01-01",
		EndDate:   "2025-01-31",
	})
	require.NoError(t, err)

	require.Equal(t, "0701020304", repo.lastSearch.Query)
	require.NotNil(t, repo.lastSearch.Start)
	require.NotNil(t, repo.lastSearch.End)

	// Início do intervalo: meia-noite do start_date
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *repo.lastSearch.Start)
	// end_date estendido para o fim do dia: limite superior exclusivo
	// vira 2025-02-01T00:00:00
	require.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), *repo.lastSearch.End)
}

func TestSearchInvalidDate(t *testing.T) {
	uc := usecase.NewGetTransactions(newFakeTransactionRepo())

	_, err := uc.Search(context.Background(), usecase.SearchParams{StartDate: "01/01/2025"})
	require.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = uc.Search(context.Background(), usecase.SearchParams{EndDate: "2025-13-45"})
	require.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestSearchInvalidStatus(t *testing.T) {
	uc := usecase.NewGetTransactions(newFakeTransactionRepo())

	_, err := uc.Search(context.Background(), usecase.SearchParams{Status: "Whatever"})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListMineExcludesHidden(t *testing.T) {
	senderID := uuid.New()
	repo := newFakeTransactionRepo()
	repo.add(&domain.Transaction{ID: uuid.New(), Reference: "10000001", SenderID: senderID, Status: domain.StatusPending})
	repo.add(&domain.Transaction{ID: uuid.New(), Reference: "10000002", SenderID: senderID, Status: domain.StatusPending, IsHidden: true})

	uc := usecase.NewGetTransactions(repo)

	mine, err := uc.ListMine(context.Background(), senderID, nil, 1, 100)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "10000001", mine[0].Reference)
	require.True(t, repo.lastList.VisibleOnly)

	// A listagem admin enxerga as ocultas
	all, err := uc.List(context.Background(), nil, 1, 100)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.False(t, repo.lastList.VisibleOnly)
}

func TestListNormalizesPagination(t *testing.T) {
	repo := newFakeTransactionRepo()
	uc := usecase.NewGetTransactions(repo)

	_, err := uc.List(context.Background(), nil, 0, -5)
	require.NoError(t, err)
	require.Equal(t, 1, repo.lastList.Page)
	require.Equal(t, 100, repo.lastList.Limit)
}

func TestGetByIDHiddenVisibility(t *testing.T) {
	repo := newFakeTransactionRepo()
	hidden := &domain.Transaction{ID: uuid.New(), Reference: "10000003", SenderID: uuid.New(), Status: domain.StatusPending, IsHidden: true}
	repo.add(hidden)

	uc := usecase.NewGetTransactions(repo)

	// Usuário comum não enxerga transação oculta
	user := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}
	_, err := uc.GetByID(context.Background(), hidden.ID, user)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	// Admin enxerga
	got, err := uc.GetByID(context.Background(), hidden.ID, admin)
	require.NoError(t, err)
	require.Equal(t, hidden.Reference, got.Reference)
}

func TestGetByReference(t *testing.T) {
	repo := newFakeTransactionRepo()
	transaction := &domain.Transaction{ID: uuid.New(), Reference: "55556666", SenderID: uuid.New(), Status: domain.StatusPending}
	repo.add(transaction)

	uc := usecase.NewGetTransactions(repo)

	got, err := uc.GetByReference(context.Background(), "55556666")
	require.NoError(t, err)
	require.Equal(t, transaction.ID, got.ID)

	_, err = uc.GetByReference(context.Background(), "00000000")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}
