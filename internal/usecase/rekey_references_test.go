package usecase_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/usecase"
)

func TestRekeyReferences(t *testing.T) {
	repo := newFakeTransactionRepo()
	for i := 0; i < 500; i++ {
		repo.add(&domain.Transaction{
			ID: uuid.New(),
			// Formato antigo de referência, que o re-key substitui
			Reference: "OLD-" + strconv.Itoa(i),
			SenderID:  uuid.New(),
			Status:    domain.StatusPending,
		})
	}

	uc := usecase.NewRekeyReferences(repo, fakeTxManager{})

	count, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 500, count)

	// Depois da passada: todas com 8 dígitos e globalmente únicas
	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 500)

	seen := map[string]struct{}{}
	for _, transaction := range all {
		require.Len(t, transaction.Reference, 8)
		value, err := strconv.Atoi(transaction.Reference)
		require.NoError(t, err)
		require.GreaterOrEqual(t, value, 10_000_000)

		_, duplicate := seen[transaction.Reference]
		require.False(t, duplicate, "referência repetida no lote: %s", transaction.Reference)
		seen[transaction.Reference] = struct{}{}
	}
}

func TestRekeyReferencesEmptyTable(t *testing.T) {
	uc := usecase.NewRekeyReferences(newFakeTransactionRepo(), fakeTxManager{})

	count, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
}
