package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/tasks"
	"github.com/DinoRu/chapmoney/internal/usecase"
)

func TestNotifyTransaction(t *testing.T) {
	senderID := uuid.New()
	repo := newFakeTransactionRepo()
	completed := &domain.Transaction{
		ID:        uuid.New(),
		Reference: "33334444",
		SenderID:  senderID,
		Status:    domain.StatusCompleted,
	}
	repo.add(completed)

	users := &fakeUserRepo{players: map[uuid.UUID]string{senderID: "player-xyz"}}
	publisher := &fakePublisher{}
	uc := usecase.NewNotifyTransaction(repo, users, publisher)

	require.NoError(t, uc.Execute(context.Background(), completed.ID))

	require.Len(t, publisher.published, 1)
	push, ok := publisher.published[0].Body.(tasks.PushTask)
	require.True(t, ok)
	require.Equal(t, []string{"player-xyz"}, push.PlayerIDs)
	require.Contains(t, push.Message, "33334444")
}

func TestNotifyTransactionOnlyWhenCompleted(t *testing.T) {
	repo := newFakeTransactionRepo()
	pending := pendingTransaction(uuid.New())
	repo.add(pending)

	uc := usecase.NewNotifyTransaction(repo, &fakeUserRepo{}, &fakePublisher{})

	err := uc.Execute(context.Background(), pending.ID)
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestNotifyTransactionNoDeviceIsNoop(t *testing.T) {
	senderID := uuid.New()
	repo := newFakeTransactionRepo()
	completed := &domain.Transaction{
		ID:        uuid.New(),
		Reference: "33335555",
		SenderID:  senderID,
		Status:    domain.StatusCompleted,
	}
	repo.add(completed)

	publisher := &fakePublisher{}
	uc := usecase.NewNotifyTransaction(repo, &fakeUserRepo{}, publisher)

	// Sem aparelho registrado: skip logado, sem erro e sem push
	require.NoError(t, uc.Execute(context.Background(), completed.ID))
	require.Empty(t, publisher.published)
}
