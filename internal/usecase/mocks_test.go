package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/gateway"
)

// Fakes em memória para os contratos do gateway. Sem framework de mock:
// o comportamento relevante cabe em structs simples.

type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*domain.Transaction
	references   map[string]struct{}

	createErr error

	// captura do último Search para inspecionar os filtros montados
	lastSearch gateway.SearchFilter
	lastList   gateway.ListFilter
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		transactions: map[uuid.UUID]*domain.Transaction{},
		references:   map[string]struct{}{},
	}
}

func (f *fakeTransactionRepo) Create(_ context.Context, transaction *domain.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	reference := domain.NewReference()
	for _, taken := f.references[reference]; taken; _, taken = f.references[reference] {
		reference = domain.NewReference()
	}
	f.references[reference] = struct{}{}

	transaction.ID = uuid.New()
	transaction.Reference = reference
	transaction.Timestamp = time.Now()
	transaction.Status = domain.StatusPending
	transaction.IsHidden = false

	clone := *transaction
	f.transactions[transaction.ID] = &clone
	return nil
}

func (f *fakeTransactionRepo) GetByID(_ context.Context, id uuid.UUID, includeHidden bool) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	transaction, ok := f.transactions[id]
	if !ok || (transaction.IsHidden && !includeHidden) {
		return nil, domain.ErrTransactionNotFound
	}
	clone := *transaction
	return &clone, nil
}

func (f *fakeTransactionRepo) GetByReference(_ context.Context, reference string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, transaction := range f.transactions {
		if transaction.Reference == reference {
			clone := *transaction
			return &clone, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (f *fakeTransactionRepo) List(_ context.Context, filter gateway.ListFilter) ([]*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastList = filter

	var out []*domain.Transaction
	for _, transaction := range f.transactions {
		if filter.VisibleOnly && transaction.IsHidden {
			continue
		}
		if filter.SenderID != nil && transaction.SenderID != *filter.SenderID {
			continue
		}
		if filter.Status != nil && transaction.Status != *filter.Status {
			continue
		}
		clone := *transaction
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeTransactionRepo) Search(_ context.Context, filter gateway.SearchFilter) ([]*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSearch = filter
	return nil, nil
}

func (f *fakeTransactionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (domain.Status, *domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	transaction, ok := f.transactions[id]
	if !ok {
		return "", nil, domain.ErrTransactionNotFound
	}
	previous := transaction.Status
	transaction.Status = status
	clone := *transaction
	return previous, &clone, nil
}

func (f *fakeTransactionRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if transaction, ok := f.transactions[id]; ok {
		transaction.IsHidden = true
	}
	return nil
}

func (f *fakeTransactionRepo) ListAll(_ context.Context) ([]*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Transaction
	for _, transaction := range f.transactions {
		clone := *transaction
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeTransactionRepo) UpdateReference(_ context.Context, id uuid.UUID, reference string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	transaction, ok := f.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	transaction.Reference = reference
	return nil
}

func (f *fakeTransactionRepo) WithTx(_ gateway.TransactionObject) gateway.TransactionRepository {
	return f
}

// add insere direto no estado interno, para montar cenários
func (f *fakeTransactionRepo) add(transaction *domain.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	f.transactions[transaction.ID] = transaction
	f.references[transaction.Reference] = struct{}{}
}

type fakeUserRepo struct {
	players map[uuid.UUID]string
	err     error
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if _, ok := f.players[id]; !ok {
		return nil, domain.ErrUserNotFound
	}
	return &domain.User{ID: id}, nil
}

func (f *fakeUserRepo) PlayerIDs(_ context.Context, userIDs []uuid.UUID) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []string
	for _, id := range userIDs {
		if playerID, ok := f.players[id]; ok {
			out = append(out, playerID)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) HardDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.players[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.players, id)
	return nil
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []domain.Event
}

func (f *fakeBroadcaster) Broadcast(event domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

type publishedTask struct {
	Exchange   string
	RoutingKey string
	Body       interface{}
}

type fakePublisher struct {
	mu        sync.Mutex
	published []publishedTask
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, exchange, routingKey string, body interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedTask{
		Exchange:   exchange,
		RoutingKey: routingKey,
		Body:       body,
	})
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, gateway.TransactionKey, struct{}{}))
}
