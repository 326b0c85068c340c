package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DinoRu/chapmoney/internal/domain"
	"github.com/DinoRu/chapmoney/internal/gateway"
)

type fakeIdempotencyStore struct {
	entries map[string]gateway.CachedResponse
	getErr  error
	saves   int
	lastTTL time.Duration
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{entries: map[string]gateway.CachedResponse{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (*gateway.CachedResponse, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if cached, ok := f.entries[key]; ok {
		return &cached, nil
	}
	return nil, nil
}

func (f *fakeIdempotencyStore) Save(_ context.Context, key string, response gateway.CachedResponse, ttl time.Duration) error {
	f.entries[key] = response
	f.saves++
	f.lastTTL = ttl
	return nil
}

// countingHandler grava 201 e conta quantas vezes foi alcançado
func countingHandler(calls *int, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func idempotentRequest(key string, actor domain.Actor) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/transactions", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return req.WithContext(ContextWithActor(req.Context(), actor))
}

func TestIdempotencyReplaysCachedResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store)(countingHandler(&calls, http.StatusCreated, `{"reference":"12345678"}`))
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, idempotentRequest("chave-abc", actor))
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, 1, calls)
	require.Equal(t, 1, store.saves)
	require.Equal(t, 24*time.Hour, store.lastTTL)

	// Reenvio com a mesma chave: resposta repetida sem re-executar o handler
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, idempotentRequest("chave-abc", actor))
	require.Equal(t, 1, calls)
	require.Equal(t, http.StatusCreated, second.Code)
	require.Equal(t, first.Body.String(), second.Body.String())
	require.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
}

func TestIdempotencyKeyIsScopedPerActor(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store)(countingHandler(&calls, http.StatusCreated, "ok"))

	first := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}
	second := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}

	handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest("mesma-chave", first))
	require.Equal(t, 1, calls)

	// A mesma chave vinda de outro usuário não repete a resposta do primeiro
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, idempotentRequest("mesma-chave", second))
	require.Equal(t, 2, calls)
	require.Empty(t, rec.Header().Get("X-Idempotency-Hit"))
}

func TestIdempotencyWithoutKeyBypassesCache(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store)(countingHandler(&calls, http.StatusCreated, "ok"))
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}

	handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest("", actor))
	handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest("", actor))
	require.Equal(t, 2, calls)
	require.Zero(t, store.saves)
}

func TestIdempotencyFailsOpenWhenStoreIsDown(t *testing.T) {
	store := newFakeIdempotencyStore()
	store.getErr = errors.New("connection refused")
	calls := 0
	handler := Idempotency(store)(countingHandler(&calls, http.StatusCreated, "ok"))
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}

	// Store fora do ar não pode travar a request
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, idempotentRequest("chave-abc", actor))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 1, calls)
	require.Zero(t, store.saves)
}

func TestIdempotencyDoesNotCacheServerErrors(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store)(countingHandler(&calls, http.StatusInternalServerError, "boom"))
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleUser}

	handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest("chave-abc", actor))
	require.Zero(t, store.saves)

	// 5xx fica de fora do cache: o cliente pode tentar de novo
	handler.ServeHTTP(httptest.NewRecorder(), idempotentRequest("chave-abc", actor))
	require.Equal(t, 2, calls)
}
