package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/DinoRu/chapmoney/internal/domain"
	internalMiddleware "github.com/DinoRu/chapmoney/internal/infra/http/middleware"
	"github.com/DinoRu/chapmoney/internal/infra/ws"
	"github.com/DinoRu/chapmoney/internal/usecase"
)

// TransactionHandler expõe o ciclo de vida das transações via HTTP
type TransactionHandler struct {
	createUseCase *usecase.CreateTransactionUseCase
	getUseCase    *usecase.GetTransactionsUseCase
	updateUseCase *usecase.UpdateStatusUseCase
	deleteUseCase *usecase.DeleteTransactionUseCase
	notifyUseCase *usecase.NotifyTransactionUseCase
	hub           *ws.Hub
}

func NewTransactionHandler(
	createUC *usecase.CreateTransactionUseCase,
	getUC *usecase.GetTransactionsUseCase,
	updateUC *usecase.UpdateStatusUseCase,
	deleteUC *usecase.DeleteTransactionUseCase,
	notifyUC *usecase.NotifyTransactionUseCase,
	hub *ws.Hub,
) *TransactionHandler {
	return &TransactionHandler{
		createUseCase: createUC,
		getUseCase:    getUC,
		updateUseCase: updateUC,
		deleteUseCase: deleteUC,
		notifyUseCase: notifyUC,
		hub:           hub,
	}
}

// DTOs com tags snake_case (padrão da API)

type CreateTransactionRequest struct {
	SenderCountry    string          `json:"sender_country"`
	SenderCurrency   string          `json:"sender_currency"`
	SenderAmount     int64           `json:"sender_amount"`
	ReceiverCountry  string          `json:"receiver_country"`
	ReceiverCurrency string          `json:"receiver_currency"`
	ReceiverAmount   int64           `json:"receiver_amount"`
	ConversionRate   decimal.Decimal `json:"conversion_rate"`
	PaymentType      string          `json:"payment_type"`
	RecipientName    string          `json:"recipient_name"`
	RecipientPhone   string          `json:"recipient_phone"`
	RecipientType    string          `json:"recipient_type"`
	IncludeFee       bool            `json:"include_fee"`
	FeeAmount        int64           `json:"fee_amount"`
}

type TransactionResponse struct {
	ID               string          `json:"id"`
	Reference        string          `json:"reference"`
	Timestamp        time.Time       `json:"timestamp"`
	SenderID         string          `json:"sender_id"`
	SenderCountry    string          `json:"sender_country"`
	SenderCurrency   string          `json:"sender_currency"`
	SenderAmount     int64           `json:"sender_amount"`
	ReceiverCountry  string          `json:"receiver_country"`
	ReceiverCurrency string          `json:"receiver_currency"`
	ReceiverAmount   int64           `json:"receiver_amount"`
	ConversionRate   decimal.Decimal `json:"conversion_rate"`
	PaymentType      string          `json:"payment_type"`
	RecipientName    string          `json:"recipient_name"`
	RecipientPhone   string          `json:"recipient_phone"`
	RecipientType    string          `json:"recipient_type"`
	IncludeFee       bool            `json:"include_fee"`
	FeeAmount        int64           `json:"fee_amount"`
	Status           domain.Status   `json:"status"`
	IsHidden         bool            `json:"is_hidden"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               t.ID.String(),
		Reference:        t.Reference,
		Timestamp:        t.Timestamp,
		SenderID:         t.SenderID.String(),
		SenderCountry:    t.SenderCountry,
		SenderCurrency:   t.SenderCurrency,
		SenderAmount:     t.SenderAmount,
		ReceiverCountry:  t.ReceiverCountry,
		ReceiverCurrency: t.ReceiverCurrency,
		ReceiverAmount:   t.ReceiverAmount,
		ConversionRate:   t.ConversionRate,
		PaymentType:      t.PaymentType,
		RecipientName:    t.RecipientName,
		RecipientPhone:   t.RecipientPhone,
		RecipientType:    t.RecipientType,
		IncludeFee:       t.IncludeFee,
		FeeAmount:        t.FeeAmount,
		Status:           t.Status,
		IsHidden:         t.IsHidden,
	}
}

func toTransactionResponses(transactions []*domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, toTransactionResponse(t))
	}
	return responses
}

// Create: POST /transactions — remetente vem do token, nunca do body
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := internalMiddleware.ActorFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Credenciais ausentes")
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	transaction, err := h.createUseCase.Execute(r.Context(), actor.ID, usecase.CreateTransactionInput{
		SenderCountry:    req.SenderCountry,
		SenderCurrency:   req.SenderCurrency,
		SenderAmount:     req.SenderAmount,
		ReceiverCountry:  req.ReceiverCountry,
		ReceiverCurrency: req.ReceiverCurrency,
		ReceiverAmount:   req.ReceiverAmount,
		ConversionRate:   req.ConversionRate,
		PaymentType:      req.PaymentType,
		RecipientName:    req.RecipientName,
		RecipientPhone:   req.RecipientPhone,
		RecipientType:    req.RecipientType,
		IncludeFee:       req.IncludeFee,
		FeeAmount:        req.FeeAmount,
	})
	if err != nil {
		respondUseCaseError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toTransactionResponse(transaction))
}

// List: GET /transactions?status=&page=&limit= (admin, ocultas incluídas)
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	status, err := statusParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Status inválido")
		return
	}
	page, limit := paginationParams(r)

	transactions, err := h.getUseCase.List(r.Context(), status, page, limit)
	if err != nil {
		respondUseCaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponses(transactions))
}

// ListMine: GET /transactions/me — só do usuário logado, sem ocultas
func (h *TransactionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := internalMiddleware.ActorFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Credenciais ausentes")
		return
	}

	status, err := statusParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Status inválido")
		return
	}
	page, limit := paginationParams(r)

	transactions, err := h.getUseCase.ListMine(r.Context(), actor.ID, status, page, limit)
	if err != nil {
		respondUseCaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponses(transactions))
}

// Search: GET /transactions/search?q=&status=&start_date=&end_date=
func (h *TransactionHandler) Search(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.getUseCase.Search(r.Context(), usecase.SearchParams{
		Query:     r.URL.Query().Get("q"),
		Status:    r.URL.Query().Get("status"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	})
	if err != nil {
		respondUseCaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponses(transactions))
}

// GetByID: GET /transactions/{id}
func (h *TransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, _ := internalMiddleware.ActorFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id inválido")
		return
	}

	transaction, err := h.getUseCase.GetByID(r.Context(), id, actor)
	if err != nil {
		respondUseCaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(transaction))
}

// GetByReference: GET /transactions/reference/{reference}
func (h *TransactionHandler) GetByReference(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.getUseCase.GetByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		respondUseCaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(transaction))
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus: PATCH /transactions/{id} (admin-only via middleware)
func (h *TransactionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := internalMiddleware.ActorFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Credenciais ausentes")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id inválido")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Status inválido")
		return
	}

	transaction, err := h.updateUseCase.Execute(r.Context(), id, status, actor)
	if err != nil {
		respondUseCaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(transaction))
}

// Delete: DELETE /transactions/{id} — soft delete, dono ou admin
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := internalMiddleware.ActorFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Credenciais ausentes")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id inválido")
		return
	}

	if err := h.deleteUseCase.Execute(r.Context(), id, actor); err != nil {
		respondUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Notify: POST /transactions/{id}/notify — reenvia o push de conclusão
func (h *TransactionHandler) Notify(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id inválido")
		return
	}

	if err := h.notifyUseCase.Execute(r.Context(), id); err != nil {
		respondUseCaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "notification_queued"})
}

// WS: GET /transactions/ws — canal em tempo real do dashboard
func (h *TransactionHandler) WS(w http.ResponseWriter, r *http.Request) {
	h.hub.Subscribe(w, r)
}

// Helpers de query string

func statusParam(r *http.Request) (*domain.Status, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func paginationParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// respondUseCaseError mapeia erros de domínio -> HTTP status code
func respondUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound), errors.Is(err, domain.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "Transação não encontrada")
	case errors.Is(err, domain.ErrReferenceExhausted):
		log.Error().Err(err).Msg("Geração de referência esgotou as tentativas")
		respondError(w, http.StatusConflict, "Não foi possível gerar uma referência única")
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNoRecipients):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, "Operação não permitida")
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Credenciais ausentes")
	default:
		log.Error().Err(err).Msg("Erro interno ao processar requisição")
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}
