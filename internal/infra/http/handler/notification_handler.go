package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/DinoRu/chapmoney/internal/usecase"
)

type NotificationHandler struct {
	promotionUseCase *usecase.SendPromotionUseCase
}

func NewNotificationHandler(promotionUC *usecase.SendPromotionUseCase) *NotificationHandler {
	return &NotificationHandler{promotionUseCase: promotionUC}
}

type PromotionRequest struct {
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	PlayerIDs []string `json:"player_ids"`
	UserIDs   []string `json:"user_ids"`
}

// Promotion: POST /transactions/notify/promotion — push promocional para
// uma lista explícita de aparelhos e/ou usuários. Nenhum destinatário
// resolvido = 400.
func (h *NotificationHandler) Promotion(w http.ResponseWriter, r *http.Request) {
	var req PromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	userIDs := make([]uuid.UUID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "user_id inválido: "+raw)
			return
		}
		userIDs = append(userIDs, id)
	}

	err := h.promotionUseCase.Execute(r.Context(), usecase.SendPromotionInput{
		Title:     req.Title,
		Message:   req.Message,
		PlayerIDs: req.PlayerIDs,
		UserIDs:   userIDs,
	})
	if err != nil {
		respondUseCaseError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
