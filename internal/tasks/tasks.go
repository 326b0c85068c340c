// Package tasks define os envelopes JSON que trafegam na fila durável
// entre a API (publisher) e o worker de notificações (consumer).
package tasks

import "time"

const (
	// Exchange tópico onde a API publica e o worker consome
	Exchange = "chapmoney_tasks"

	Queue           = "notification_queue"
	DeadLetterQueue = "notification_dead_letter"

	// Routing keys (o worker faz bind em "notify.#")
	RoutingPush             = "notify.push"
	RoutingEmailTransaction = "notify.email.transaction"
	RoutingEmailResetLink   = "notify.email.reset_link"
	RoutingEmailResetOTP    = "notify.email.reset_otp"

	// Política de retry: orçamento fixo de tentativas com atraso fixo,
	// contagem carregada num header da mensagem. Esgotou -> dead-letter.
	RetryHeader = "x-retry-count"
	MaxAttempts = 3
	RetryDelay  = 60 * time.Second
)

// PushTask pede ao worker um POST no provedor de push.
// PlayerIDs já chega resolvido pela API (usuários sem aparelho
// registrado foram descartados silenciosamente na resolução).
type PushTask struct {
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	PlayerIDs []string          `json:"player_ids"`
	Data      map[string]string `json:"data,omitempty"`
}

// TransactionEmailTask avisa a caixa do administrador sobre uma nova
// transação aguardando validação.
type TransactionEmailTask struct {
	TransactionID string `json:"transaction_id"`
	Reference     string `json:"reference"`
}

type PasswordResetLinkTask struct {
	Email string `json:"email"`
	Link  string `json:"link"`
}

type PasswordResetOTPTask struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
