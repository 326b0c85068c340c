// Package onesignal fala com a API REST do provedor de push.
// Usado só pelo worker: a API nunca espera esse HTTP.
package onesignal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DinoRu/chapmoney/internal/tasks"
)

const endpoint = "https://onesignal.com/api/v1/notifications"

// Timeout limitado: o provedor fora do ar não pode prender o worker
const requestTimeout = 10 * time.Second

type Config struct {
	AppID  string
	APIKey string
}

func ConfigFromEnv() Config {
	return Config{
		AppID:  os.Getenv("ONESIGNAL_APP_ID"),
		APIKey: os.Getenv("ONESIGNAL_API_KEY"),
	}
}

type Client struct {
	config Config
	http   *http.Client
}

func NewClient(config Config) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: requestTimeout},
	}
}

// payload no formato que o OneSignal espera
type notificationPayload struct {
	AppID            string            `json:"app_id"`
	IncludePlayerIDs []string          `json:"include_player_ids"`
	Contents         map[string]string `json:"contents"`
	Headings         map[string]string `json:"headings"`
	Data             map[string]string `json:"data"`
}

// Send entrega um push. Lista vazia de destinatários é skip logado, não
// erro — o chamador já filtrou usuários sem aparelho. Resposta não-2xx é
// erro: o worker vai tentar de novo dentro do orçamento de retry.
func (c *Client) Send(ctx context.Context, task tasks.PushTask) error {
	if len(task.PlayerIDs) == 0 {
		log.Warn().Msg("Push ignorado: nenhum destinatário válido")
		return nil
	}

	data := task.Data
	if data == nil {
		data = map[string]string{}
	}

	body, err := json.Marshal(notificationPayload{
		AppID:            c.config.AppID,
		IncludePlayerIDs: task.PlayerIDs,
		Contents:         map[string]string{"en": task.Message},
		Headings:         map[string]string{"en": task.Title},
		Data:             data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("push provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("push provider returned %d: %s", resp.StatusCode, detail)
	}

	log.Info().Int("recipients", len(task.PlayerIDs)).Msg("Push entregue ao OneSignal")
	return nil
}
