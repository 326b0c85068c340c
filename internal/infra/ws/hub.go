package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/DinoRu/chapmoney/internal/domain"
)

const writeWait = 10 * time.Second

// Hub mantém o conjunto de assinantes WebSocket ativos e entrega os
// frames {type, data} a todos eles. É estado mutável de processo:
// construído UMA vez no main e injetado no resto (nada de global solto).
// O slice preserva a ordem de registro, que é a ordem de entrega.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// O dashboard admin roda em outra origem
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe faz o upgrade da conexão e registra o assinante. O loop de
// leitura só existe para detectar a desconexão — frames recebidos são
// descartados (o cliente não manda nada além de keep-alive).
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Falha no upgrade do WebSocket")
		return
	}

	h.mu.Lock()
	h.conns = append(h.conns, conn)
	total := len(h.conns)
	h.mu.Unlock()

	log.Info().Int("subscribers", total).Msg("Assinante WebSocket conectado")

	go h.readLoop(conn)
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.Unsubscribe(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Unsubscribe remove e fecha a conexão. Chamar com uma conexão já
// removida é um no-op seguro.
func (h *Hub) Unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	for i, c := range h.conns {
		if c == conn {
			h.conns = append(h.conns[:i], h.conns[i+1:]...)
			break
		}
	}
	h.mu.Unlock()

	_ = conn.Close()
}

// Broadcast entrega o evento a todos os assinantes, em ordem de registro,
// best-effort: falha de escrita em um não impede os demais, só derruba a
// conexão que falhou.
func (h *Hub) Broadcast(event domain.Event) {
	frame := event.Frame()

	// O mutex fica preso durante as escritas: gorilla/websocket não
	// tolera dois escritores concorrentes na mesma conexão, então
	// broadcasts concorrentes são serializados aqui.
	h.mu.Lock()
	var dead []*websocket.Conn
	for _, conn := range h.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frame); err != nil {
			log.Warn().Err(err).Str("type", frame.Type).
				Msg("Falha ao enviar evento, removendo assinante")
			dead = append(dead, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range dead {
		h.Unsubscribe(conn)
	}
}

// Len existe para métricas/health e para os testes
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
