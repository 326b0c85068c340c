package gateway

import "github.com/DinoRu/chapmoney/internal/domain"

// Broadcaster é o caminho síncrono do fan-out: entrega o evento a todos
// os assinantes WebSocket ativos antes de retornar. Falha de envio em um
// assinante não bloqueia os demais (best-effort, em ordem de registro).
type Broadcaster interface {
	Broadcast(event domain.Event)
}
