package domain

// Tipos dos frames JSON enviados aos assinantes do WebSocket.
const (
	EventNewTransaction = "NEW_TRANSACTION"
	EventStatusChange   = "STATUS_CHANGE"
)

// EventFrame é o envelope {type, data} que vai no fio.
type EventFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Event é a variante etiquetada construída pelo controller e consumida
// imediatamente pelo dispatcher. Não é persistida.
type Event interface {
	Frame() EventFrame
}

type NewTransactionEvent struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    Status `json:"status"`
}

func (e NewTransactionEvent) Frame() EventFrame {
	return EventFrame{Type: EventNewTransaction, Data: e}
}

type StatusChangeEvent struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

func (e StatusChangeEvent) Frame() EventFrame {
	return EventFrame{Type: EventStatusChange, Data: e}
}
