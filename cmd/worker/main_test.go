package main

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/DinoRu/chapmoney/internal/infra/mongodb"
	"github.com/DinoRu/chapmoney/internal/tasks"
)

type ackRecorder struct {
	acks    int
	nacks   int
	requeue bool
}

func (a *ackRecorder) Ack(_ uint64, _ bool) error { a.acks++; return nil }

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacks++
	a.requeue = requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, _ bool) error { return nil }

type fakeTaskChannel struct {
	err       error
	exchanges []string
	keys      []string
}

func (f *fakeTaskChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, _ amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchanges = append(f.exchanges, exchange)
	f.keys = append(f.keys, key)
	return nil
}

type fakeAuditor struct {
	logs []mongodb.DeliveryLog
}

func (f *fakeAuditor) Save(_ context.Context, log mongodb.DeliveryLog) error {
	f.logs = append(f.logs, log)
	return nil
}

// exhaustedDelivery monta uma entrega com routing key desconhecida (falha
// na hora) e o orçamento de retry já estourado.
func exhaustedDelivery(ack *ackRecorder) amqp.Delivery {
	return amqp.Delivery{
		Acknowledger: ack,
		RoutingKey:   "notify.desconhecida",
		Body:         []byte("{}"),
		Headers:      amqp.Table{tasks.RetryHeader: int32(tasks.MaxAttempts - 1)},
	}
}

func TestWorkerDeadLettersExhaustedTask(t *testing.T) {
	ack := &ackRecorder{}
	channel := &fakeTaskChannel{}
	audit := &fakeAuditor{}
	worker := &notificationWorker{deliveryLog: audit, channel: channel}

	worker.handle(exhaustedDelivery(ack))

	// Cópia publicada direto na fila dead-letter (exchange default)
	require.Equal(t, []string{""}, channel.exchanges)
	require.Equal(t, []string{tasks.DeadLetterQueue}, channel.keys)
	require.Equal(t, 1, ack.acks)
	require.Zero(t, ack.nacks)

	require.Len(t, audit.logs, 1)
	require.Equal(t, mongodb.OutcomeDeadLettered, audit.logs[0].Outcome)
	require.Equal(t, tasks.MaxAttempts, audit.logs[0].Attempt)
}

func TestWorkerRequeuesWhenDeadLetterPublishFails(t *testing.T) {
	ack := &ackRecorder{}
	channel := &fakeTaskChannel{err: errors.New("channel closed")}
	audit := &fakeAuditor{}
	worker := &notificationWorker{deliveryLog: audit, channel: channel}

	worker.handle(exhaustedDelivery(ack))

	// A entrega original volta para a fila em vez de ser Ack-ada: a
	// tarefa não pode evaporar só com a linha de auditoria no Mongo
	require.Zero(t, ack.acks)
	require.Equal(t, 1, ack.nacks)
	require.True(t, ack.requeue)
}
