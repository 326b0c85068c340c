package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// DeliveryLog é o documento de auditoria de cada tentativa de entrega do
// worker (push/email). Tags 'bson' em vez de 'json'.
type DeliveryLog struct {
	ID          string    `bson:"_id,omitempty"`
	RoutingKey  string    `bson:"routing_key"`
	Attempt     int       `bson:"attempt"`
	Outcome     string    `bson:"outcome"` // delivered | retried | dead_lettered
	Error       string    `bson:"error,omitempty"`
	ProcessedAt time.Time `bson:"processed_at"`
}

const (
	OutcomeDelivered    = "delivered"
	OutcomeRetried      = "retried"
	OutcomeDeadLettered = "dead_lettered"
)

type DeliveryLogRepository struct {
	collection *mongo.Collection
}

func NewDeliveryLogRepository(client *mongo.Client, dbName string) *DeliveryLogRepository {
	collection := client.Database(dbName).Collection("notification_logs")
	return &DeliveryLogRepository{collection: collection}
}

func (r *DeliveryLogRepository) Save(ctx context.Context, log DeliveryLog) error {
	log.ProcessedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to insert delivery log: %w", err)
	}
	return nil
}
