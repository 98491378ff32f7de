package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// AuditLog representa o documento que será salvo no Mongo.
// Um documento por rodada de alocação concluída.
// Usamos tags 'bson' em vez de 'json'.
type AuditLog struct {
	ID            string    `bson:"_id,omitempty"` // O Mongo gera automático se vazio, ou usamos o run_id do evento
	RunID         string    `bson:"run_id"`
	Kind          string    `bson:"kind"` // "project" ou "donation"
	EntityID      int64     `bson:"entity_id"`
	FullAmount    int64     `bson:"full_amount"`
	Invested      int64     `bson:"invested"`
	FullyInvested bool      `bson:"fully_invested"`
	ProcessedAt   time.Time `bson:"processed_at"`
}

type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	// Cria/Obtém a collection "audit_logs"
	collection := client.Database(dbName).Collection("audit_logs")
	return &AuditRepository{collection: collection}
}

func (r *AuditRepository) Save(ctx context.Context, log AuditLog) error {
	// Adiciona timestamp de processamento
	log.ProcessedAt = time.Now()

	// InsertOne salva o documento
	_, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}
