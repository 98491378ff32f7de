package gateway

import "context"

// EventPublisher publica os eventos de alocação (melhor esforço).
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}
