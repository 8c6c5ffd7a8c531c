package services

// Routing keys of the events published after order writes.
const (
	EventOrderCreated      = "order.created"
	EventOrderProductAdded = "order.product_added"
)

// EventPublisher delivers order events to a message broker.
type EventPublisher interface {
	PublishOrderEvent(event string, payload interface{}) error
}
