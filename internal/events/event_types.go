package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/travel-crm/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerCreated    EventType = "customer_created"
	EventCustomerUpdated    EventType = "customer_updated"
	EventCustomerDeleted    EventType = "customer_deleted"
	EventCustomerAssigned   EventType = "customer_assigned"
	EventCustomerTravelling EventType = "customer_travelling"
	EventLogCreated         EventType = "log_created"
	EventLogUpdated         EventType = "log_updated"
	EventLogDeleted         EventType = "log_deleted"
	EventUserChanged        EventType = "user_changed"
)

// DataChangeEvents lists every event that alters data shown on dashboards.
var DataChangeEvents = []EventType{
	EventCustomerCreated,
	EventCustomerUpdated,
	EventCustomerDeleted,
	EventCustomerAssigned,
	EventCustomerTravelling,
	EventLogCreated,
	EventLogUpdated,
	EventLogDeleted,
	EventUserChanged,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	EntityID  string       `json:"entity_id"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload,omitempty"`
}

// New builds an event stamped with a fresh id and the current time.
func New(eventType EventType, entityID string, actor *domain.Actor, payload interface{}) Event {
	e := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if actor != nil {
		e.Actor = *actor
	}
	return e
}

// CustomerAssignedPayload payload.
type CustomerAssignedPayload struct {
	PreviousEmployeeID string `json:"previous_employee_id"`
	EmployeeID         string `json:"employee_id"`
}

// LogPayload payload.
type LogPayload struct {
	CustomerID string              `json:"customer_id"`
	Type       domain.ActivityType `json:"type"`
	Outcome    domain.Outcome      `json:"outcome"`
}
