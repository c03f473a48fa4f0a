package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title          string `json:"title"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	CategoryName   string `json:"category_name"`
	PriorityName   string `json:"priority_name"`
	Triaged        bool   `json:"triaged"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatusID    int64  `json:"old_status_id"`
	NewStatusID    int64  `json:"new_status_id"`
	NewStatusName  string `json:"new_status_name"`
	RequesterEmail string `json:"requester_email"`
	TicketTitle    string `json:"ticket_title"`
	Closed         bool   `json:"closed"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TechnicianID    int64  `json:"technician_id"`
	TechnicianName  string `json:"technician_name"`
	TechnicianEmail string `json:"technician_email"`
	TicketTitle     string `json:"ticket_title"`
}
