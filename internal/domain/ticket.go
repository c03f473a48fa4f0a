package domain

import "time"

// Ticket is the aggregate for support requests ("chamados").
//
// Invariant: ClosedAt is non-nil if and only if the ticket sits in the
// terminal status; reopening clears it. UpdatedAt is refreshed on every
// mutation.
type Ticket struct {
	ID           int64
	Title        string
	Description  string
	OpenedAt     time.Time
	ClosedAt     *time.Time
	UpdatedAt    *time.Time
	RequesterID  int64
	TechnicianID *int64
	CategoryID   int64
	PriorityID   int64
	StatusID     int64

	// Resolved references, populated by listing and detail queries so
	// responses never carry lazy stubs.
	Requester  *User
	Technician *User
	Category   *Category
	Priority   *Priority
	Status     *Status
}

// Closed reports whether the ticket sits in the terminal status. The
// resolved Status, when loaded, carries the name fallback for databases
// where the seeded ids shifted.
func (t *Ticket) Closed() bool {
	if t.Status != nil {
		return t.Status.Terminal()
	}
	return t.StatusID == StatusClosed
}
