package domain

import (
	"strings"
	"time"
)

// Well-known status ids seeded by the initial migration. The ids mirror the
// convention the frontend hardcodes; StatusIDByName is the fallback for
// environments where the seed ids shifted.
const (
	StatusOpen       int64 = 1
	StatusInProgress int64 = 2
	StatusAwaiting   int64 = 3
	StatusClosed     int64 = 4
)

// Status is reference data for the ticket lifecycle.
type Status struct {
	ID          int64
	Name        string
	Description *string
	Active      bool
	CreatedAt   time.Time
}

// Terminal reports whether a ticket in this status is considered closed.
func (s *Status) Terminal() bool {
	return s.ID == StatusClosed || strings.EqualFold(s.Name, "Fechado")
}

// StatusIDByName resolves a well-known status id from its seeded name.
func StatusIDByName(name string) (int64, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aberto":
		return StatusOpen, true
	case "em andamento":
		return StatusInProgress, true
	case "aguardando usuário", "aguardando usuario":
		return StatusAwaiting, true
	case "fechado":
		return StatusClosed, true
	default:
		return 0, false
	}
}
