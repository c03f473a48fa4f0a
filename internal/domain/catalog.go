package domain

import "time"

// Category is reference data for ticket classification. Categories are
// soft-disabled via Active, never deleted, since tickets keep referencing them.
type Category struct {
	ID          int64
	Name        string
	Description *string
	Active      bool
	CreatedAt   time.Time
}

// Priority is reference data ordered by Level (1=Baixa .. 4=Crítica).
type Priority struct {
	ID          int64
	Name        string
	Description *string
	Level       int
	Active      bool
	CreatedAt   time.Time
}
