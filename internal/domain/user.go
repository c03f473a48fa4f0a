package domain

import (
	"strings"
	"time"
)

// UserRole is the numeric account type stored on the user row.
// The numeric codes follow the institutional convention the frontend
// already depends on.
type UserRole int

const (
	RoleStudent   UserRole = 1
	RoleProfessor UserRole = 2
	RoleAdmin     UserRole = 3
)

// String returns the canonical role name.
func (r UserRole) String() string {
	switch r {
	case RoleStudent:
		return "Aluno"
	case RoleProfessor:
		return "Professor"
	case RoleAdmin:
		return "Admin"
	default:
		return "Desconhecido"
	}
}

// Valid reports whether the role code is a known one.
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleProfessor || r == RoleAdmin
}

// RoleByName resolves a role from its name, the fallback for environments
// where the numeric codes cannot be trusted.
func RoleByName(name string) (UserRole, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aluno", "student":
		return RoleStudent, true
	case "professor":
		return RoleProfessor, true
	case "admin", "administrador":
		return RoleAdmin, true
	default:
		return 0, false
	}
}

// User models any account: requesters, technicians and admins.
// Technicians are admin-capable accounts, optionally flagged with a
// specialty category used by triage handoff.
type User struct {
	ID                  int64
	FullName            string
	Email               string
	PasswordHash        string
	Role                UserRole
	Active              bool
	SpecialtyCategoryID *int64
	ResetToken          *string
	ResetTokenExpires   *time.Time
	CreatedAt           time.Time
}

// CanBeAssigned reports whether the account may receive ticket handoffs.
func (u *User) CanBeAssigned() bool {
	return u.Active && u.Role == RoleAdmin
}
