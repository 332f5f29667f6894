package domain

import (
	"slices"
	"time"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
)

// Seeded role identifiers.
const (
	AdminRoleID int64 = 1
	UserRoleID  int64 = 2
	GuestRoleID int64 = 3
)

// Role groups the capabilities granted to its users.
type Role struct {
	ID           int64
	Name         string
	Capabilities []authDomain.Capability
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Has reports whether the role grants capability.
func (r *Role) Has(capability authDomain.Capability) bool {
	return slices.Contains(r.Capabilities, capability)
}
