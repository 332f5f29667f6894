package domain

import (
	"time"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
)

// Permission is a named capability that roles can be granted.
type Permission struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Capability returns the capability the permission grants.
func (p *Permission) Capability() authDomain.Capability {
	return authDomain.Capability(p.Name)
}
