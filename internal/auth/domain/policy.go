package domain

import (
	"slices"
)

// MatchMode selects how a policy's required capabilities are matched.
type MatchMode int

const (
	// MatchAny allows the principal when its role holds at least one required capability.
	MatchAny MatchMode = iota

	// MatchAll allows the principal only when its role holds every required capability.
	MatchAll
)

// Policy describes who may pass the authorization stage of a route.
//
// Roles is an explicit allow-list of role identifiers. Capabilities is a required capability set
// matched according to Mode against the capabilities granted to the principal's role. When both
// are set both must hold. An empty policy admits any principal carrying a valid role.
type Policy struct {
	Roles        []int64
	Capabilities []Capability
	Mode         MatchMode
}

// AllowRoles returns a policy admitting only the listed roles.
func AllowRoles(roles ...int64) Policy {
	return Policy{Roles: roles}
}

// RequireAny returns a policy admitting roles that hold at least one of caps.
func RequireAny(caps ...Capability) Policy {
	return Policy{Capabilities: caps, Mode: MatchAny}
}

// RequireAll returns a policy admitting roles that hold every capability in caps.
func RequireAll(caps ...Capability) Policy {
	return Policy{Capabilities: caps, Mode: MatchAll}
}

// NeedsCapabilities reports whether evaluating the policy requires the role's capability set.
func (p Policy) NeedsCapabilities() bool {
	return len(p.Capabilities) > 0
}

// Allows evaluates the policy for principal given the capabilities granted to its role.
// A nil principal or a principal without a positive role identifier is always denied.
func (p Policy) Allows(principal *Principal, granted []Capability) bool {
	if principal == nil || principal.User.RoleID <= 0 {
		return false
	}

	if len(p.Roles) > 0 && !slices.Contains(p.Roles, principal.User.RoleID) {
		return false
	}

	if len(p.Capabilities) == 0 {
		return true
	}

	switch p.Mode {
	case MatchAll:
		for _, required := range p.Capabilities {
			if !slices.Contains(granted, required) {
				return false
			}
		}
		return true
	default:
		for _, required := range p.Capabilities {
			if slices.Contains(granted, required) {
				return true
			}
		}
		return false
	}
}
