// Package domain defines authentication and authorization domain models.
// Implements signed-token principals, rejection reasons and role/capability policies.
package domain

// Capability defines the types of operations a role may be granted.
// Capabilities are resolved per role and checked by authorization policies.
type Capability string

const (
	// UsersReadCapability allows reading other users' records.
	UsersReadCapability Capability = "users:read"

	// UsersWriteCapability allows modifying other users' records.
	UsersWriteCapability Capability = "users:write"

	// RolesWriteCapability allows assigning and managing roles.
	RolesWriteCapability Capability = "roles:write"

	// PermissionsWriteCapability allows managing the permission catalogue.
	PermissionsWriteCapability Capability = "permissions:write"
)

// RejectionReason is the machine-readable cause of a gate rejection.
// It is exposed to handlers, logs and metrics, never to the client.
type RejectionReason string

const (
	// ReasonNone marks an admitted request.
	ReasonNone RejectionReason = ""

	// ReasonMissingCredential means no usable bearer credential was presented.
	ReasonMissingCredential RejectionReason = "missing_credential"

	// ReasonInvalidToken means the token could not be parsed or its signature did not verify.
	ReasonInvalidToken RejectionReason = "invalid_token"

	// ReasonExpired means the token's embedded expiry has passed.
	ReasonExpired RejectionReason = "expired"

	// ReasonRevoked means a revocation entry exists for the token.
	ReasonRevoked RejectionReason = "revoked"

	// ReasonRateLimited means the client exceeded its sliding window budget.
	ReasonRateLimited RejectionReason = "rate_limited"

	// ReasonForbidden means the principal is authenticated but not allowed.
	ReasonForbidden RejectionReason = "forbidden"

	// ReasonUnavailable means a dependency failed and the gate failed closed.
	ReasonUnavailable RejectionReason = "unavailable"
)
