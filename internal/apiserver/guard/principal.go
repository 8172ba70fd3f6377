// Package guard implements the authorization rules applied by every
// handler: tenant isolation, role allow-lists and record ownership.
package guard

import (
	"github.com/sentinela-gov/sentinela/internal/auth/jwt"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
)

// Principal is the authenticated caller a guard decision is made for.
type Principal struct {
	ID       uint
	Email    string
	Role     cnst.Role
	TenantID *uint
	System   bool
}

// FromClaims builds a Principal from validated token claims.
func FromClaims(claims *jwt.Claims) Principal {
	return Principal{
		ID:       claims.UserID,
		Email:    claims.Email,
		Role:     claims.Role,
		TenantID: claims.TenantID,
	}
}

// SystemPrincipal is the identity background jobs run under. It carries
// ROOT-level access and no tenant, and is never minted from a token.
func SystemPrincipal() Principal {
	return Principal{Role: cnst.RoleRoot, System: true}
}

// IsRoot reports whether the principal has cross-tenant access.
func (p Principal) IsRoot() bool {
	return p.Role == cnst.RoleRoot
}
