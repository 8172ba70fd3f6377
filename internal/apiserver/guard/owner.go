package guard

import (
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
)

// Owned is any record that declares a responsible user. A nil reference
// means no one claimed it yet.
type Owned interface {
	OwnerRef() *uint
}

// CheckOwnership decides whether the principal may modify the record as
// its owner. ROOT and GESTOR bypass the check; records without an owner
// are open to anyone who got past the tenant and role guards.
func CheckOwnership(p Principal, record Owned) error {
	if p.IsRoot() || p.Role == cnst.RoleGestor {
		return nil
	}
	owner := record.OwnerRef()
	if owner == nil {
		return nil
	}
	if *owner != p.ID {
		return errorx.AccessDenied("error.access_denied.owner")
	}
	return nil
}
