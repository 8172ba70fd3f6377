package guard

import (
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
)

// TenantScoped is any record that declares which tenant it belongs to.
// A nil reference means the record is not bound to a tenant.
type TenantScoped interface {
	TenantRef() *uint
}

// ListScope returns the tenant restriction for list queries: ROOT sees
// every tenant, everyone else only their own. A non-ROOT caller without
// a tenant has nothing to list.
func ListScope(p Principal) (database.TenantScope, error) {
	if p.IsRoot() {
		return nil, nil
	}
	if p.TenantID == nil {
		return nil, errorx.AccessDenied("error.access_denied.no_tenant")
	}
	return database.TenantScope(p.TenantID), nil
}

// CheckAccess decides whether the principal may touch the record. ROOT
// always may. Records without a tenant reference are shared and pass for
// any authenticated caller.
func CheckAccess(p Principal, record TenantScoped) error {
	if p.IsRoot() {
		return nil
	}
	tenant := record.TenantRef()
	if tenant == nil {
		return nil
	}
	if p.TenantID == nil || *p.TenantID != *tenant {
		return errorx.AccessDenied("error.access_denied.tenant")
	}
	return nil
}

// AssignTenant resolves the tenant a new record is created under. Non-ROOT
// callers always write into their own tenant regardless of what the
// request claims; ROOT may name any tenant and otherwise defaults to its
// own. A ROOT with no tenant at all must name one.
func AssignTenant(p Principal, requested *uint) (uint, error) {
	if p.IsRoot() {
		if requested != nil {
			return *requested, nil
		}
		if p.TenantID != nil {
			return *p.TenantID, nil
		}
		return 0, errorx.ValidationFailure("error.validation.entity_required")
	}
	if p.TenantID == nil {
		return 0, errorx.AccessDenied("error.access_denied.no_tenant")
	}
	return *p.TenantID, nil
}
