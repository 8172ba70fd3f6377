package guard

import (
	"errors"
	"testing"

	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	tenant *uint
	owner  *uint
}

func (r record) TenantRef() *uint { return r.tenant }
func (r record) OwnerRef() *uint  { return r.owner }

func uintPtr(v uint) *uint { return &v }

func principal(role cnst.Role, tenant *uint) Principal {
	return Principal{ID: 10, Role: role, TenantID: tenant}
}

func assertDenied(t *testing.T, err error) {
	t.Helper()
	var apiErr *errorx.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, errorx.CodeAccessDenied, apiErr.Code)
}

func TestListScope(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		wantAll   bool
		wantErr   bool
	}{
		{"root sees every tenant", principal(cnst.RoleRoot, nil), true, false},
		{"root with tenant still sees every tenant", principal(cnst.RoleRoot, uintPtr(3)), true, false},
		{"gestor scoped to own tenant", principal(cnst.RoleGestor, uintPtr(3)), false, false},
		{"fiscal scoped to own tenant", principal(cnst.RoleFiscalTecnico, uintPtr(7)), false, false},
		{"non-root without tenant denied", principal(cnst.RoleApoio, nil), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := ListScope(tt.principal)
			if tt.wantErr {
				assertDenied(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantAll {
				assert.Nil(t, scope)
			} else {
				require.NotNil(t, scope)
				assert.Equal(t, *tt.principal.TenantID, *(*uint)(scope))
			}
		})
	}
}

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		record    record
		wantErr   bool
	}{
		{"root crosses tenants", principal(cnst.RoleRoot, nil), record{tenant: uintPtr(5)}, false},
		{"same tenant passes", principal(cnst.RoleGestor, uintPtr(5)), record{tenant: uintPtr(5)}, false},
		{"other tenant denied", principal(cnst.RoleGestor, uintPtr(5)), record{tenant: uintPtr(6)}, true},
		{"unbound record is shared", principal(cnst.RoleAuditor, uintPtr(5)), record{}, false},
		{"principal without tenant denied", principal(cnst.RoleAuditor, nil), record{tenant: uintPtr(5)}, true},
		{"system principal crosses tenants", SystemPrincipal(), record{tenant: uintPtr(9)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAccess(tt.principal, tt.record)
			if tt.wantErr {
				assertDenied(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssignTenantForcesOwnTenant(t *testing.T) {
	// Whatever entity the request names, the record lands in the caller's
	// tenant.
	got, err := AssignTenant(principal(cnst.RoleGestor, uintPtr(5)), uintPtr(99))
	require.NoError(t, err)
	assert.Equal(t, uint(5), got)

	got, err = AssignTenant(principal(cnst.RoleApoio, uintPtr(2)), nil)
	require.NoError(t, err)
	assert.Equal(t, uint(2), got)
}

func TestAssignTenantRoot(t *testing.T) {
	got, err := AssignTenant(principal(cnst.RoleRoot, nil), uintPtr(99))
	require.NoError(t, err)
	assert.Equal(t, uint(99), got)

	// A named tenant wins over ROOT's own.
	got, err = AssignTenant(principal(cnst.RoleRoot, uintPtr(7)), uintPtr(99))
	require.NoError(t, err)
	assert.Equal(t, uint(99), got)

	// ROOT naming no tenant defaults to its own.
	got, err = AssignTenant(principal(cnst.RoleRoot, uintPtr(7)), nil)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got)

	// A ROOT with no tenant at all has no default to fall back to.
	_, err = AssignTenant(principal(cnst.RoleRoot, nil), nil)
	var apiErr *errorx.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, errorx.CodeValidationFailure, apiErr.Code)
}

func TestAssignTenantWithoutTenantDenied(t *testing.T) {
	_, err := AssignTenant(principal(cnst.RoleGestor, nil), uintPtr(5))
	assertDenied(t, err)
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, RequireRole(principal(cnst.RoleGestor, nil), cnst.GestorOrRoot))
	assert.NoError(t, RequireRole(SystemPrincipal(), cnst.RootOnly))

	err := RequireRole(principal(cnst.RoleAuditor, nil), cnst.GestorOrRoot)
	assertDenied(t, err)
	var apiErr *errorx.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []string{"ROOT", "GESTOR"}, apiErr.Data["required"])
}

func TestCheckOwnership(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		record    record
		wantErr   bool
	}{
		{"owner may modify", Principal{ID: 10, Role: cnst.RoleFiscalTecnico}, record{owner: uintPtr(10)}, false},
		{"non-owner denied", Principal{ID: 10, Role: cnst.RoleFiscalTecnico}, record{owner: uintPtr(11)}, true},
		{"gestor bypasses ownership", Principal{ID: 10, Role: cnst.RoleGestor}, record{owner: uintPtr(11)}, false},
		{"root bypasses ownership", Principal{ID: 10, Role: cnst.RoleRoot}, record{owner: uintPtr(11)}, false},
		{"unowned record open", Principal{ID: 10, Role: cnst.RoleApoio}, record{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOwnership(tt.principal, tt.record)
			if tt.wantErr {
				assertDenied(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
