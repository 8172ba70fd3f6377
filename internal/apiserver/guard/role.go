package guard

import (
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
)

// RequireRole rejects principals whose role is not in the allow-list.
func RequireRole(p Principal, allowed cnst.RoleSet) error {
	if allowed.Contains(p.Role) {
		return nil
	}
	return errorx.AccessDenied("error.access_denied.role").
		WithDetail("required", allowed.Strings())
}
