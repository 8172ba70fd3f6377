package cnst

// Role represents a user profile within an entity
type Role string

const (
	// RoleRoot is the cross-tenant superuser profile
	RoleRoot Role = "ROOT"
	// RoleGestor is the tenant-level manager profile
	RoleGestor Role = "GESTOR"
	// RoleFiscalTecnico is the technical contract inspector profile
	RoleFiscalTecnico Role = "FISCAL_TECNICO"
	// RoleFiscalAdm is the administrative contract inspector profile
	RoleFiscalAdm Role = "FISCAL_ADM"
	// RoleApoio is the support staff profile
	RoleApoio Role = "APOIO"
	// RoleAuditor is the read-mostly audit profile
	RoleAuditor Role = "AUDITOR"
)

// RoleSet is a fixed allow-list of roles for an operation.
type RoleSet []Role

// Named allow-lists used across the API. Kept as data so every
// role check goes through the same predicate.
var (
	RootOnly       = RoleSet{RoleRoot}
	GestorOrRoot   = RoleSet{RoleRoot, RoleGestor}
	AuditorAccess  = RoleSet{RoleRoot, RoleGestor, RoleAuditor}
	FiscalAccess   = RoleSet{RoleRoot, RoleGestor, RoleFiscalTecnico, RoleFiscalAdm}
	FiscalTecnico  = RoleSet{RoleRoot, RoleGestor, RoleFiscalTecnico}
	FiscalAdm      = RoleSet{RoleRoot, RoleGestor, RoleFiscalAdm}
	CadastroAccess = RoleSet{RoleRoot, RoleGestor, RoleApoio}
	ConsultaPNCP   = RoleSet{RoleRoot, RoleGestor, RoleAuditor, RoleApoio}
	ContratosPNCP  = RoleSet{RoleRoot, RoleGestor, RoleAuditor}
)

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r Role) bool {
	for _, allowed := range s {
		if allowed == r {
			return true
		}
	}
	return false
}

// Strings returns the set as plain strings for error payloads.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// Valid reports whether r is one of the known profiles.
func (r Role) Valid() bool {
	switch r {
	case RoleRoot, RoleGestor, RoleFiscalTecnico, RoleFiscalAdm, RoleApoio, RoleAuditor:
		return true
	}
	return false
}
