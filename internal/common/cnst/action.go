package cnst

// ActionType labels an audit-trail entry.
type ActionType string

const (
	// ActionCreate represents a create action
	ActionCreate ActionType = "CREATE"
	// ActionUpdate represents an update action
	ActionUpdate ActionType = "UPDATE"
	// ActionDeactivate represents a soft-delete (status flip) action
	ActionDeactivate ActionType = "DEACTIVATE"
	// ActionLogin represents a successful authentication
	ActionLogin ActionType = "LOGIN"
	// ActionSync represents a reconciliation write from the PNCP portal
	ActionSync ActionType = "PNCP_SYNC"
)
