package cnst

// Entity lifecycle statuses.
const (
	EntityActive   = "ATIVA"
	EntityInactive = "INATIVA"
)

// Supplier registry statuses (situação cadastral).
const (
	SupplierActive    = "ATIVO"
	SupplierInactive  = "INATIVO"
	SupplierSuspended = "SUSPENSO"
)

// Supplier overall regularity.
const (
	RegularityRegular   = "REGULAR"
	RegularityIrregular = "IRREGULAR"
)

// Contract statuses.
const (
	ContractInForce   = "VIGENTE"
	ContractClosed    = "ENCERRADO"
	ContractSuspended = "SUSPENSO"
	ContractRescinded = "RESCINDIDO"
	ContractCancelled = "CANCELADO"
)

// Certificate statuses. Only the transition to CertificateExpired is
// automatic; every other value is caller-controlled.
const (
	CertificateValid     = "VÁLIDA"
	CertificateExpired   = "VENCIDA"
	CertificateSuspended = "SUSPENSA"
)

// Risk levels derived from probability x impact.
const (
	RiskLow    = "BAIXO"
	RiskMedium = "MÉDIO"
	RiskHigh   = "ALTO"
)

// Risk entry statuses.
const (
	RiskActive    = "ATIVO"
	RiskMitigated = "MITIGADO"
	RiskClosed    = "ENCERRADO"
)

// Penalty statuses.
const (
	PenaltyApplied   = "APLICADA"
	PenaltySuspended = "SUSPENSA"
	PenaltyCancelled = "CANCELADA"
)

// Fiscal assignment types.
const (
	FiscalTitular  = "TITULAR"
	FiscalSuplente = "SUPLENTE"
)

// SourcePNCP tags records created or enriched from the national
// procurement portal.
const SourcePNCP = "PNCP"
