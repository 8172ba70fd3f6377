package database

import (
	"context"
	"time"
)

// Pagination bounds list queries. Zero values fall back to the defaults.
type Pagination struct {
	Page     int
	PageSize int
}

// TenantScope restricts a list query to one entity. A nil scope means no
// tenant filter (ROOT visibility); guards decide which one to pass.
type TenantScope *uint

type (
	// UserFilter filters user listings.
	UserFilter struct {
		Tenant TenantScope
		Role   string
		Active *bool
		Pagination
	}

	// EntityFilter filters entity listings.
	EntityFilter struct {
		Status string
		Pagination
	}

	// SupplierFilter filters supplier listings.
	SupplierFilter struct {
		Tenant     TenantScope
		Regularity string
		Active     *bool
		Pagination
	}

	// ContractFilter filters contract listings.
	ContractFilter struct {
		Tenant     TenantScope
		SupplierID *uint
		Status     string
		Pagination
	}

	// CertificateFilter filters certificate listings.
	CertificateFilter struct {
		SupplierID        *uint
		CertificateTypeID *uint
		Status            string
		Pagination
	}

	// RiskFilter filters risk matrix listings.
	RiskFilter struct {
		ContractID *uint
		Level      string
		Status     string
		Pagination
	}

	// PenaltyFilter filters penalty listings.
	PenaltyFilter struct {
		ContractID *uint
		Status     string
		Pagination
	}

	// InspectionFilter filters inspection record listings.
	InspectionFilter struct {
		ContractID *uint
		FiscalID   *uint
		Pagination
	}

	// ScheduleFilter filters schedule item listings.
	ScheduleFilter struct {
		ContractID *uint
		Status     string
		Pagination
	}

	// FiscalFilter filters fiscal assignment listings.
	FiscalFilter struct {
		ContractID *uint
		UserID     *uint
		Active     *bool
		Pagination
	}

	// AuditFilter filters audit trail listings.
	AuditFilter struct {
		Tenant    TenantScope
		UserID    *uint
		Action    string
		TableName string
		Since     *time.Time
		Until     *time.Time
		Pagination
	}
)

// Store defines the persistence operations of the api server. All writes
// that represent deletion are soft state transitions performed through the
// Update methods; nothing is physically removed except by external
// housekeeping.
type Store interface {
	// Close closes the underlying connection.
	Close() error

	// Transaction runs fn inside a database transaction carried by the
	// returned context.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	ListUsers(ctx context.Context, filter UserFilter) ([]*User, error)
	CountUsers(ctx context.Context) (int64, error)

	// Entities (tenants)
	CreateEntity(ctx context.Context, entity *Entity) error
	GetEntityByID(ctx context.Context, id uint) (*Entity, error)
	GetEntityByCNPJ(ctx context.Context, cnpj string) (*Entity, error)
	UpdateEntity(ctx context.Context, entity *Entity) error
	ListEntities(ctx context.Context, filter EntityFilter) ([]*Entity, error)

	// Suppliers
	CreateSupplier(ctx context.Context, supplier *Supplier) error
	GetSupplierByID(ctx context.Context, id uint) (*Supplier, error)
	GetSupplierByDocument(ctx context.Context, entityID uint, cnpj string) (*Supplier, error)
	UpdateSupplier(ctx context.Context, supplier *Supplier) error
	ListSuppliers(ctx context.Context, filter SupplierFilter) ([]*Supplier, error)

	// Contracts
	CreateContract(ctx context.Context, contract *Contract) error
	GetContractByID(ctx context.Context, id uint) (*Contract, error)
	GetContractByNumber(ctx context.Context, entityID uint, number string) (*Contract, error)
	UpdateContract(ctx context.Context, contract *Contract) error
	ListContracts(ctx context.Context, filter ContractFilter) ([]*Contract, error)
	ListContractsBySupplier(ctx context.Context, entityID, supplierID uint) ([]*Contract, error)

	// Certificate types
	CreateCertificateType(ctx context.Context, ct *CertificateType) error
	GetCertificateTypeByID(ctx context.Context, id uint) (*CertificateType, error)
	ListCertificateTypes(ctx context.Context) ([]*CertificateType, error)
	CountCertificateTypes(ctx context.Context) (int64, error)

	// Certificates
	CreateCertificate(ctx context.Context, cert *Certificate) error
	GetCertificateByID(ctx context.Context, id uint) (*Certificate, error)
	UpdateCertificate(ctx context.Context, cert *Certificate) error
	ListCertificates(ctx context.Context, filter CertificateFilter) ([]*Certificate, error)
	ListExpiredCertificates(ctx context.Context, supplierID uint, now time.Time) ([]*Certificate, error)

	// Risk matrix
	CreateRisk(ctx context.Context, risk *RiskEntry) error
	GetRiskByID(ctx context.Context, id uint) (*RiskEntry, error)
	UpdateRisk(ctx context.Context, risk *RiskEntry) error
	ListRisks(ctx context.Context, filter RiskFilter) ([]*RiskEntry, error)

	// Penalties
	CreatePenalty(ctx context.Context, penalty *Penalty) error
	GetPenaltyByID(ctx context.Context, id uint) (*Penalty, error)
	UpdatePenalty(ctx context.Context, penalty *Penalty) error
	ListPenalties(ctx context.Context, filter PenaltyFilter) ([]*Penalty, error)

	// Inspection records
	CreateInspection(ctx context.Context, record *InspectionRecord) error
	GetInspectionByID(ctx context.Context, id uint) (*InspectionRecord, error)
	ListInspections(ctx context.Context, filter InspectionFilter) ([]*InspectionRecord, error)

	// Schedule items
	CreateScheduleItem(ctx context.Context, item *ScheduleItem) error
	GetScheduleItemByID(ctx context.Context, id uint) (*ScheduleItem, error)
	UpdateScheduleItem(ctx context.Context, item *ScheduleItem) error
	ListScheduleItems(ctx context.Context, filter ScheduleFilter) ([]*ScheduleItem, error)

	// Fiscal assignments
	CreateFiscalAssignment(ctx context.Context, fa *FiscalAssignment) error
	GetFiscalAssignmentByID(ctx context.Context, id uint) (*FiscalAssignment, error)
	UpdateFiscalAssignment(ctx context.Context, fa *FiscalAssignment) error
	ListFiscalAssignments(ctx context.Context, filter FiscalFilter) ([]*FiscalAssignment, error)

	// Audit trail (append-only)
	AppendAudit(ctx context.Context, record *AuditRecord) error
	ListAudits(ctx context.Context, filter AuditFilter) ([]*AuditRecord, error)
}
