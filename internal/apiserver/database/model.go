package database

import (
	"time"

	"github.com/sentinela-gov/sentinela/internal/common/cnst"
)

// User represents an authenticated principal. EntityID is nil only for
// ROOT users with global scope.
type User struct {
	ID             uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	EntityID       *uint      `json:"entityId" gorm:"index:idx_user_entity_role"`
	Name           string     `json:"name" gorm:"type:varchar(150);not null"`
	CPF            string     `json:"cpf" gorm:"type:varchar(11);uniqueIndex;not null"`
	Email          string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash   string     `json:"-" gorm:"not null"`
	Role           cnst.Role  `json:"role" gorm:"type:varchar(30);not null;index:idx_user_entity_role"`
	Active         bool       `json:"active" gorm:"not null;default:true"`
	TOTPSecret     string     `json:"-" gorm:"type:varchar(64)"`
	TOTPTempSecret string     `json:"-" gorm:"type:varchar(64)"`
	TOTPEnabled    bool       `json:"totpEnabled" gorm:"not null;default:false"`
	LastLogin      *time.Time `json:"lastLogin"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// TenantRef returns the owning tenant of the user record itself.
func (u *User) TenantRef() *uint { return u.EntityID }

// Entity represents a government body (tenant). All other records are
// isolated by their owning entity.
type Entity struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CNPJ         string    `json:"cnpj" gorm:"type:varchar(14);uniqueIndex;not null"`
	LegalName    string    `json:"legalName" gorm:"type:varchar(255);not null"`
	TradeName    string    `json:"tradeName" gorm:"type:varchar(255)"`
	UGCode       string    `json:"ugCode" gorm:"type:varchar(20)"`
	Status       string    `json:"status" gorm:"type:varchar(20);not null;default:'ATIVA';index"`
	StatusDate   time.Time `json:"statusDate"`
	StatusReason string    `json:"statusReason" gorm:"type:text"`
	LogoURL      string    `json:"logoUrl" gorm:"type:varchar(500)"`
	ConfigJSON   string    `json:"configJson" gorm:"type:text"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Supplier represents a contracted company within an entity.
type Supplier struct {
	ID                  uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	EntityID            uint       `json:"entityId" gorm:"not null;uniqueIndex:idx_supplier_entity_cnpj"`
	CNPJ                string     `json:"cnpj" gorm:"type:varchar(14);index;uniqueIndex:idx_supplier_entity_cnpj"`
	CPF                 string     `json:"cpf" gorm:"type:varchar(11)"`
	LegalName           string     `json:"legalName" gorm:"type:varchar(255);not null"`
	TradeName           string     `json:"tradeName" gorm:"type:varchar(255)"`
	RegistryStatus      string     `json:"registryStatus" gorm:"type:varchar(20);not null;default:'ATIVO'"`
	Regularity          string     `json:"regularity" gorm:"type:varchar(20);not null;default:'REGULAR'"`
	LastVerifiedAt      *time.Time `json:"lastVerifiedAt"`
	ExpiredCertificates int        `json:"expiredCertificates" gorm:"not null;default:0"`
	ImpedimentDate      *time.Time `json:"impedimentDate"`
	ImpedimentReason    string     `json:"impedimentReason" gorm:"type:text"`
	Active              bool       `json:"active" gorm:"not null;default:true"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// TenantRef returns the owning tenant of the supplier.
func (s *Supplier) TenantRef() *uint { return &s.EntityID }

// Contract represents a procurement contract of an entity.
type Contract struct {
	ID            uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	EntityID      uint       `json:"entityId" gorm:"not null;uniqueIndex:idx_contract_entity_number;index:idx_contract_entity_status"`
	Number        string     `json:"number" gorm:"type:varchar(50);not null;uniqueIndex:idx_contract_entity_number"`
	ProcessNumber string     `json:"processNumber" gorm:"type:varchar(50)"`
	Object        string     `json:"object" gorm:"type:text;not null"`
	SupplierID    uint       `json:"supplierId" gorm:"not null;index"`
	GlobalValue   float64    `json:"globalValue" gorm:"type:decimal(18,2);not null"`
	ExecutedValue float64    `json:"executedValue" gorm:"type:decimal(18,2);not null;default:0"`
	SignedAt      *time.Time `json:"signedAt"`
	StartsAt      *time.Time `json:"startsAt"`
	EndsAt        *time.Time `json:"endsAt"`
	TermMonths    *int       `json:"termMonths"`
	Modality      string     `json:"modality" gorm:"type:varchar(50)"`
	ContractType  string     `json:"contractType" gorm:"type:varchar(50)"`
	ManagerID     *uint      `json:"managerId"`
	Status        string     `json:"status" gorm:"type:varchar(30);not null;default:'VIGENTE';index:idx_contract_entity_status"`
	Source        string     `json:"source" gorm:"type:varchar(30)"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// TenantRef returns the owning tenant of the contract.
func (c *Contract) TenantRef() *uint { return &c.EntityID }

// OwnerRef returns the declared manager of the contract.
func (c *Contract) OwnerRef() *uint { return c.ManagerID }

// CertificateType represents a kind of compliance certificate.
type CertificateType struct {
	ID                     uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Code                   string `json:"code" gorm:"type:varchar(30);uniqueIndex;not null"`
	Name                   string `json:"name" gorm:"type:varchar(150);not null"`
	RequiredForBidding     bool   `json:"requiredForBidding" gorm:"not null;default:true"`
	RequiredForContracting bool   `json:"requiredForContracting" gorm:"not null;default:true"`
	ValidityDays           int    `json:"validityDays" gorm:"not null;default:180"`
	APIAvailable           bool   `json:"apiAvailable" gorm:"not null;default:false"`
}

// Certificate represents a compliance document of a supplier. It has no
// tenant field of its own; isolation goes through the supplier.
type Certificate struct {
	ID                uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SupplierID        uint      `json:"supplierId" gorm:"not null;index:idx_certificate_supplier_expiry"`
	CertificateTypeID uint      `json:"certificateTypeId" gorm:"not null"`
	ProtocolNumber    string    `json:"protocolNumber" gorm:"type:varchar(100)"`
	IssuedAt          time.Time `json:"issuedAt" gorm:"not null"`
	ExpiresAt         time.Time `json:"expiresAt" gorm:"not null;index:idx_certificate_supplier_expiry"`
	Status            string    `json:"status" gorm:"type:varchar(20);not null;default:'VÁLIDA';index"`
	Origin            string    `json:"origin" gorm:"type:varchar(30)"`
	PDFPath           string    `json:"pdfPath" gorm:"type:varchar(500)"`
	FileHash          string    `json:"fileHash" gorm:"type:varchar(64)"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// RiskEntry represents a row of a contract's risk matrix. Level is derived
// from probability x impact and never set by callers.
type RiskEntry struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ContractID    uint      `json:"contractId" gorm:"not null;index"`
	Description   string    `json:"description" gorm:"type:text"`
	Probability   *int      `json:"probability"` // 1 to 5
	Impact        *int      `json:"impact"`      // 1 to 5
	Level         *string   `json:"level" gorm:"type:varchar(20)"`
	Mitigation    string    `json:"mitigation" gorm:"type:text"`
	ResponsibleID *uint     `json:"responsibleId"`
	Status        string    `json:"status" gorm:"type:varchar(20);not null;default:'ATIVO'"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// OwnerRef returns the user responsible for the risk entry.
func (r *RiskEntry) OwnerRef() *uint { return r.ResponsibleID }

// Penalty represents a sanction applied on a contract.
type Penalty struct {
	ID            uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	ContractID    uint       `json:"contractId" gorm:"not null;index"`
	Kind          string     `json:"kind" gorm:"type:varchar(30);not null"`
	FineAmount    *float64   `json:"fineAmount" gorm:"type:decimal(18,2)"`
	AppliedAt     *time.Time `json:"appliedAt"`
	AdminProcess  string     `json:"adminProcess" gorm:"type:varchar(100)"`
	Status        string     `json:"status" gorm:"type:varchar(20);not null;default:'APLICADA'"`
	Justification string     `json:"justification" gorm:"type:text"`
	AppealFiled   bool       `json:"appealFiled" gorm:"not null;default:false"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// InspectionRecord represents a field inspection report (ocorrência de
// fiscalização) signed by the assigned fiscal.
type InspectionRecord struct {
	ID               uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ContractID       uint      `json:"contractId" gorm:"not null;index"`
	FiscalID         uint      `json:"fiscalId" gorm:"not null;index"`
	OccurredAt       time.Time `json:"occurredAt" gorm:"not null"`
	Kind             string    `json:"kind" gorm:"type:varchar(50)"`
	Description      string    `json:"description" gorm:"type:text"`
	Photos           string    `json:"photos" gorm:"type:text"` // JSON stored as text
	Geolocation      string    `json:"geolocation" gorm:"type:varchar(50)"`
	FiscalSignature  string    `json:"fiscalSignature" gorm:"type:varchar(500)"`
	ContractorSigned bool      `json:"contractorSigned" gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"createdAt"`
}

// OwnerRef returns the fiscal that wrote the inspection record.
func (r *InspectionRecord) OwnerRef() *uint { return &r.FiscalID }

// ScheduleItem represents a stage of a contract's physical-financial
// schedule.
type ScheduleItem struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	ContractID  uint       `json:"contractId" gorm:"not null;index"`
	Stage       string     `json:"stage" gorm:"type:varchar(255)"`
	PlannedPct  *float64   `json:"plannedPct" gorm:"type:decimal(5,2)"`
	ExecutedPct float64    `json:"executedPct" gorm:"type:decimal(5,2);not null;default:0"`
	PlannedDate *time.Time `json:"plannedDate"`
	ActualDate  *time.Time `json:"actualDate"`
	Status      string     `json:"status" gorm:"type:varchar(20)"`
}

// FiscalAssignment represents the designation of a user as fiscal of a
// contract.
type FiscalAssignment struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ContractID uint      `json:"contractId" gorm:"not null;uniqueIndex:idx_fiscal_contract_user"`
	UserID     uint      `json:"userId" gorm:"not null;uniqueIndex:idx_fiscal_contract_user"`
	Kind       string    `json:"kind" gorm:"type:varchar(20);not null"` // TITULAR | SUPLENTE
	AssignedAt time.Time `json:"assignedAt" gorm:"not null"`
	Ordinance  string    `json:"ordinance" gorm:"type:varchar(100)"`
	Active     bool      `json:"active" gorm:"not null;default:true"`
}

// AuditRecord is immutable once written; the store only appends and reads.
type AuditRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	EntityID  *uint     `json:"entityId" gorm:"index:idx_audit_entity_ts"`
	UserID    *uint     `json:"userId" gorm:"index"`
	Action    string    `json:"action" gorm:"type:varchar(100)"`
	TableName string    `json:"tableName" gorm:"type:varchar(100)"`
	RecordID  *uint     `json:"recordId"`
	Before    string    `json:"before" gorm:"type:text"`
	After     string    `json:"after" gorm:"type:text"`
	IPAddress string    `json:"ipAddress" gorm:"type:varchar(45)"`
	UserAgent string    `json:"userAgent" gorm:"type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"index:idx_audit_entity_ts"`
}
