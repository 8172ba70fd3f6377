package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"gorm.io/gorm"
)

// store implements Store on top of gorm. Driver-specific types only differ
// in how the connection is opened.
type store struct {
	db *gorm.DB
}

func newStore(gormDB *gorm.DB) (*store, error) {
	if err := gormDB.AutoMigrate(
		&User{},
		&Entity{},
		&Supplier{},
		&Contract{},
		&CertificateType{},
		&Certificate{},
		&RiskEntry{},
		&Penalty{},
		&InspectionRecord{},
		&ScheduleItem{},
		&FiscalAssignment{},
		&AuditRecord{},
	); err != nil {
		return nil, err
	}
	return &store{db: gormDB}, nil
}

// Close closes the database connection
func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn inside a transaction carried by the context.
func (s *store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ContextWithTransaction(ctx, tx))
	})
}

// conn returns the connection to use, honoring an in-flight transaction.
func (s *store) conn(ctx context.Context) *gorm.DB {
	if tx := TransactionFromContext(ctx); tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}

// translateConflict maps driver uniqueness violations to the sentinel
// conflict error of the write that triggered them.
func translateConflict(err, conflict error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
		return conflict
	}
	return err
}

// notFound maps gorm's record-not-found to the store sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cnst.ErrNotFound
	}
	return err
}

func (p Pagination) apply(db *gorm.DB) *gorm.DB {
	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.PageSize
	if size < 1 {
		size = 50
	}
	if size > 100 {
		size = 100
	}
	return db.Offset((page - 1) * size).Limit(size)
}

func tenantWhere(db *gorm.DB, scope TenantScope) *gorm.DB {
	if scope == nil {
		return db
	}
	return db.Where("entity_id = ?", *(*uint)(scope))
}

// --- Users ---

func (s *store) CreateUser(ctx context.Context, user *User) error {
	return translateConflict(s.conn(ctx).Create(user).Error, cnst.ErrDuplicateUserDocument)
}

func (s *store) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := s.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := s.conn(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *store) UpdateUser(ctx context.Context, user *User) error {
	return translateConflict(s.conn(ctx).Save(user).Error, cnst.ErrDuplicateUserDocument)
}

func (s *store) ListUsers(ctx context.Context, filter UserFilter) ([]*User, error) {
	db := tenantWhere(s.conn(ctx).Model(&User{}), filter.Tenant)
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.Active != nil {
		db = db.Where("active = ?", *filter.Active)
	}
	var users []*User
	err := filter.Pagination.apply(db.Order("created_at desc")).Find(&users).Error
	return users, err
}

func (s *store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&User{}).Count(&count).Error
	return count, err
}

// --- Entities ---

func (s *store) CreateEntity(ctx context.Context, entity *Entity) error {
	return translateConflict(s.conn(ctx).Create(entity).Error, cnst.ErrDuplicateEntityCNPJ)
}

func (s *store) GetEntityByID(ctx context.Context, id uint) (*Entity, error) {
	var entity Entity
	if err := s.conn(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &entity, nil
}

func (s *store) GetEntityByCNPJ(ctx context.Context, cnpj string) (*Entity, error) {
	var entity Entity
	if err := s.conn(ctx).First(&entity, "cnpj = ?", cnpj).Error; err != nil {
		return nil, notFound(err)
	}
	return &entity, nil
}

func (s *store) UpdateEntity(ctx context.Context, entity *Entity) error {
	return translateConflict(s.conn(ctx).Save(entity).Error, cnst.ErrDuplicateEntityCNPJ)
}

func (s *store) ListEntities(ctx context.Context, filter EntityFilter) ([]*Entity, error) {
	db := s.conn(ctx).Model(&Entity{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	var entities []*Entity
	err := filter.Pagination.apply(db.Order("created_at desc")).Find(&entities).Error
	return entities, err
}

// --- Suppliers ---

func (s *store) CreateSupplier(ctx context.Context, supplier *Supplier) error {
	return translateConflict(s.conn(ctx).Create(supplier).Error, cnst.ErrDuplicateSupplierDocument)
}

func (s *store) GetSupplierByID(ctx context.Context, id uint) (*Supplier, error) {
	var supplier Supplier
	if err := s.conn(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &supplier, nil
}

func (s *store) GetSupplierByDocument(ctx context.Context, entityID uint, cnpj string) (*Supplier, error) {
	var supplier Supplier
	if err := s.conn(ctx).First(&supplier, "entity_id = ? AND cnpj = ?", entityID, cnpj).Error; err != nil {
		return nil, notFound(err)
	}
	return &supplier, nil
}

func (s *store) UpdateSupplier(ctx context.Context, supplier *Supplier) error {
	return translateConflict(s.conn(ctx).Save(supplier).Error, cnst.ErrDuplicateSupplierDocument)
}

func (s *store) ListSuppliers(ctx context.Context, filter SupplierFilter) ([]*Supplier, error) {
	db := tenantWhere(s.conn(ctx).Model(&Supplier{}), filter.Tenant)
	if filter.Regularity != "" {
		db = db.Where("regularity = ?", filter.Regularity)
	}
	if filter.Active != nil {
		db = db.Where("active = ?", *filter.Active)
	}
	var suppliers []*Supplier
	err := filter.Pagination.apply(db.Order("created_at desc")).Find(&suppliers).Error
	return suppliers, err
}

// --- Contracts ---

func (s *store) CreateContract(ctx context.Context, contract *Contract) error {
	return translateConflict(s.conn(ctx).Create(contract).Error, cnst.ErrDuplicateContractNumber)
}

func (s *store) GetContractByID(ctx context.Context, id uint) (*Contract, error) {
	var contract Contract
	if err := s.conn(ctx).First(&contract, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &contract, nil
}

func (s *store) GetContractByNumber(ctx context.Context, entityID uint, number string) (*Contract, error) {
	var contract Contract
	if err := s.conn(ctx).First(&contract, "entity_id = ? AND number = ?", entityID, number).Error; err != nil {
		return nil, notFound(err)
	}
	return &contract, nil
}

func (s *store) UpdateContract(ctx context.Context, contract *Contract) error {
	return translateConflict(s.conn(ctx).Save(contract).Error, cnst.ErrDuplicateContractNumber)
}

func (s *store) ListContracts(ctx context.Context, filter ContractFilter) ([]*Contract, error) {
	db := tenantWhere(s.conn(ctx).Model(&Contract{}), filter.Tenant)
	if filter.SupplierID != nil {
		db = db.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	var contracts []*Contract
	err := filter.Pagination.apply(db.Order("created_at desc")).Find(&contracts).Error
	return contracts, err
}

func (s *store) ListContractsBySupplier(ctx context.Context, entityID, supplierID uint) ([]*Contract, error) {
	var contracts []*Contract
	err := s.conn(ctx).
		Where("entity_id = ? AND supplier_id = ?", entityID, supplierID).
		Order("created_at desc").
		Find(&contracts).Error
	return contracts, err
}

// --- Certificate types ---

func (s *store) CreateCertificateType(ctx context.Context, ct *CertificateType) error {
	return translateConflict(s.conn(ctx).Create(ct).Error, cnst.ErrDuplicateCertificateTypeCode)
}

func (s *store) GetCertificateTypeByID(ctx context.Context, id uint) (*CertificateType, error) {
	var ct CertificateType
	if err := s.conn(ctx).First(&ct, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ct, nil
}

func (s *store) ListCertificateTypes(ctx context.Context) ([]*CertificateType, error) {
	var types []*CertificateType
	err := s.conn(ctx).Order("code asc").Find(&types).Error
	return types, err
}

func (s *store) CountCertificateTypes(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&CertificateType{}).Count(&count).Error
	return count, err
}

// --- Certificates ---

func (s *store) CreateCertificate(ctx context.Context, cert *Certificate) error {
	return s.conn(ctx).Create(cert).Error
}

func (s *store) GetCertificateByID(ctx context.Context, id uint) (*Certificate, error) {
	var cert Certificate
	if err := s.conn(ctx).First(&cert, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &cert, nil
}

func (s *store) UpdateCertificate(ctx context.Context, cert *Certificate) error {
	return s.conn(ctx).Save(cert).Error
}

func (s *store) ListCertificates(ctx context.Context, filter CertificateFilter) ([]*Certificate, error) {
	db := s.conn(ctx).Model(&Certificate{})
	if filter.SupplierID != nil {
		db = db.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.CertificateTypeID != nil {
		db = db.Where("certificate_type_id = ?", *filter.CertificateTypeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	var certs []*Certificate
	err := filter.Pagination.apply(db.Order("expires_at asc")).Find(&certs).Error
	return certs, err
}

func (s *store) ListExpiredCertificates(ctx context.Context, supplierID uint, now time.Time) ([]*Certificate, error) {
	var certs []*Certificate
	err := s.conn(ctx).
		Where("supplier_id = ? AND expires_at < ?", supplierID, now).
		Order("expires_at asc").
		Find(&certs).Error
	return certs, err
}

// --- Risk matrix ---

func (s *store) CreateRisk(ctx context.Context, risk *RiskEntry) error {
	return s.conn(ctx).Create(risk).Error
}

func (s *store) GetRiskByID(ctx context.Context, id uint) (*RiskEntry, error) {
	var risk RiskEntry
	if err := s.conn(ctx).First(&risk, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &risk, nil
}

func (s *store) UpdateRisk(ctx context.Context, risk *RiskEntry) error {
	return s.conn(ctx).Save(risk).Error
}

func (s *store) ListRisks(ctx context.Context, filter RiskFilter) ([]*RiskEntry, error) {
	db := s.conn(ctx).Model(&RiskEntry{})
	if filter.ContractID != nil {
		db = db.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.Level != "" {
		db = db.Where("level = ?", filter.Level)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	var risks []*RiskEntry
	err := filter.Pagination.apply(db.Order("created_at desc")).Find(&risks).Error
	return risks, err
}

// --- Penalties ---

func (s *store) CreatePenalty(ctx context.Context, penalty *Penalty) error {
	return s.conn(ctx).Create(penalty).Error
}

func (s *store) GetPenaltyByID(ctx context.Context, id uint) (*Penalty, error) {
	var penalty Penalty
	if err := s.conn(ctx).First(&penalty, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &penalty, nil
}

func (s *store) UpdatePenalty(ctx context.Context, penalty *Penalty) error {
	return s.conn(ctx).Save(penalty).Error
}

func (s *store) ListPenalties(ctx context.Context, filter PenaltyFilter) ([]*Penalty, error) {
	db := s.conn(ctx).Model(&Penalty{})
	if filter.ContractID != nil {
		db = db.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	var penalties []*Penalty
	err := filter.Pagination.apply(db.Order("created_at desc")).Find(&penalties).Error
	return penalties, err
}

// --- Inspection records ---

func (s *store) CreateInspection(ctx context.Context, record *InspectionRecord) error {
	return s.conn(ctx).Create(record).Error
}

func (s *store) GetInspectionByID(ctx context.Context, id uint) (*InspectionRecord, error) {
	var record InspectionRecord
	if err := s.conn(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &record, nil
}

func (s *store) ListInspections(ctx context.Context, filter InspectionFilter) ([]*InspectionRecord, error) {
	db := s.conn(ctx).Model(&InspectionRecord{})
	if filter.ContractID != nil {
		db = db.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.FiscalID != nil {
		db = db.Where("fiscal_id = ?", *filter.FiscalID)
	}
	var records []*InspectionRecord
	err := filter.Pagination.apply(db.Order("occurred_at desc")).Find(&records).Error
	return records, err
}

// --- Schedule items ---

func (s *store) CreateScheduleItem(ctx context.Context, item *ScheduleItem) error {
	return s.conn(ctx).Create(item).Error
}

func (s *store) GetScheduleItemByID(ctx context.Context, id uint) (*ScheduleItem, error) {
	var item ScheduleItem
	if err := s.conn(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (s *store) UpdateScheduleItem(ctx context.Context, item *ScheduleItem) error {
	return s.conn(ctx).Save(item).Error
}

func (s *store) ListScheduleItems(ctx context.Context, filter ScheduleFilter) ([]*ScheduleItem, error) {
	db := s.conn(ctx).Model(&ScheduleItem{})
	if filter.ContractID != nil {
		db = db.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	var items []*ScheduleItem
	err := filter.Pagination.apply(db.Order("id asc")).Find(&items).Error
	return items, err
}

// --- Fiscal assignments ---

func (s *store) CreateFiscalAssignment(ctx context.Context, fa *FiscalAssignment) error {
	return translateConflict(s.conn(ctx).Create(fa).Error, cnst.ErrDuplicateFiscalAssignment)
}

func (s *store) GetFiscalAssignmentByID(ctx context.Context, id uint) (*FiscalAssignment, error) {
	var fa FiscalAssignment
	if err := s.conn(ctx).First(&fa, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &fa, nil
}

func (s *store) UpdateFiscalAssignment(ctx context.Context, fa *FiscalAssignment) error {
	return s.conn(ctx).Save(fa).Error
}

func (s *store) ListFiscalAssignments(ctx context.Context, filter FiscalFilter) ([]*FiscalAssignment, error) {
	db := s.conn(ctx).Model(&FiscalAssignment{})
	if filter.ContractID != nil {
		db = db.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.Active != nil {
		db = db.Where("active = ?", *filter.Active)
	}
	var fas []*FiscalAssignment
	err := filter.Pagination.apply(db.Order("assigned_at desc")).Find(&fas).Error
	return fas, err
}

// --- Audit trail ---

func (s *store) AppendAudit(ctx context.Context, record *AuditRecord) error {
	return s.conn(ctx).Create(record).Error
}

func (s *store) ListAudits(ctx context.Context, filter AuditFilter) ([]*AuditRecord, error) {
	db := tenantWhere(s.conn(ctx).Model(&AuditRecord{}), filter.Tenant)
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	if filter.TableName != "" {
		db = db.Where("table_name = ?", filter.TableName)
	}
	if filter.Since != nil {
		db = db.Where("timestamp >= ?", *filter.Since)
	}
	if filter.Until != nil {
		db = db.Where("timestamp <= ?", *filter.Until)
	}
	var records []*AuditRecord
	err := filter.Pagination.apply(db.Order("timestamp desc")).Find(&records).Error
	return records, err
}
