package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedEntity(t *testing.T, store Store, cnpj string) *Entity {
	t.Helper()
	entity := &Entity{CNPJ: cnpj, LegalName: "Prefeitura de Teste", Status: cnst.EntityActive, StatusDate: time.Now()}
	require.NoError(t, store.CreateEntity(context.Background(), entity))
	return entity
}

func TestEntityConflictOnDuplicateCNPJ(t *testing.T) {
	store := newTestStore(t)
	seedEntity(t, store, "11222333000144")

	dup := &Entity{CNPJ: "11222333000144", LegalName: "Outra Prefeitura", StatusDate: time.Now()}
	err := store.CreateEntity(context.Background(), dup)
	assert.ErrorIs(t, err, cnst.ErrDuplicateEntityCNPJ)
}

func TestGetUserNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetUserByID(context.Background(), 777)
	assert.ErrorIs(t, err, cnst.ErrNotFound)
}

func TestSupplierUniquePerEntity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	first := seedEntity(t, store, "11222333000144")
	second := seedEntity(t, store, "55666777000188")

	require.NoError(t, store.CreateSupplier(ctx, &Supplier{EntityID: first.ID, CNPJ: "99888777000166", LegalName: "Fornecedor A"}))

	// Same document inside the same entity conflicts.
	err := store.CreateSupplier(ctx, &Supplier{EntityID: first.ID, CNPJ: "99888777000166", LegalName: "Fornecedor B"})
	assert.ErrorIs(t, err, cnst.ErrDuplicateSupplierDocument)

	// The same document registered by another entity does not.
	err = store.CreateSupplier(ctx, &Supplier{EntityID: second.ID, CNPJ: "99888777000166", LegalName: "Fornecedor A"})
	assert.NoError(t, err)
}

func TestListSuppliersTenantScope(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	first := seedEntity(t, store, "11222333000144")
	second := seedEntity(t, store, "55666777000188")

	require.NoError(t, store.CreateSupplier(ctx, &Supplier{EntityID: first.ID, CNPJ: "10000000000101", LegalName: "A"}))
	require.NoError(t, store.CreateSupplier(ctx, &Supplier{EntityID: first.ID, CNPJ: "10000000000202", LegalName: "B"}))
	require.NoError(t, store.CreateSupplier(ctx, &Supplier{EntityID: second.ID, CNPJ: "10000000000303", LegalName: "C"}))

	scoped, err := store.ListSuppliers(ctx, SupplierFilter{Tenant: TenantScope(&first.ID)})
	require.NoError(t, err)
	assert.Len(t, scoped, 2)

	all, err := store.ListSuppliers(ctx, SupplierFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestContractNumberUniquePerEntity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	entity := seedEntity(t, store, "11222333000144")
	supplier := &Supplier{EntityID: entity.ID, CNPJ: "99888777000166", LegalName: "Fornecedor"}
	require.NoError(t, store.CreateSupplier(ctx, supplier))

	contract := &Contract{
		EntityID:   entity.ID,
		SupplierID: supplier.ID,
		Number:     "001/2026",
		Object:     "Serviços de limpeza",
		Status:     cnst.ContractInForce,
	}
	require.NoError(t, store.CreateContract(ctx, contract))

	dup := &Contract{EntityID: entity.ID, SupplierID: supplier.ID, Number: "001/2026", Object: "Outro objeto"}
	err := store.CreateContract(ctx, dup)
	assert.ErrorIs(t, err, cnst.ErrDuplicateContractNumber)

	got, err := store.GetContractByNumber(ctx, entity.ID, "001/2026")
	require.NoError(t, err)
	assert.Equal(t, contract.ID, got.ID)
}

func TestTransactionRollback(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(ctx context.Context) error {
		if err := store.CreateEntity(ctx, &Entity{CNPJ: "11222333000144", LegalName: "Rollback", StatusDate: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.GetEntityByCNPJ(ctx, "11222333000144")
	assert.ErrorIs(t, err, cnst.ErrNotFound)
}

func TestListExpiredCertificates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	entity := seedEntity(t, store, "11222333000144")
	supplier := &Supplier{EntityID: entity.ID, CNPJ: "99888777000166", LegalName: "Fornecedor"}
	require.NoError(t, store.CreateSupplier(ctx, supplier))
	ct := &CertificateType{Code: "CND_FEDERAL", Name: "Certidão Negativa de Débitos Federais"}
	require.NoError(t, store.CreateCertificateType(ctx, ct))

	now := time.Now()
	expired := &Certificate{SupplierID: supplier.ID, CertificateTypeID: ct.ID, IssuedAt: now.AddDate(0, -7, 0), ExpiresAt: now.AddDate(0, -1, 0), Status: cnst.CertificateExpired}
	valid := &Certificate{SupplierID: supplier.ID, CertificateTypeID: ct.ID, IssuedAt: now, ExpiresAt: now.AddDate(0, 6, 0), Status: cnst.CertificateValid}
	require.NoError(t, store.CreateCertificate(ctx, expired))
	require.NoError(t, store.CreateCertificate(ctx, valid))

	got, err := store.ListExpiredCertificates(ctx, supplier.ID, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, expired.ID, got[0].ID)
}

func TestBootstrapSeedsOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	cfg := config.BootstrapConfig{
		Name:     "Administrador",
		Email:    "admin@sentinela.app",
		CPF:      "00000000000",
		Password: "admin123",
	}

	require.NoError(t, Bootstrap(ctx, store, cfg, zap.NewNop()))

	types, err := store.ListCertificateTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 6)

	root, err := store.GetUserByEmail(ctx, "admin@sentinela.app")
	require.NoError(t, err)
	assert.Equal(t, cnst.RoleRoot, root.Role)
	require.NotNil(t, root.EntityID)

	// Running again must not duplicate anything.
	require.NoError(t, Bootstrap(ctx, store, cfg, zap.NewNop()))
	types, err = store.ListCertificateTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 6)
	users, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, users)
}

func TestAuditTrailFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	entity := seedEntity(t, store, "11222333000144")

	base := time.Now().Add(-time.Hour)
	for i, action := range []cnst.ActionType{cnst.ActionCreate, cnst.ActionUpdate, cnst.ActionCreate} {
		require.NoError(t, store.AppendAudit(ctx, &AuditRecord{
			EntityID:  &entity.ID,
			Action:    string(action),
			TableName: "contracts",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	creates, err := store.ListAudits(ctx, AuditFilter{Tenant: TenantScope(&entity.ID), Action: string(cnst.ActionCreate)})
	require.NoError(t, err)
	assert.Len(t, creates, 2)

	since := base.Add(90 * time.Second)
	recent, err := store.ListAudits(ctx, AuditFilter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
