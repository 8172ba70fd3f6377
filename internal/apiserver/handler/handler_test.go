package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/middleware"
	"github.com/sentinela-gov/sentinela/internal/apiserver/scheduler"
	"github.com/sentinela-gov/sentinela/internal/auth/jwt"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/config"
	"github.com/sentinela-gov/sentinela/internal/pncp"
	"github.com/sentinela-gov/sentinela/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	router *gin.Engine
	store  database.Store
	jwt    *jwt.Service
	sched  *scheduler.Scheduler

	entityA *database.Entity
	entityB *database.Entity
	root    *database.User
	gestorA *database.User
	fiscalA *database.User
	apoioA  *database.User
	gestorB *database.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := database.NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	jwtService, err := jwt.NewService(jwt.Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)

	logger := zap.NewNop()
	m := metrics.New(config.MetricsConfig{Namespace: "test"})
	pncpSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(pncpSrv.Close)
	client := pncp.NewClient(config.PNCPConfig{BaseURL: pncpSrv.URL, Timeout: time.Second}, logger)
	audit := middleware.NewAuditWriter(store, logger)
	sched := scheduler.New(store, client, audit, config.SyncConfig{MaxRetries: 0, SupplierRetryDelay: time.Millisecond, ContractRetryDelay: time.Millisecond}, logger, m)

	h := New(store, jwtService, client, audit, sched, logger, m)
	router := gin.New()
	h.RegisterRoutes(router, middleware.Auth(jwtService, store))

	f := &fixture{router: router, store: store, jwt: jwtService, sched: sched}

	ctx := context.Background()
	f.entityA = &database.Entity{CNPJ: "11222333000144", LegalName: "Prefeitura A", Status: cnst.EntityActive, StatusDate: time.Now()}
	require.NoError(t, store.CreateEntity(ctx, f.entityA))
	f.entityB = &database.Entity{CNPJ: "55666777000188", LegalName: "Prefeitura B", Status: cnst.EntityActive, StatusDate: time.Now()}
	require.NoError(t, store.CreateEntity(ctx, f.entityB))

	f.root = f.seedUser(t, cnst.RoleRoot, nil, "root@sentinela.app", "00000000000")
	f.gestorA = f.seedUser(t, cnst.RoleGestor, &f.entityA.ID, "gestor@a.gov.br", "11111111111")
	f.fiscalA = f.seedUser(t, cnst.RoleFiscalTecnico, &f.entityA.ID, "fiscal@a.gov.br", "22222222222")
	f.apoioA = f.seedUser(t, cnst.RoleApoio, &f.entityA.ID, "apoio@a.gov.br", "33333333333")
	f.gestorB = f.seedUser(t, cnst.RoleGestor, &f.entityB.ID, "gestor@b.gov.br", "44444444444")
	return f
}

func (f *fixture) seedUser(t *testing.T, role cnst.Role, entityID *uint, email, cpf string) *database.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("senha-forte"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &database.User{
		EntityID:     entityID,
		Name:         string(role),
		CPF:          cpf,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	require.NoError(t, f.store.CreateUser(context.Background(), user))
	return user
}

func (f *fixture) token(t *testing.T, user *database.User) string {
	t.Helper()
	token, err := f.jwt.GenerateToken(user.ID, user.Email, user.Role, user.EntityID)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, user *database.User, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+f.token(t, user))
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (f *fixture) seedSupplier(t *testing.T, entityID uint, cnpj string) *database.Supplier {
	t.Helper()
	supplier := &database.Supplier{EntityID: entityID, CNPJ: cnpj, LegalName: "Fornecedor", RegistryStatus: cnst.SupplierActive, Regularity: cnst.RegularityRegular, Active: true}
	require.NoError(t, f.store.CreateSupplier(context.Background(), supplier))
	return supplier
}

func (f *fixture) seedContract(t *testing.T, entityID, supplierID uint, number string) *database.Contract {
	t.Helper()
	contract := &database.Contract{EntityID: entityID, SupplierID: supplierID, Number: number, Object: "Objeto", GlobalValue: 1000, Status: cnst.ContractInForce}
	require.NoError(t, f.store.CreateContract(context.Background(), contract))
	return contract
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, nil, http.MethodPost, "/auth/login", gin.H{"email": "gestor@a.gov.br", "password": "senha-forte"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string]any](t, w)
	assert.NotEmpty(t, body["token"])

	// Login stamps the last-login time.
	user, err := f.store.GetUserByID(context.Background(), f.gestorA.ID)
	require.NoError(t, err)
	assert.NotNil(t, user.LastLogin)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, nil, http.MethodPost, "/auth/login", gin.H{"email": "gestor@a.gov.br", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMissingTokenRejected(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, nil, http.MethodGet, "/fornecedores", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSupplierTenantIsolation(t *testing.T) {
	f := newFixture(t)
	supplierA := f.seedSupplier(t, f.entityA.ID, "99888777000166")
	f.seedSupplier(t, f.entityB.ID, "99888777000247")

	// Gestor A only sees entity A's suppliers.
	w := f.do(t, f.gestorA, http.MethodGet, "/fornecedores", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[[]map[string]any](t, w)
	require.Len(t, list, 1)

	// ROOT sees both.
	w = f.do(t, f.root, http.MethodGet, "/fornecedores", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, w), 2)

	// Gestor B cannot fetch entity A's supplier by id.
	w = f.do(t, f.gestorB, http.MethodGet, "/fornecedores/"+itoa(supplierA.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ACCESS_DENIED")
}

func TestCreateSupplierForcesCallerTenant(t *testing.T) {
	f := newFixture(t)

	// The request names entity B, but the record lands in the gestor's
	// own entity A.
	w := f.do(t, f.gestorA, http.MethodPost, "/fornecedores", gin.H{
		"cnpj":      "99.888.777/0001-66",
		"legalName": "Fornecedor Novo",
		"entityId":  f.entityB.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody[map[string]any](t, w)
	assert.EqualValues(t, f.entityA.ID, body["entityId"])
	assert.Equal(t, "99888777000166", body["cnpj"])
}

func TestCreateSupplierDuplicateConflict(t *testing.T) {
	f := newFixture(t)
	f.seedSupplier(t, f.entityA.ID, "99888777000166")

	w := f.do(t, f.gestorA, http.MethodPost, "/fornecedores", gin.H{
		"cnpj":      "99888777000166",
		"legalName": "Duplicado",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
}

func TestAuditorCannotCreateSupplier(t *testing.T) {
	f := newFixture(t)
	auditor := f.seedUser(t, cnst.RoleAuditor, &f.entityA.ID, "auditor@a.gov.br", "55555555555")

	w := f.do(t, auditor, http.MethodPost, "/fornecedores", gin.H{"cnpj": "99888777000166", "legalName": "X"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateCertificateExpiryRule(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, f.entityA.ID, "99888777000166")
	ct := &database.CertificateType{Code: "CND_FEDERAL", Name: "CND Federal"}
	require.NoError(t, f.store.CreateCertificateType(context.Background(), ct))

	// An already expired certificate is stored as VENCIDA even though the
	// request says VÁLIDA.
	w := f.do(t, f.apoioA, http.MethodPost, "/certidoes", gin.H{
		"supplierId":        supplier.ID,
		"certificateTypeId": ct.ID,
		"issuedAt":          time.Now().AddDate(0, -7, 0).Format(time.RFC3339),
		"expiresAt":         time.Now().AddDate(0, -1, 0).Format(time.RFC3339),
		"status":            cnst.CertificateValid,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody[map[string]any](t, w)
	assert.Equal(t, cnst.CertificateExpired, body["status"])

	// A future expiry keeps the requested status.
	w = f.do(t, f.apoioA, http.MethodPost, "/certidoes", gin.H{
		"supplierId":        supplier.ID,
		"certificateTypeId": ct.ID,
		"issuedAt":          time.Now().Format(time.RFC3339),
		"expiresAt":         time.Now().AddDate(0, 6, 0).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, cnst.CertificateValid, decodeBody[map[string]any](t, w)["status"])
}

func TestCreateRiskDerivesLevel(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, f.entityA.ID, "99888777000166")
	contract := f.seedContract(t, f.entityA.ID, supplier.ID, "001/2026")

	w := f.do(t, f.fiscalA, http.MethodPost, "/matriz-riscos", gin.H{
		"contractId":  contract.ID,
		"description": "Atraso de obra",
		"probability": 4,
		"impact":      4,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, cnst.RiskHigh, decodeBody[map[string]any](t, w)["level"])

	// Without both inputs no level is derived.
	w = f.do(t, f.fiscalA, http.MethodPost, "/matriz-riscos", gin.H{
		"contractId":  contract.ID,
		"description": "Sem estimativa",
		"probability": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, decodeBody[map[string]any](t, w)["level"])
}

func TestInspectionFiscalIsCaller(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, f.entityA.ID, "99888777000166")
	contract := f.seedContract(t, f.entityA.ID, supplier.ID, "001/2026")

	w := f.do(t, f.fiscalA, http.MethodPost, "/ocorrencias", gin.H{
		"contractId":  contract.ID,
		"occurredAt":  time.Now().Format(time.RFC3339),
		"description": "Vistoria em campo",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, f.fiscalA.ID, decodeBody[map[string]any](t, w)["fiscalId"])
}

func TestFiscalAssignmentValidation(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, f.entityA.ID, "99888777000166")
	contract := f.seedContract(t, f.entityA.ID, supplier.ID, "001/2026")

	w := f.do(t, f.gestorA, http.MethodPost, "/fiscais", gin.H{
		"contractId": contract.ID,
		"userId":     f.fiscalA.ID,
		"kind":       cnst.FiscalTitular,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Assigning the same user twice conflicts.
	w = f.do(t, f.gestorA, http.MethodPost, "/fiscais", gin.H{
		"contractId": contract.ID,
		"userId":     f.fiscalA.ID,
		"kind":       cnst.FiscalSuplente,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// A non-fiscal user cannot be assigned.
	w = f.do(t, f.gestorA, http.MethodPost, "/fiscais", gin.H{
		"contractId": contract.ID,
		"userId":     f.apoioA.ID,
		"kind":       cnst.FiscalTitular,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditTrailRecordsMutations(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, f.gestorA, http.MethodPost, "/fornecedores", gin.H{"cnpj": "99888777000166", "legalName": "Fornecedor"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, f.gestorA, http.MethodGet, "/auditoria?action=CREATE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	records := decodeBody[[]map[string]any](t, w)
	require.NotEmpty(t, records)
	assert.Equal(t, "fornecedores", records[0]["tableName"])
}

func TestAuditListDeniedForFiscal(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, f.fiscalA, http.MethodGet, "/auditoria", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPNCPSyncSupplierAccepted(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, f.entityA.ID, "99888777000166")

	w := f.do(t, f.gestorA, http.MethodPost, "/pncp/sync/fornecedor/"+itoa(supplier.ID), nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.NotEmpty(t, decodeBody[map[string]any](t, w)["jobId"])
	f.sched.Wait()
}

func TestPNCPSyncSupplierCrossTenantDenied(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, f.entityA.ID, "99888777000166")

	w := f.do(t, f.gestorB, http.MethodPost, "/pncp/sync/fornecedor/"+itoa(supplier.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPNCPValidateRejectsBadCNPJ(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, f.gestorA, http.MethodGet, "/pncp/validar/123", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILURE")
}

func TestEntityCreationRootOnly(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, f.gestorA, http.MethodPost, "/entidades", gin.H{"cnpj": "77666555000133", "legalName": "Nova"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, f.root, http.MethodPost, "/entidades", gin.H{"cnpj": "77666555000133", "legalName": "Nova"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDeactivatedUserCannotAuthenticate(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, f.gestorA, http.MethodDelete, "/usuarios/"+itoa(f.apoioA.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The still-valid token stops working once the user is inactive.
	w = f.do(t, f.apoioA, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func itoa(v uint) string {
	return fmt.Sprint(v)
}

func TestCancelContractFlipsStatusOnly(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, f.entityA.ID, "99888777000166")
	contract := f.seedContract(t, f.entityA.ID, supplier.ID, "CT-2026/010")

	w := f.do(t, f.gestorA, http.MethodDelete, "/contratos/"+itoa(contract.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := f.store.GetContractByID(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, cnst.ContractCancelled, got.Status)
	assert.Equal(t, contract.Number, got.Number)
}

func TestCancelContractGuards(t *testing.T) {
	f := newFixture(t)
	supplier := f.seedSupplier(t, f.entityA.ID, "99888777000166")
	contract := f.seedContract(t, f.entityA.ID, supplier.ID, "CT-2026/011")

	w := f.do(t, f.gestorB, http.MethodDelete, "/contratos/"+itoa(contract.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, f.apoioA, http.MethodDelete, "/contratos/"+itoa(contract.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	got, err := f.store.GetContractByID(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, cnst.ContractInForce, got.Status)
}
