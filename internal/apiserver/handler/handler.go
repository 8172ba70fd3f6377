// Package handler implements the HTTP API of the server. Every handler
// follows the same shape: bind, guard, act, audit, respond.
package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/guard"
	"github.com/sentinela-gov/sentinela/internal/apiserver/middleware"
	"github.com/sentinela-gov/sentinela/internal/apiserver/scheduler"
	"github.com/sentinela-gov/sentinela/internal/auth/jwt"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
	"github.com/sentinela-gov/sentinela/internal/pncp"
	"github.com/sentinela-gov/sentinela/pkg/metrics"
	"go.uber.org/zap"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	store     database.Store
	jwt       *jwt.Service
	pncp      *pncp.Client
	audit     *middleware.AuditWriter
	scheduler *scheduler.Scheduler
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// New creates a Handler.
func New(store database.Store, jwtService *jwt.Service, client *pncp.Client, audit *middleware.AuditWriter, sched *scheduler.Scheduler, logger *zap.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		store:     store,
		jwt:       jwtService,
		pncp:      client,
		audit:     audit,
		scheduler: sched,
		logger:    logger.Named("handler"),
		metrics:   m,
	}
}

// RegisterRoutes mounts every route on the engine. auth is the bearer
// token middleware; login and health are the only routes outside it.
func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", h.metrics.GinHandler())
	r.POST("/auth/login", h.Login)

	api := r.Group("/", auth)

	api.GET("/auth/me", h.Me)
	api.POST("/auth/password", h.ChangePassword)

	api.POST("/usuarios", h.CreateUser)
	api.GET("/usuarios", h.ListUsers)
	api.GET("/usuarios/:id", h.GetUser)
	api.PUT("/usuarios/:id", h.UpdateUser)
	api.DELETE("/usuarios/:id", h.DeactivateUser)

	api.POST("/entidades", h.CreateEntity)
	api.GET("/entidades", h.ListEntities)
	api.GET("/entidades/:id", h.GetEntity)
	api.PUT("/entidades/:id", h.UpdateEntity)
	api.DELETE("/entidades/:id", h.DeactivateEntity)

	api.POST("/fornecedores", h.CreateSupplier)
	api.GET("/fornecedores", h.ListSuppliers)
	api.GET("/fornecedores/:id", h.GetSupplier)
	api.PUT("/fornecedores/:id", h.UpdateSupplier)
	api.DELETE("/fornecedores/:id", h.DeactivateSupplier)

	api.POST("/contratos", h.CreateContract)
	api.GET("/contratos", h.ListContracts)
	api.GET("/contratos/:id", h.GetContract)
	api.PUT("/contratos/:id", h.UpdateContract)
	api.DELETE("/contratos/:id", h.CancelContract)

	api.POST("/tipos-certidao", h.CreateCertificateType)
	api.GET("/tipos-certidao", h.ListCertificateTypes)

	api.POST("/certidoes", h.CreateCertificate)
	api.GET("/certidoes", h.ListCertificates)
	api.GET("/certidoes/:id", h.GetCertificate)
	api.PUT("/certidoes/:id", h.UpdateCertificate)
	api.GET("/fornecedores/:id/certidoes-vencidas", h.ListExpiredCertificates)

	api.POST("/matriz-riscos", h.CreateRisk)
	api.GET("/matriz-riscos", h.ListRisks)
	api.PUT("/matriz-riscos/:id", h.UpdateRisk)

	api.POST("/penalidades", h.CreatePenalty)
	api.GET("/penalidades", h.ListPenalties)
	api.PUT("/penalidades/:id", h.UpdatePenalty)

	api.POST("/ocorrencias", h.CreateInspection)
	api.GET("/ocorrencias", h.ListInspections)

	api.POST("/cronogramas", h.CreateScheduleItem)
	api.GET("/cronogramas", h.ListScheduleItems)
	api.PUT("/cronogramas/:id", h.UpdateScheduleItem)

	api.POST("/fiscais", h.CreateFiscalAssignment)
	api.GET("/fiscais", h.ListFiscalAssignments)
	api.DELETE("/fiscais/:id", h.DeactivateFiscalAssignment)

	api.GET("/auditoria", h.ListAudits)

	api.GET("/pncp/validar/:cnpj", h.PNCPValidateSupplier)
	api.GET("/pncp/fornecedor/:cnpj/contratos", h.PNCPSupplierContracts)
	api.GET("/pncp/fornecedor/:cnpj/certidoes", h.PNCPSupplierCertificates)
	api.GET("/pncp/contrato/:orgao/:numero", h.PNCPContractDetail)
	api.POST("/pncp/sync/fornecedor/:id", h.PNCPSyncSupplier)
	api.POST("/pncp/sync/contratos/:cnpj", h.PNCPSyncContracts)
	api.GET("/pncp/sync/jobs/:jobId", h.PNCPSyncJobStatus)
}

// requireRole fetches the principal and enforces the allow-list,
// responding on failure.
func (h *Handler) requireRole(c *gin.Context, allowed cnst.RoleSet) (guard.Principal, bool) {
	p := middleware.PrincipalFrom(c)
	if err := guard.RequireRole(p, allowed); err != nil {
		h.metrics.GuardDenied("role")
		errorx.Respond(c, err)
		return p, false
	}
	return p, true
}

// checkTenant enforces the tenant guard on a fetched record, responding
// on failure.
func (h *Handler) checkTenant(c *gin.Context, p guard.Principal, record guard.TenantScoped) bool {
	if err := guard.CheckAccess(p, record); err != nil {
		h.metrics.GuardDenied("tenant")
		errorx.Respond(c, err)
		return false
	}
	return true
}

// timeNow is a seam for tests that pin the clock.
var timeNow = func() time.Time { return time.Now().UTC() }

func principalOf(user *database.User) guard.Principal {
	return guard.Principal{ID: user.ID, Email: user.Email, Role: user.Role, TenantID: user.EntityID}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, errorx.ValidationFailure("error.validation.id")
	}
	return uint(id), nil
}

func pagination(c *gin.Context) database.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	return database.Pagination{Page: page, PageSize: size}
}

func queryUint(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}
