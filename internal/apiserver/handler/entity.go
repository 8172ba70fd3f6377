package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/middleware"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/dto"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
	"github.com/sentinela-gov/sentinela/internal/pncp"
)

// CreateEntity registers a public entity. Only ROOT provisions tenants.
func (h *Handler) CreateEntity(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.RootOnly)
	if !ok {
		return
	}

	var req dto.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}
	cnpj, err := pncp.NormalizeCNPJ(req.CNPJ)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	entity := &database.Entity{
		CNPJ:       cnpj,
		LegalName:  req.LegalName,
		TradeName:  req.TradeName,
		UGCode:     req.UGCode,
		Status:     cnst.EntityActive,
		StatusDate: time.Now().UTC(),
		LogoURL:    req.LogoURL,
		ConfigJSON: req.ConfigJSON,
	}
	if err := h.store.CreateEntity(c.Request.Context(), entity); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionCreate, "entidades", entity.ID, &entity.ID, nil, entity)
	c.JSON(http.StatusCreated, entity)
}

// ListEntities lists tenants. ROOT sees all of them; everyone else gets
// only their own.
func (h *Handler) ListEntities(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if p.IsRoot() {
		entities, err := h.store.ListEntities(c.Request.Context(), database.EntityFilter{
			Status:     c.Query("status"),
			Pagination: pagination(c),
		})
		if err != nil {
			errorx.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, entities)
		return
	}

	if p.TenantID == nil {
		errorx.Respond(c, errorx.AccessDenied("error.access_denied.no_tenant"))
		return
	}
	entity, err := h.store.GetEntityByID(c.Request.Context(), *p.TenantID)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, []*database.Entity{entity})
}

// GetEntity returns one tenant record.
func (h *Handler) GetEntity(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if !p.IsRoot() && (p.TenantID == nil || *p.TenantID != id) {
		h.metrics.GuardDenied("tenant")
		errorx.Respond(c, errorx.AccessDenied("error.access_denied.tenant"))
		return
	}
	entity, err := h.store.GetEntityByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// UpdateEntity applies a partial update to a tenant. GESTOR may edit its
// own entity, ROOT any.
func (h *Handler) UpdateEntity(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if !p.IsRoot() && (p.TenantID == nil || *p.TenantID != id) {
		h.metrics.GuardDenied("tenant")
		errorx.Respond(c, errorx.AccessDenied("error.access_denied.tenant"))
		return
	}

	var req dto.UpdateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	entity, err := h.store.GetEntityByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	before, _ := json.Marshal(entity)

	if req.LegalName != nil {
		entity.LegalName = *req.LegalName
	}
	if req.TradeName != nil {
		entity.TradeName = *req.TradeName
	}
	if req.UGCode != nil {
		entity.UGCode = *req.UGCode
	}
	if req.LogoURL != nil {
		entity.LogoURL = *req.LogoURL
	}
	if req.ConfigJSON != nil {
		entity.ConfigJSON = *req.ConfigJSON
	}

	if err := h.store.UpdateEntity(c.Request.Context(), entity); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionUpdate, "entidades", entity.ID, &entity.ID, before, entity)
	c.JSON(http.StatusOK, entity)
}

// DeactivateEntity flips a tenant inactive with a justification. Its
// records stay in place; only logins and writes stop making sense.
func (h *Handler) DeactivateEntity(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.RootOnly)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	var req dto.DeactivateRequest
	_ = c.ShouldBindJSON(&req)

	entity, err := h.store.GetEntityByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	before, _ := json.Marshal(entity)

	entity.Status = cnst.EntityInactive
	entity.StatusDate = time.Now().UTC()
	entity.StatusReason = req.Reason
	if err := h.store.UpdateEntity(c.Request.Context(), entity); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionDeactivate, "entidades", entity.ID, &entity.ID, before, entity)
	c.JSON(http.StatusOK, entity)
}
