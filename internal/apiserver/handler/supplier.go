package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/guard"
	"github.com/sentinela-gov/sentinela/internal/apiserver/middleware"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/dto"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
	"github.com/sentinela-gov/sentinela/internal/pncp"
)

// CreateSupplier registers a supplier in the caller's entity.
func (h *Handler) CreateSupplier(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.CadastroAccess)
	if !ok {
		return
	}

	var req dto.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}
	cnpj, err := pncp.NormalizeCNPJ(req.CNPJ)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	entityID, err := guard.AssignTenant(p, req.EntityID)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	supplier := &database.Supplier{
		EntityID:       entityID,
		CNPJ:           cnpj,
		CPF:            req.CPF,
		LegalName:      req.LegalName,
		TradeName:      req.TradeName,
		RegistryStatus: cnst.SupplierActive,
		Regularity:     cnst.RegularityRegular,
		Active:         true,
	}
	if err := h.store.CreateSupplier(c.Request.Context(), supplier); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionCreate, "fornecedores", supplier.ID, &supplier.EntityID, nil, supplier)
	c.JSON(http.StatusCreated, supplier)
}

// ListSuppliers lists the suppliers visible to the caller.
func (h *Handler) ListSuppliers(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	scope, err := guard.ListScope(p)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	suppliers, err := h.store.ListSuppliers(c.Request.Context(), database.SupplierFilter{
		Tenant:     scope,
		Regularity: c.Query("regularity"),
		Pagination: pagination(c),
	})
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// GetSupplier returns one supplier within the caller's tenant.
func (h *Handler) GetSupplier(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	supplier, err := h.store.GetSupplierByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if !h.checkTenant(c, p, supplier) {
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// UpdateSupplier applies a partial update. Regularity fields are out of
// reach here: only the portal reconciliation rewrites them.
func (h *Handler) UpdateSupplier(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.CadastroAccess)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	var req dto.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	supplier, err := h.store.GetSupplierByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if !h.checkTenant(c, p, supplier) {
		return
	}
	before, _ := json.Marshal(supplier)

	if req.LegalName != nil {
		supplier.LegalName = *req.LegalName
	}
	if req.TradeName != nil {
		supplier.TradeName = *req.TradeName
	}
	if req.Active != nil {
		supplier.Active = *req.Active
	}

	if err := h.store.UpdateSupplier(c.Request.Context(), supplier); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionUpdate, "fornecedores", supplier.ID, &supplier.EntityID, before, supplier)
	c.JSON(http.StatusOK, supplier)
}

// DeactivateSupplier flips a supplier inactive.
func (h *Handler) DeactivateSupplier(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	supplier, err := h.store.GetSupplierByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if !h.checkTenant(c, p, supplier) {
		return
	}
	before, _ := json.Marshal(supplier)

	supplier.Active = false
	if err := h.store.UpdateSupplier(c.Request.Context(), supplier); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionDeactivate, "fornecedores", supplier.ID, &supplier.EntityID, before, supplier)
	c.JSON(http.StatusOK, supplier)
}
