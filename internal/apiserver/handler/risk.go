package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/guard"
	"github.com/sentinela-gov/sentinela/internal/apiserver/middleware"
	"github.com/sentinela-gov/sentinela/internal/apiserver/rules"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/dto"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
)

// loadContract fetches a contract and applies the tenant guard through
// it. Contract children (risks, penalties, inspections, schedules,
// fiscal assignments) all take their tenancy from the contract.
func (h *Handler) loadContract(c *gin.Context, contractID uint) (*database.Contract, bool) {
	p := middleware.PrincipalFrom(c)
	contract, err := h.store.GetContractByID(c.Request.Context(), contractID)
	if err != nil {
		errorx.Respond(c, err)
		return nil, false
	}
	if !h.checkTenant(c, p, contract) {
		return nil, false
	}
	return contract, true
}

// CreateRisk adds a row to a contract's risk matrix. The level is always
// derived from probability x impact, never accepted from the caller.
func (h *Handler) CreateRisk(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.FiscalAccess)
	if !ok {
		return
	}

	var req dto.CreateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}
	contract, ok := h.loadContract(c, req.ContractID)
	if !ok {
		return
	}

	risk := &database.RiskEntry{
		ContractID:    req.ContractID,
		Description:   req.Description,
		Probability:   req.Probability,
		Impact:        req.Impact,
		Level:         rules.ClassifyRisk(req.Probability, req.Impact),
		Mitigation:    req.Mitigation,
		ResponsibleID: req.ResponsibleID,
		Status:        cnst.RiskActive,
	}
	if err := h.store.CreateRisk(c.Request.Context(), risk); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionCreate, "matriz_riscos", risk.ID, &contract.EntityID, nil, risk)
	c.JSON(http.StatusCreated, risk)
}

// ListRisks lists the risk matrix of a contract.
func (h *Handler) ListRisks(c *gin.Context) {
	contractID := queryUint(c, "contractId")
	if contractID == nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.contract_required"))
		return
	}
	if _, ok := h.loadContract(c, *contractID); !ok {
		return
	}

	risks, err := h.store.ListRisks(c.Request.Context(), database.RiskFilter{
		ContractID: contractID,
		Level:      c.Query("level"),
		Status:     c.Query("status"),
		Pagination: pagination(c),
	})
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, risks)
}

// UpdateRisk applies a partial update to a risk entry. Only the
// responsible user, GESTOR or ROOT may touch it; the level is recomputed
// whenever probability or impact change.
func (h *Handler) UpdateRisk(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.FiscalAccess)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	var req dto.UpdateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	risk, err := h.store.GetRiskByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	contract, ok := h.loadContract(c, risk.ContractID)
	if !ok {
		return
	}
	if err := guard.CheckOwnership(p, risk); err != nil {
		h.metrics.GuardDenied("owner")
		errorx.Respond(c, err)
		return
	}
	before, _ := json.Marshal(risk)

	if req.Description != nil {
		risk.Description = *req.Description
	}
	if req.Probability != nil {
		risk.Probability = req.Probability
	}
	if req.Impact != nil {
		risk.Impact = req.Impact
	}
	if req.Mitigation != nil {
		risk.Mitigation = *req.Mitigation
	}
	if req.ResponsibleID != nil {
		risk.ResponsibleID = req.ResponsibleID
	}
	if req.Status != nil {
		risk.Status = *req.Status
	}
	risk.Level = rules.ClassifyRisk(risk.Probability, risk.Impact)

	if err := h.store.UpdateRisk(c.Request.Context(), risk); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionUpdate, "matriz_riscos", risk.ID, &contract.EntityID, before, risk)
	c.JSON(http.StatusOK, risk)
}
