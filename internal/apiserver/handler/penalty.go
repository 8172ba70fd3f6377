package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/dto"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
)

// CreatePenalty records a sanction on a contract.
func (h *Handler) CreatePenalty(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.FiscalAdm)
	if !ok {
		return
	}

	var req dto.CreatePenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}
	contract, ok := h.loadContract(c, req.ContractID)
	if !ok {
		return
	}

	penalty := &database.Penalty{
		ContractID:    req.ContractID,
		Kind:          req.Kind,
		FineAmount:    req.FineAmount,
		AppliedAt:     req.AppliedAt,
		AdminProcess:  req.AdminProcess,
		Status:        cnst.PenaltyApplied,
		Justification: req.Justification,
	}
	if err := h.store.CreatePenalty(c.Request.Context(), penalty); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionCreate, "penalidades", penalty.ID, &contract.EntityID, nil, penalty)
	c.JSON(http.StatusCreated, penalty)
}

// ListPenalties lists the sanctions of a contract.
func (h *Handler) ListPenalties(c *gin.Context) {
	contractID := queryUint(c, "contractId")
	if contractID == nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.contract_required"))
		return
	}
	if _, ok := h.loadContract(c, *contractID); !ok {
		return
	}

	penalties, err := h.store.ListPenalties(c.Request.Context(), database.PenaltyFilter{
		ContractID: contractID,
		Status:     c.Query("status"),
		Pagination: pagination(c),
	})
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, penalties)
}

// UpdatePenalty applies a partial update to a sanction.
func (h *Handler) UpdatePenalty(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.FiscalAdm)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	var req dto.UpdatePenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	penalty, err := h.store.GetPenaltyByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	contract, ok := h.loadContract(c, penalty.ContractID)
	if !ok {
		return
	}
	before, _ := json.Marshal(penalty)

	if req.FineAmount != nil {
		penalty.FineAmount = req.FineAmount
	}
	if req.AdminProcess != nil {
		penalty.AdminProcess = *req.AdminProcess
	}
	if req.Justification != nil {
		penalty.Justification = *req.Justification
	}
	if req.AppealFiled != nil {
		penalty.AppealFiled = *req.AppealFiled
	}
	if req.Status != nil {
		penalty.Status = *req.Status
	}

	if err := h.store.UpdatePenalty(c.Request.Context(), penalty); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionUpdate, "penalidades", penalty.ID, &contract.EntityID, before, penalty)
	c.JSON(http.StatusOK, penalty)
}
