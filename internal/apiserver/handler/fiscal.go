package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/dto"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
)

// CreateFiscalAssignment designates a user as fiscal of a contract. The
// user must belong to the contract's entity and hold a fiscal role; the
// same user cannot be assigned twice to one contract.
func (h *Handler) CreateFiscalAssignment(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}

	var req dto.CreateFiscalAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}
	contract, ok := h.loadContract(c, req.ContractID)
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(c.Request.Context(), req.UserID)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if user.EntityID == nil || *user.EntityID != contract.EntityID {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.fiscal_entity"))
		return
	}
	if user.Role != cnst.RoleFiscalTecnico && user.Role != cnst.RoleFiscalAdm {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.fiscal_role"))
		return
	}

	fa := &database.FiscalAssignment{
		ContractID: req.ContractID,
		UserID:     req.UserID,
		Kind:       req.Kind,
		AssignedAt: time.Now().UTC(),
		Ordinance:  req.Ordinance,
		Active:     true,
	}
	if err := h.store.CreateFiscalAssignment(c.Request.Context(), fa); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionCreate, "fiscais", fa.ID, &contract.EntityID, nil, fa)
	c.JSON(http.StatusCreated, fa)
}

// ListFiscalAssignments lists the fiscal designations of a contract.
func (h *Handler) ListFiscalAssignments(c *gin.Context) {
	contractID := queryUint(c, "contractId")
	if contractID == nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.contract_required"))
		return
	}
	if _, ok := h.loadContract(c, *contractID); !ok {
		return
	}

	assignments, err := h.store.ListFiscalAssignments(c.Request.Context(), database.FiscalFilter{
		ContractID: contractID,
		UserID:     queryUint(c, "userId"),
		Pagination: pagination(c),
	})
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// DeactivateFiscalAssignment ends a fiscal designation without erasing
// its history.
func (h *Handler) DeactivateFiscalAssignment(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	fa, err := h.store.GetFiscalAssignmentByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	contract, ok := h.loadContract(c, fa.ContractID)
	if !ok {
		return
	}
	before, _ := json.Marshal(fa)

	fa.Active = false
	if err := h.store.UpdateFiscalAssignment(c.Request.Context(), fa); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionDeactivate, "fiscais", fa.ID, &contract.EntityID, before, fa)
	c.JSON(http.StatusOK, fa)
}
