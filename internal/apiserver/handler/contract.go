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
)

// CreateContract registers a contract. The supplier must belong to the
// same entity the contract lands in.
func (h *Handler) CreateContract(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}

	var req dto.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}
	entityID, err := guard.AssignTenant(p, req.EntityID)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	supplier, err := h.store.GetSupplierByID(c.Request.Context(), req.SupplierID)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if supplier.EntityID != entityID {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.supplier_entity"))
		return
	}

	contract := &database.Contract{
		EntityID:      entityID,
		Number:        req.Number,
		ProcessNumber: req.ProcessNumber,
		Object:        req.Object,
		SupplierID:    req.SupplierID,
		GlobalValue:   req.GlobalValue,
		SignedAt:      req.SignedAt,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		TermMonths:    req.TermMonths,
		Modality:      req.Modality,
		ContractType:  req.ContractType,
		ManagerID:     req.ManagerID,
		Status:        cnst.ContractInForce,
	}
	if err := h.store.CreateContract(c.Request.Context(), contract); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionCreate, "contratos", contract.ID, &contract.EntityID, nil, contract)
	c.JSON(http.StatusCreated, contract)
}

// ListContracts lists the contracts visible to the caller.
func (h *Handler) ListContracts(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	scope, err := guard.ListScope(p)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	contracts, err := h.store.ListContracts(c.Request.Context(), database.ContractFilter{
		Tenant:     scope,
		SupplierID: queryUint(c, "supplierId"),
		Status:     c.Query("status"),
		Pagination: pagination(c),
	})
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// GetContract returns one contract within the caller's tenant.
func (h *Handler) GetContract(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	contract, err := h.store.GetContractByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if !h.checkTenant(c, p, contract) {
		return
	}
	c.JSON(http.StatusOK, contract)
}

// UpdateContract applies a partial update to a contract.
func (h *Handler) UpdateContract(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	var req dto.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	contract, err := h.store.GetContractByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if !h.checkTenant(c, p, contract) {
		return
	}
	before, _ := json.Marshal(contract)

	if req.ProcessNumber != nil {
		contract.ProcessNumber = *req.ProcessNumber
	}
	if req.Object != nil {
		contract.Object = *req.Object
	}
	if req.GlobalValue != nil {
		contract.GlobalValue = *req.GlobalValue
	}
	if req.ExecutedValue != nil {
		contract.ExecutedValue = *req.ExecutedValue
	}
	if req.SignedAt != nil {
		contract.SignedAt = req.SignedAt
	}
	if req.StartsAt != nil {
		contract.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		contract.EndsAt = req.EndsAt
	}
	if req.TermMonths != nil {
		contract.TermMonths = req.TermMonths
	}
	if req.Modality != nil {
		contract.Modality = *req.Modality
	}
	if req.ContractType != nil {
		contract.ContractType = *req.ContractType
	}
	if req.ManagerID != nil {
		contract.ManagerID = req.ManagerID
	}
	if req.Status != nil {
		contract.Status = *req.Status
	}

	if err := h.store.UpdateContract(c.Request.Context(), contract); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionUpdate, "contratos", contract.ID, &contract.EntityID, before, contract)
	c.JSON(http.StatusOK, contract)
}

// CancelContract soft-cancels a contract: the record stays for audit and
// history, only the status flips.
func (h *Handler) CancelContract(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	contract, err := h.store.GetContractByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if !h.checkTenant(c, p, contract) {
		return
	}
	before, _ := json.Marshal(contract)

	contract.Status = cnst.ContractCancelled
	if err := h.store.UpdateContract(c.Request.Context(), contract); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionDeactivate, "contratos", contract.ID, &contract.EntityID, before, contract)
	c.JSON(http.StatusOK, contract)
}
