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

// CreateScheduleItem adds a stage to a contract's physical-financial
// schedule.
func (h *Handler) CreateScheduleItem(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}

	var req dto.CreateScheduleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}
	contract, ok := h.loadContract(c, req.ContractID)
	if !ok {
		return
	}

	item := &database.ScheduleItem{
		ContractID:  req.ContractID,
		Stage:       req.Stage,
		PlannedPct:  req.PlannedPct,
		PlannedDate: req.PlannedDate,
	}
	if err := h.store.CreateScheduleItem(c.Request.Context(), item); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionCreate, "cronogramas", item.ID, &contract.EntityID, nil, item)
	c.JSON(http.StatusCreated, item)
}

// ListScheduleItems lists the schedule of a contract.
func (h *Handler) ListScheduleItems(c *gin.Context) {
	contractID := queryUint(c, "contractId")
	if contractID == nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.contract_required"))
		return
	}
	if _, ok := h.loadContract(c, *contractID); !ok {
		return
	}

	items, err := h.store.ListScheduleItems(c.Request.Context(), database.ScheduleFilter{
		ContractID: contractID,
		Status:     c.Query("status"),
		Pagination: pagination(c),
	})
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// UpdateScheduleItem applies a partial update to a schedule stage.
// Fiscals record execution progress here.
func (h *Handler) UpdateScheduleItem(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.FiscalAccess)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	var req dto.UpdateScheduleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	item, err := h.store.GetScheduleItemByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	contract, ok := h.loadContract(c, item.ContractID)
	if !ok {
		return
	}
	before, _ := json.Marshal(item)

	if req.Stage != nil {
		item.Stage = *req.Stage
	}
	if req.PlannedPct != nil {
		item.PlannedPct = req.PlannedPct
	}
	if req.ExecutedPct != nil {
		item.ExecutedPct = *req.ExecutedPct
	}
	if req.PlannedDate != nil {
		item.PlannedDate = req.PlannedDate
	}
	if req.ActualDate != nil {
		item.ActualDate = req.ActualDate
	}
	if req.Status != nil {
		item.Status = *req.Status
	}

	if err := h.store.UpdateScheduleItem(c.Request.Context(), item); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionUpdate, "cronogramas", item.ID, &contract.EntityID, before, item)
	c.JSON(http.StatusOK, item)
}
