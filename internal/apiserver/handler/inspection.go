package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/dto"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
)

// CreateInspection records a field inspection. The signing fiscal is
// always the authenticated caller; the request cannot name someone else.
func (h *Handler) CreateInspection(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.FiscalAccess)
	if !ok {
		return
	}

	var req dto.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}
	contract, ok := h.loadContract(c, req.ContractID)
	if !ok {
		return
	}

	record := &database.InspectionRecord{
		ContractID:       req.ContractID,
		FiscalID:         p.ID,
		OccurredAt:       req.OccurredAt,
		Kind:             req.Kind,
		Description:      req.Description,
		Photos:           req.Photos,
		Geolocation:      req.Geolocation,
		FiscalSignature:  req.FiscalSignature,
		ContractorSigned: req.ContractorSigned,
	}
	if err := h.store.CreateInspection(c.Request.Context(), record); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionCreate, "ocorrencias", record.ID, &contract.EntityID, nil, record)
	c.JSON(http.StatusCreated, record)
}

// ListInspections lists the inspection records of a contract.
func (h *Handler) ListInspections(c *gin.Context) {
	contractID := queryUint(c, "contractId")
	if contractID == nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.contract_required"))
		return
	}
	if _, ok := h.loadContract(c, *contractID); !ok {
		return
	}

	records, err := h.store.ListInspections(c.Request.Context(), database.InspectionFilter{
		ContractID: contractID,
		FiscalID:   queryUint(c, "fiscalId"),
		Pagination: pagination(c),
	})
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
