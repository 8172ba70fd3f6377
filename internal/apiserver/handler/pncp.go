package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/middleware"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
	"github.com/sentinela-gov/sentinela/internal/pncp"
)

// PNCPValidateSupplier looks a supplier up on the portal. An unreachable
// portal is a structured not-validated answer, not an error response.
func (h *Handler) PNCPValidateSupplier(c *gin.Context) {
	if _, ok := h.requireRole(c, cnst.ConsultaPNCP); !ok {
		return
	}

	result, err := h.pncp.ValidateSupplier(c.Request.Context(), c.Param("cnpj"))
	if err != nil {
		h.metrics.PNCPLookup("supplier", "invalid")
		errorx.Respond(c, err)
		return
	}
	if !result.Validated {
		h.metrics.PNCPLookup("supplier", "failure")
	} else {
		h.metrics.PNCPLookup("supplier", "success")
	}

	// Tell the caller whether the supplier is already registered locally.
	p := middleware.PrincipalFrom(c)
	var existingID *uint
	if p.TenantID != nil {
		if supplier, err := h.store.GetSupplierByDocument(c.Request.Context(), *p.TenantID, result.CNPJ); err == nil {
			existingID = &supplier.ID
		}
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "existingSupplierId": existingID})
}

// PNCPSupplierContracts fetches one page of a supplier's contracts from
// the portal and marks the ones already registered locally.
func (h *Handler) PNCPSupplierContracts(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.ContratosPNCP)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	result, err := h.pncp.ListSupplierContracts(c.Request.Context(), c.Param("cnpj"), page, size)
	if err != nil {
		h.metrics.PNCPLookup("contracts", "failure")
		errorx.Respond(c, err)
		return
	}
	h.metrics.PNCPLookup("contracts", "success")

	known := map[string]uint{}
	if p.TenantID != nil {
		if supplier, err := h.store.GetSupplierByDocument(c.Request.Context(), *p.TenantID, result.CNPJ); err == nil {
			contracts, err := h.store.ListContractsBySupplier(c.Request.Context(), *p.TenantID, supplier.ID)
			if err == nil {
				for _, contract := range contracts {
					known[contract.Number] = contract.ID
				}
			}
		}
	}

	type annotated struct {
		pncp.ContractRecord
		ExistingContractID *uint `json:"existingContractId"`
	}
	out := make([]annotated, len(result.Contracts))
	for i, record := range result.Contracts {
		out[i] = annotated{ContractRecord: record}
		if id, ok := known[record.Number]; ok {
			out[i].ExistingContractID = &id
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"cnpj":      result.CNPJ,
		"total":     result.Total,
		"page":      result.Page,
		"pageSize":  result.PageSize,
		"contracts": out,
	})
}

// PNCPSupplierCertificates checks a supplier's certificates on the
// portal. When the supplier is registered locally its regularity snapshot
// is refreshed in place.
func (h *Handler) PNCPSupplierCertificates(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.ConsultaPNCP)
	if !ok {
		return
	}

	report, err := h.pncp.CheckSupplierCertificates(c.Request.Context(), c.Param("cnpj"))
	if err != nil {
		h.metrics.PNCPLookup("certificates", "failure")
		errorx.Respond(c, err)
		return
	}
	h.metrics.PNCPLookup("certificates", "success")

	var updatedID *uint
	if p.TenantID != nil {
		if supplier, err := h.store.GetSupplierByDocument(c.Request.Context(), *p.TenantID, report.CNPJ); err == nil {
			pncp.ApplyRegularity(supplier, &pncp.SupplierValidation{
				CNPJ:                report.CNPJ,
				RegistryStatus:      supplier.RegistryStatus,
				Regularity:          report.Regularity,
				ExpiredCertificates: report.Expired,
				Validated:           true,
			}, timeNow())
			if err := h.store.UpdateSupplier(c.Request.Context(), supplier); err == nil {
				updatedID = &supplier.ID
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "updatedSupplierId": updatedID})
}

// PNCPContractDetail fetches the full portal record of one contract.
func (h *Handler) PNCPContractDetail(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.ContratosPNCP)
	if !ok {
		return
	}

	detail, err := h.pncp.GetContract(c.Request.Context(), c.Param("orgao"), c.Param("numero"))
	if err != nil {
		h.metrics.PNCPLookup("contract_detail", "failure")
		errorx.Respond(c, err)
		return
	}
	h.metrics.PNCPLookup("contract_detail", "success")

	var existingID *uint
	if p.TenantID != nil {
		if contract, err := h.store.GetContractByNumber(c.Request.Context(), *p.TenantID, detail.Number); err == nil {
			existingID = &contract.ID
		}
	}
	c.JSON(http.StatusOK, gin.H{"detail": detail, "existingContractId": existingID})
}

// PNCPSyncSupplier schedules a background regularity refresh and returns
// the job id right away. The caller never learns the outcome here; the
// audit trail does.
func (h *Handler) PNCPSyncSupplier(c *gin.Context) {
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
	if supplier.CNPJ == "" {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.supplier_cnpj"))
		return
	}

	jobID := h.scheduler.EnqueueSupplierSync(supplier.ID)
	c.JSON(http.StatusAccepted, gin.H{"jobId": jobID, "supplierId": supplier.ID})
}

// PNCPSyncContracts schedules a background contract reconciliation for a
// supplier document within the caller's entity.
func (h *Handler) PNCPSyncContracts(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.GestorOrRoot)
	if !ok {
		return
	}
	cnpj, err := pncp.NormalizeCNPJ(c.Param("cnpj"))
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if p.TenantID == nil {
		errorx.Respond(c, errorx.AccessDenied("error.access_denied.no_tenant"))
		return
	}

	jobID := h.scheduler.EnqueueContractSync(*p.TenantID, cnpj)
	c.JSON(http.StatusAccepted, gin.H{"jobId": jobID, "cnpj": cnpj})
}

// PNCPSyncJobStatus reports the in-process state of a sync job. Job
// records do not survive a restart.
func (h *Handler) PNCPSyncJobStatus(c *gin.Context) {
	if _, ok := h.requireRole(c, cnst.GestorOrRoot); !ok {
		return
	}

	status, ok := h.scheduler.Status(c.Param("jobId"))
	if !ok {
		errorx.Respond(c, errorx.NotFound("error.not_found"))
		return
	}
	c.JSON(http.StatusOK, status)
}
