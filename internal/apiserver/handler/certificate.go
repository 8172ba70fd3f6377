package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/middleware"
	"github.com/sentinela-gov/sentinela/internal/apiserver/rules"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/dto"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
)

// CreateCertificateType registers a certificate kind in the shared
// catalog.
func (h *Handler) CreateCertificateType(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.RootOnly)
	if !ok {
		return
	}

	var req dto.CreateCertificateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	ct := &database.CertificateType{
		Code:                   req.Code,
		Name:                   req.Name,
		RequiredForBidding:     true,
		RequiredForContracting: true,
		ValidityDays:           180,
	}
	if req.RequiredForBidding != nil {
		ct.RequiredForBidding = *req.RequiredForBidding
	}
	if req.RequiredForContracting != nil {
		ct.RequiredForContracting = *req.RequiredForContracting
	}
	if req.ValidityDays != nil {
		ct.ValidityDays = *req.ValidityDays
	}
	if req.APIAvailable != nil {
		ct.APIAvailable = *req.APIAvailable
	}

	if err := h.store.CreateCertificateType(c.Request.Context(), ct); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionCreate, "tipos_certidao", ct.ID, nil, nil, ct)
	c.JSON(http.StatusCreated, ct)
}

// ListCertificateTypes lists the shared certificate catalog.
func (h *Handler) ListCertificateTypes(c *gin.Context) {
	types, err := h.store.ListCertificateTypes(c.Request.Context())
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// loadCertificateSupplier fetches the supplier behind a certificate and
// applies the tenant guard through it. Certificates carry no tenant of
// their own.
func (h *Handler) loadCertificateSupplier(c *gin.Context, supplierID uint) (*database.Supplier, bool) {
	p := middleware.PrincipalFrom(c)
	supplier, err := h.store.GetSupplierByID(c.Request.Context(), supplierID)
	if err != nil {
		errorx.Respond(c, err)
		return nil, false
	}
	if !h.checkTenant(c, p, supplier) {
		return nil, false
	}
	return supplier, true
}

// CreateCertificate registers a certificate for a supplier. A certificate
// whose expiry date already passed is persisted as VENCIDA regardless of
// the requested status.
func (h *Handler) CreateCertificate(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.CadastroAccess)
	if !ok {
		return
	}

	var req dto.CreateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	supplier, ok := h.loadCertificateSupplier(c, req.SupplierID)
	if !ok {
		return
	}
	if _, err := h.store.GetCertificateTypeByID(c.Request.Context(), req.CertificateTypeID); err != nil {
		errorx.Respond(c, err)
		return
	}

	cert := &database.Certificate{
		SupplierID:        req.SupplierID,
		CertificateTypeID: req.CertificateTypeID,
		ProtocolNumber:    req.ProtocolNumber,
		IssuedAt:          req.IssuedAt,
		ExpiresAt:         req.ExpiresAt,
		Status:            rules.EffectiveCertificateStatus(req.ExpiresAt, time.Now(), req.Status),
		Origin:            req.Origin,
	}
	if err := h.store.CreateCertificate(c.Request.Context(), cert); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionCreate, "certidoes", cert.ID, &supplier.EntityID, nil, cert)
	c.JSON(http.StatusCreated, cert)
}

// ListCertificates lists certificates, filtered by supplier when asked.
// The supplier filter doubles as the tenant guard; without it non-ROOT
// callers are refused rather than shown everything.
func (h *Handler) ListCertificates(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	supplierID := queryUint(c, "supplierId")
	if supplierID != nil {
		if _, ok := h.loadCertificateSupplier(c, *supplierID); !ok {
			return
		}
	} else if !p.IsRoot() {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.supplier_required"))
		return
	}

	certs, err := h.store.ListCertificates(c.Request.Context(), database.CertificateFilter{
		SupplierID:        supplierID,
		CertificateTypeID: queryUint(c, "certificateTypeId"),
		Status:            c.Query("status"),
		Pagination:        pagination(c),
	})
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, certs)
}

// GetCertificate returns one certificate, guarded through its supplier.
func (h *Handler) GetCertificate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	cert, err := h.store.GetCertificateByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if _, ok := h.loadCertificateSupplier(c, cert.SupplierID); !ok {
		return
	}
	c.JSON(http.StatusOK, cert)
}

// UpdateCertificate applies a partial update. The expiry rule runs again
// on the resulting record, so shortening the date can only flip the
// status to VENCIDA, never resurrect it.
func (h *Handler) UpdateCertificate(c *gin.Context) {
	p, ok := h.requireRole(c, cnst.CadastroAccess)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}

	var req dto.UpdateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Respond(c, errorx.ValidationFailure("error.validation.body").WithDetail("cause", err.Error()))
		return
	}

	cert, err := h.store.GetCertificateByID(c.Request.Context(), id)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	supplier, ok := h.loadCertificateSupplier(c, cert.SupplierID)
	if !ok {
		return
	}
	before, _ := json.Marshal(cert)

	if req.ProtocolNumber != nil {
		cert.ProtocolNumber = *req.ProtocolNumber
	}
	if req.IssuedAt != nil {
		cert.IssuedAt = *req.IssuedAt
	}
	if req.ExpiresAt != nil {
		cert.ExpiresAt = *req.ExpiresAt
	}
	requested := cert.Status
	if req.Status != nil {
		requested = *req.Status
	}
	cert.Status = rules.EffectiveCertificateStatus(cert.ExpiresAt, time.Now(), requested)

	if err := h.store.UpdateCertificate(c.Request.Context(), cert); err != nil {
		errorx.Respond(c, err)
		return
	}
	h.recordAudit(c, p, cnst.ActionUpdate, "certidoes", cert.ID, &supplier.EntityID, before, cert)
	c.JSON(http.StatusOK, cert)
}

// ListExpiredCertificates returns a supplier's certificates whose expiry
// has already passed.
func (h *Handler) ListExpiredCertificates(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	if _, ok := h.loadCertificateSupplier(c, id); !ok {
		return
	}
	certs, err := h.store.ListExpiredCertificates(c.Request.Context(), id, time.Now())
	if err != nil {
		errorx.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, certs)
}
