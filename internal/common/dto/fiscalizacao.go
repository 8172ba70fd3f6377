package dto

import "time"

// CreateCertificateTypeRequest is the payload of POST /tipos-certidao.
type CreateCertificateTypeRequest struct {
	Code                   string `json:"code" binding:"required"`
	Name                   string `json:"name" binding:"required"`
	RequiredForBidding     *bool  `json:"requiredForBidding"`
	RequiredForContracting *bool  `json:"requiredForContracting"`
	ValidityDays           *int   `json:"validityDays"`
	APIAvailable           *bool  `json:"apiAvailable"`
}

// CreateCertificateRequest is the payload of POST /certidoes. Status may
// name any caller-controlled value; an already expired date wins over it.
type CreateCertificateRequest struct {
	SupplierID        uint      `json:"supplierId" binding:"required"`
	CertificateTypeID uint      `json:"certificateTypeId" binding:"required"`
	ProtocolNumber    string    `json:"protocolNumber"`
	IssuedAt          time.Time `json:"issuedAt" binding:"required"`
	ExpiresAt         time.Time `json:"expiresAt" binding:"required"`
	Status            string    `json:"status"`
	Origin            string    `json:"origin"`
}

// UpdateCertificateRequest is the partial-update payload of PUT
// /certidoes/:id.
type UpdateCertificateRequest struct {
	ProtocolNumber *string    `json:"protocolNumber"`
	IssuedAt       *time.Time `json:"issuedAt"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	Status         *string    `json:"status"`
}

// CreateRiskRequest is the payload of POST /matriz-riscos. Probability
// and impact are optional; the level is derived, never accepted.
type CreateRiskRequest struct {
	ContractID    uint   `json:"contractId" binding:"required"`
	Description   string `json:"description" binding:"required"`
	Probability   *int   `json:"probability" binding:"omitempty,min=1,max=5"`
	Impact        *int   `json:"impact" binding:"omitempty,min=1,max=5"`
	Mitigation    string `json:"mitigation"`
	ResponsibleID *uint  `json:"responsibleId"`
}

// UpdateRiskRequest is the partial-update payload of PUT
// /matriz-riscos/:id.
type UpdateRiskRequest struct {
	Description   *string `json:"description"`
	Probability   *int    `json:"probability" binding:"omitempty,min=1,max=5"`
	Impact        *int    `json:"impact" binding:"omitempty,min=1,max=5"`
	Mitigation    *string `json:"mitigation"`
	ResponsibleID *uint   `json:"responsibleId"`
	Status        *string `json:"status"`
}

// CreatePenaltyRequest is the payload of POST /penalidades.
type CreatePenaltyRequest struct {
	ContractID    uint       `json:"contractId" binding:"required"`
	Kind          string     `json:"kind" binding:"required"`
	FineAmount    *float64   `json:"fineAmount"`
	AppliedAt     *time.Time `json:"appliedAt"`
	AdminProcess  string     `json:"adminProcess"`
	Justification string     `json:"justification"`
}

// UpdatePenaltyRequest is the partial-update payload of PUT
// /penalidades/:id.
type UpdatePenaltyRequest struct {
	FineAmount    *float64 `json:"fineAmount"`
	AdminProcess  *string  `json:"adminProcess"`
	Justification *string  `json:"justification"`
	AppealFiled   *bool    `json:"appealFiled"`
	Status        *string  `json:"status"`
}

// CreateInspectionRequest is the payload of POST /ocorrencias. The
// fiscal signing the record is always the authenticated caller.
type CreateInspectionRequest struct {
	ContractID       uint      `json:"contractId" binding:"required"`
	OccurredAt       time.Time `json:"occurredAt" binding:"required"`
	Kind             string    `json:"kind"`
	Description      string    `json:"description" binding:"required"`
	Photos           string    `json:"photos"`
	Geolocation      string    `json:"geolocation"`
	FiscalSignature  string    `json:"fiscalSignature"`
	ContractorSigned bool      `json:"contractorSigned"`
}
