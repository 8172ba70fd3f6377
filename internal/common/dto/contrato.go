package dto

import "time"

// CreateContractRequest is the payload of POST /contratos.
type CreateContractRequest struct {
	Number        string     `json:"number" binding:"required"`
	ProcessNumber string     `json:"processNumber"`
	Object        string     `json:"object" binding:"required"`
	SupplierID    uint       `json:"supplierId" binding:"required"`
	GlobalValue   float64    `json:"globalValue" binding:"required,gt=0"`
	SignedAt      *time.Time `json:"signedAt"`
	StartsAt      *time.Time `json:"startsAt"`
	EndsAt        *time.Time `json:"endsAt"`
	TermMonths    *int       `json:"termMonths"`
	Modality      string     `json:"modality"`
	ContractType  string     `json:"contractType"`
	ManagerID     *uint      `json:"managerId"`
	EntityID      *uint      `json:"entityId"`
}

// UpdateContractRequest is the partial-update payload of PUT
// /contratos/:id.
type UpdateContractRequest struct {
	ProcessNumber *string    `json:"processNumber"`
	Object        *string    `json:"object"`
	GlobalValue   *float64   `json:"globalValue"`
	ExecutedValue *float64   `json:"executedValue"`
	SignedAt      *time.Time `json:"signedAt"`
	StartsAt      *time.Time `json:"startsAt"`
	EndsAt        *time.Time `json:"endsAt"`
	TermMonths    *int       `json:"termMonths"`
	Modality      *string    `json:"modality"`
	ContractType  *string    `json:"contractType"`
	ManagerID     *uint      `json:"managerId"`
	Status        *string    `json:"status"`
}

// CreateFiscalAssignmentRequest is the payload of POST /fiscais.
type CreateFiscalAssignmentRequest struct {
	ContractID uint   `json:"contractId" binding:"required"`
	UserID     uint   `json:"userId" binding:"required"`
	Kind       string `json:"kind" binding:"required,oneof=TITULAR SUPLENTE"`
	Ordinance  string `json:"ordinance"`
}

// CreateScheduleItemRequest is the payload of POST /cronogramas.
type CreateScheduleItemRequest struct {
	ContractID  uint       `json:"contractId" binding:"required"`
	Stage       string     `json:"stage" binding:"required"`
	PlannedPct  *float64   `json:"plannedPct"`
	PlannedDate *time.Time `json:"plannedDate"`
}

// UpdateScheduleItemRequest is the partial-update payload of PUT
// /cronogramas/:id.
type UpdateScheduleItemRequest struct {
	Stage       *string    `json:"stage"`
	PlannedPct  *float64   `json:"plannedPct"`
	ExecutedPct *float64   `json:"executedPct"`
	PlannedDate *time.Time `json:"plannedDate"`
	ActualDate  *time.Time `json:"actualDate"`
	Status      *string    `json:"status"`
}
