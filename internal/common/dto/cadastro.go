package dto

// CreateUserRequest is the payload of POST /usuarios. EntityID is only
// honored for ROOT callers; everyone else creates inside their own
// entity.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	CPF      string `json:"cpf" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
	EntityID *uint  `json:"entityId"`
}

// UpdateUserRequest is the partial-update payload of PUT /usuarios/:id.
// Nil fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
}

// CreateEntityRequest is the payload of POST /entidades.
type CreateEntityRequest struct {
	CNPJ       string `json:"cnpj" binding:"required"`
	LegalName  string `json:"legalName" binding:"required"`
	TradeName  string `json:"tradeName"`
	UGCode     string `json:"ugCode"`
	LogoURL    string `json:"logoUrl"`
	ConfigJSON string `json:"configJson"`
}

// UpdateEntityRequest is the partial-update payload of PUT /entidades/:id.
type UpdateEntityRequest struct {
	LegalName  *string `json:"legalName"`
	TradeName  *string `json:"tradeName"`
	UGCode     *string `json:"ugCode"`
	LogoURL    *string `json:"logoUrl"`
	ConfigJSON *string `json:"configJson"`
}

// DeactivateRequest carries the justification for a status flip.
type DeactivateRequest struct {
	Reason string `json:"reason"`
}

// CreateSupplierRequest is the payload of POST /fornecedores.
type CreateSupplierRequest struct {
	CNPJ      string `json:"cnpj" binding:"required"`
	CPF       string `json:"cpf"`
	LegalName string `json:"legalName" binding:"required"`
	TradeName string `json:"tradeName"`
	EntityID  *uint  `json:"entityId"`
}

// UpdateSupplierRequest is the partial-update payload of PUT
// /fornecedores/:id. Regularity fields are deliberately absent: only the
// portal reconciliation writes them.
type UpdateSupplierRequest struct {
	LegalName *string `json:"legalName"`
	TradeName *string `json:"tradeName"`
	Active    *bool   `json:"active"`
}
