package cnst

import "errors"

var (
	// ErrDuplicateEntityCNPJ is returned when an entity registration code is already taken
	ErrDuplicateEntityCNPJ = errors.New("duplicate entity cnpj")
	// ErrDuplicateSupplierDocument is returned when a (tenant, supplier document) pair already exists
	ErrDuplicateSupplierDocument = errors.New("duplicate supplier document for entity")
	// ErrDuplicateContractNumber is returned when a (tenant, contract number) pair already exists
	ErrDuplicateContractNumber = errors.New("duplicate contract number for entity")
	// ErrDuplicateUserDocument is returned when a user cpf or email is already taken
	ErrDuplicateUserDocument = errors.New("duplicate user cpf or email")
	// ErrDuplicateFiscalAssignment is returned when a user is already assigned to a contract
	ErrDuplicateFiscalAssignment = errors.New("user already assigned as fiscal for contract")
	// ErrDuplicateCertificateTypeCode is returned when a certificate type code is already taken
	ErrDuplicateCertificateTypeCode = errors.New("duplicate certificate type code")
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")
)
