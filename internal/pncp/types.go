// Package pncp integrates with the Portal Nacional de Contratações
// Públicas: remote lookups plus the reconciliation of their results into
// local records.
package pncp

import "time"

// SupplierValidation is the outcome of a supplier lookup. When the portal
// cannot be reached Validated is false and Err carries the cause; the
// zero values of the remaining fields are meaningless then.
type SupplierValidation struct {
	CNPJ                string    `json:"cnpj"`
	LegalName           string    `json:"legalName"`
	TradeName           string    `json:"tradeName"`
	RegistryStatus      string    `json:"registryStatus"`
	Regularity          string    `json:"regularity"`
	ExpiredCertificates int       `json:"expiredCertificates"`
	Impediments         []string  `json:"impediments"`
	VerifiedAt          time.Time `json:"verifiedAt"`
	Validated           bool      `json:"validated"`
	Err                 string    `json:"error,omitempty"`
}

// ContractRecord is one contract as the portal reports it. Dates stay in
// the portal's YYYY-MM-DD form; reconciliation never touches them.
type ContractRecord struct {
	Number        string  `json:"numero_contrato"`
	ProcessNumber string  `json:"numero_processo"`
	Object        string  `json:"objeto"`
	Agency        string  `json:"orgao"`
	GlobalValue   float64 `json:"valor_global"`
	ExecutedValue float64 `json:"valor_executado"`
	SignedAt      string  `json:"data_assinatura"`
	StartsAt      string  `json:"data_inicio"`
	EndsAt        string  `json:"data_termino"`
	Status        string  `json:"status"`
	Modality      string  `json:"modalidade"`
}

// ContractPage is one page of a supplier's contracts on the portal.
type ContractPage struct {
	CNPJ      string           `json:"cnpj"`
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	PageSize  int              `json:"pageSize"`
	Contracts []ContractRecord `json:"contracts"`
}

// ContractDetail is the full record of a single contract, including the
// portal's item and amendment payloads passed through untouched.
type ContractDetail struct {
	ContractRecord
	AgencyCNPJ   string           `json:"orgao_cnpj"`
	SupplierCNPJ string           `json:"fornecedor_cnpj"`
	Items        []map[string]any `json:"itens"`
	Amendments   []map[string]any `json:"aditivos"`
}

// CertificateRecord is one compliance certificate as reported by the
// portal.
type CertificateRecord struct {
	Kind      string `json:"tipo"`
	Number    string `json:"numero"`
	IssuedAt  string `json:"data_emissao"`
	ExpiresAt string `json:"data_validade"`
	Status    string `json:"situacao"`
	Issuer    string `json:"orgao_emissor"`
}

// CertificateReport summarizes a supplier's certificates. Regularity is
// derived locally: any expired certificate makes the supplier IRREGULAR.
type CertificateReport struct {
	CNPJ         string              `json:"cnpj"`
	Certificates []CertificateRecord `json:"certificates"`
	Total        int                 `json:"total"`
	Expired      int                 `json:"expired"`
	Regularity   string              `json:"regularity"`
}
