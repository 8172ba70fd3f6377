package pncp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/config"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
	"github.com/sentinela-gov/sentinela/pkg/utils"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public portal API root.
	DefaultBaseURL = "https://pncp.gov.br/api"

	cnpjLength = 14
)

// Client talks to the portal's public API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a portal client from configuration.
func NewClient(cfg config.PNCPConfig, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.Named("pncp"),
	}
}

// NormalizeCNPJ strips formatting and validates the document length. The
// check runs before any network call so malformed input never reaches
// the portal.
func NormalizeCNPJ(cnpj string) (string, error) {
	clean := utils.StripNonDigits(cnpj)
	if len(clean) != cnpjLength {
		return "", errorx.ValidationFailure("error.validation.cnpj").
			WithDetail("cnpj", cnpj)
	}
	return clean, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	url := c.baseURL + path
	resp, err := utils.MakeRequest(ctx, c.http, http.MethodGet, url, nil, nil)
	if err != nil {
		return errorx.UpstreamFailure("error.upstream.pncp").WithDetail("cause", err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return errorx.UpstreamFailure("error.upstream.pncp").
			WithDetail("status", resp.StatusCode)
	}
	if err := utils.ReadResponseBody(resp, out); err != nil {
		return errorx.UpstreamFailure("error.upstream.pncp").WithDetail("cause", err.Error())
	}
	return nil
}

type supplierPayload struct {
	LegalName           string   `json:"razao_social"`
	TradeName           string   `json:"nome_fantasia"`
	RegistryStatus      string   `json:"situacao_cadastral"`
	Regularity          string   `json:"regularidade_geral"`
	ExpiredCertificates int      `json:"certidoes_vencidas"`
	Impediments         []string `json:"impedimentos"`
}

// ValidateSupplier looks a supplier up on the portal. Upstream faults do
// not surface as errors: the caller gets a not-validated result and
// decides what to do with it.
func (c *Client) ValidateSupplier(ctx context.Context, cnpj string) (*SupplierValidation, error) {
	clean, err := NormalizeCNPJ(cnpj)
	if err != nil {
		return nil, err
	}

	var payload supplierPayload
	if err := c.get(ctx, "/fornecedores/"+clean, &payload); err != nil {
		c.logger.Warn("supplier validation failed",
			zap.String("cnpj", clean),
			zap.Error(err))
		return &SupplierValidation{CNPJ: clean, Validated: false, Err: err.Error()}, nil
	}

	result := &SupplierValidation{
		CNPJ:                clean,
		LegalName:           payload.LegalName,
		TradeName:           payload.TradeName,
		RegistryStatus:      payload.RegistryStatus,
		Regularity:          payload.Regularity,
		ExpiredCertificates: payload.ExpiredCertificates,
		Impediments:         payload.Impediments,
		VerifiedAt:          time.Now().UTC(),
		Validated:           true,
	}
	if result.RegistryStatus == "" {
		result.RegistryStatus = cnst.SupplierActive
	}
	if result.Regularity == "" {
		result.Regularity = cnst.RegularityRegular
	}
	return result, nil
}

type contractListPayload struct {
	Total     int              `json:"total"`
	Contracts []ContractRecord `json:"contratos"`
}

// ListSupplierContracts fetches one page of a supplier's contracts.
func (c *Client) ListSupplierContracts(ctx context.Context, cnpj string, page, pageSize int) (*ContractPage, error) {
	clean, err := NormalizeCNPJ(cnpj)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	var payload contractListPayload
	path := fmt.Sprintf("/fornecedores/%s/contratos?pagina=%d&tamanhoPagina=%d", clean, page, pageSize)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	for i := range payload.Contracts {
		if payload.Contracts[i].Status == "" {
			payload.Contracts[i].Status = cnst.ContractInForce
		}
	}
	return &ContractPage{
		CNPJ:      clean,
		Total:     payload.Total,
		Page:      page,
		PageSize:  pageSize,
		Contracts: payload.Contracts,
	}, nil
}

// GetContract fetches the full record of one contract of a public
// agency.
func (c *Client) GetContract(ctx context.Context, agencyCNPJ, number string) (*ContractDetail, error) {
	cleanAgency, err := NormalizeCNPJ(agencyCNPJ)
	if err != nil {
		return nil, err
	}

	var detail ContractDetail
	if err := c.get(ctx, "/orgaos/"+cleanAgency+"/contratos/"+number, &detail); err != nil {
		return nil, err
	}
	detail.Number = number
	detail.AgencyCNPJ = cleanAgency
	if detail.Status == "" {
		detail.Status = cnst.ContractInForce
	}
	return &detail, nil
}

type certificatePayload struct {
	Certificates []CertificateRecord `json:"certidoes"`
}

// CheckSupplierCertificates fetches a supplier's certificates and counts
// the expired ones against today's date.
func (c *Client) CheckSupplierCertificates(ctx context.Context, cnpj string) (*CertificateReport, error) {
	clean, err := NormalizeCNPJ(cnpj)
	if err != nil {
		return nil, err
	}

	var payload certificatePayload
	if err := c.get(ctx, "/fornecedores/"+clean+"/certidoes", &payload); err != nil {
		return nil, err
	}

	today := time.Now()
	expired := 0
	for i := range payload.Certificates {
		cert := &payload.Certificates[i]
		if cert.Status == "" {
			cert.Status = cnst.CertificateValid
		}
		if cert.ExpiresAt == "" {
			continue
		}
		expiresAt, err := time.Parse("2006-01-02", cert.ExpiresAt)
		if err != nil {
			continue
		}
		if expiresAt.Before(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)) {
			expired++
		}
	}

	regularity := cnst.RegularityRegular
	if expired > 0 {
		regularity = cnst.RegularityIrregular
	}
	return &CertificateReport{
		CNPJ:         clean,
		Certificates: payload.Certificates,
		Total:        len(payload.Certificates),
		Expired:      expired,
		Regularity:   regularity,
	}, nil
}
