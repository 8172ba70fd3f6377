package pncp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/config"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.PNCPConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
}

func TestNormalizeCNPJ(t *testing.T) {
	clean, err := NormalizeCNPJ("11.222.333/0001-44")
	require.NoError(t, err)
	assert.Equal(t, "11222333000144", clean)

	for _, bad := range []string{"", "123", "11.222.333/0001-4"} {
		_, err := NormalizeCNPJ(bad)
		var apiErr *errorx.APIError
		require.True(t, errors.As(err, &apiErr), "input %q", bad)
		assert.Equal(t, errorx.CodeValidationFailure, apiErr.Code)
	}
}

func TestValidateSupplier(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fornecedores/11222333000144", r.URL.Path)
		w.Write([]byte(`{
			"razao_social": "Construções Alfa LTDA",
			"situacao_cadastral": "ATIVO",
			"regularidade_geral": "IRREGULAR",
			"certidoes_vencidas": 2,
			"impedimentos": ["Multa pendente"]
		}`))
	}))

	got, err := client.ValidateSupplier(context.Background(), "11.222.333/0001-44")
	require.NoError(t, err)
	assert.True(t, got.Validated)
	assert.Equal(t, "11222333000144", got.CNPJ)
	assert.Equal(t, "Construções Alfa LTDA", got.LegalName)
	assert.Equal(t, cnst.RegularityIrregular, got.Regularity)
	assert.Equal(t, 2, got.ExpiredCertificates)
	assert.Equal(t, []string{"Multa pendente"}, got.Impediments)
	assert.False(t, got.VerifiedAt.IsZero())
}

func TestValidateSupplierUpstreamFault(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	// An unreachable portal yields a structured not-validated answer, not
	// an error.
	got, err := client.ValidateSupplier(context.Background(), "11222333000144")
	require.NoError(t, err)
	assert.False(t, got.Validated)
	assert.NotEmpty(t, got.Err)
}

func TestValidateSupplierRejectsBadCNPJBeforeCalling(t *testing.T) {
	called := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.ValidateSupplier(context.Background(), "123")
	var apiErr *errorx.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, errorx.CodeValidationFailure, apiErr.Code)
	assert.False(t, called)
}

func TestListSupplierContracts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fornecedores/11222333000144/contratos", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("pagina"))
		assert.Equal(t, "10", r.URL.Query().Get("tamanhoPagina"))
		w.Write([]byte(`{
			"total": 12,
			"contratos": [
				{"numero_contrato": "007/2025", "objeto": "Obra", "valor_global": 150000.5},
				{"numero_contrato": "008/2025", "objeto": "Serviço", "status": "ENCERRADO"}
			]
		}`))
	}))

	page, err := client.ListSupplierContracts(context.Background(), "11222333000144", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Contracts, 2)
	assert.Equal(t, cnst.ContractInForce, page.Contracts[0].Status)
	assert.Equal(t, "ENCERRADO", page.Contracts[1].Status)
}

func TestListSupplierContractsUpstreamFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.ListSupplierContracts(context.Background(), "11222333000144", 1, 50)
	var apiErr *errorx.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, errorx.CodeUpstreamFailure, apiErr.Code)
}

func TestGetContract(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgaos/11222333000144/contratos/007-2025", r.URL.Path)
		w.Write([]byte(`{"objeto": "Pavimentação", "fornecedor_cnpj": "99888777000166", "itens": [{"item": 1}]}`))
	}))

	detail, err := client.GetContract(context.Background(), "11222333000144", "007-2025")
	require.NoError(t, err)
	assert.Equal(t, "007-2025", detail.Number)
	assert.Equal(t, "Pavimentação", detail.Object)
	assert.Equal(t, "99888777000166", detail.SupplierCNPJ)
	assert.Equal(t, cnst.ContractInForce, detail.Status)
	assert.Len(t, detail.Items, 1)
}

func TestCheckSupplierCertificates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fornecedores/11222333000144/certidoes", r.URL.Path)
		w.Write([]byte(`{"certidoes": [
			{"tipo": "CND_FEDERAL", "data_validade": "2020-01-01"},
			{"tipo": "FGTS", "data_validade": "2099-01-01", "situacao": "VÁLIDA"},
			{"tipo": "TRABALHISTA"}
		]}`))
	}))

	report, err := client.CheckSupplierCertificates(context.Background(), "11222333000144")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Expired)
	assert.Equal(t, cnst.RegularityIrregular, report.Regularity)
	assert.Equal(t, cnst.CertificateValid, report.Certificates[0].Status)
}
