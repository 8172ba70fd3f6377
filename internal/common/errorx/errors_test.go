package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    *APIError
		code   Code
		status int
	}{
		{AuthenticationFailure("error.auth.invalid_credentials"), CodeAuthenticationFailure, http.StatusUnauthorized},
		{AccessDenied("error.access_denied.tenant"), CodeAccessDenied, http.StatusForbidden},
		{NotFound("error.not_found"), CodeNotFound, http.StatusNotFound},
		{Conflict("error.conflict.entity_cnpj"), CodeConflict, http.StatusConflict},
		{ValidationFailure("error.validation.body"), CodeValidationFailure, http.StatusBadRequest},
		{UpstreamFailure("error.upstream.pncp"), CodeUpstreamFailure, http.StatusBadGateway},
		{Internal(), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

func TestFromStore(t *testing.T) {
	tests := []struct {
		in   error
		code Code
	}{
		{cnst.ErrNotFound, CodeNotFound},
		{cnst.ErrDuplicateEntityCNPJ, CodeConflict},
		{cnst.ErrDuplicateSupplierDocument, CodeConflict},
		{cnst.ErrDuplicateContractNumber, CodeConflict},
		{cnst.ErrDuplicateUserDocument, CodeConflict},
		{cnst.ErrDuplicateFiscalAssignment, CodeConflict},
		{cnst.ErrDuplicateCertificateTypeCode, CodeConflict},
		{errors.New("driver: connection reset"), CodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, FromStore(tt.in).Code)
	}

	// Wrapped sentinels still translate.
	wrapped := fmt.Errorf("create contract: %w", cnst.ErrDuplicateContractNumber)
	assert.Equal(t, CodeConflict, FromStore(wrapped).Code)
}

func TestWithDetail(t *testing.T) {
	err := AccessDenied("error.access_denied.role").WithDetail("required", []string{"ROOT"})
	assert.Equal(t, []string{"ROOT"}, err.Data["required"])
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("api error renders its status and code", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Respond(c, NotFound("error.not_found"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)
	})

	t.Run("unknown errors never leak", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Respond(c, errors.New("pq: relation does not exist"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"INTERNAL"`)
		assert.NotContains(t, w.Body.String(), "relation")
	})
}
