package jwt

import (
	"testing"
	"time"

	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/stretchr/testify/assert"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(Config{SecretKey: "", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrEmptySecretKey)

	_, err = NewService(Config{SecretKey: "short", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecretKey)

	_, err = NewService(Config{SecretKey: testSecret, Duration: 0})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	assert.NoError(t, err)
	assert.NotNil(t, s)
}

func TestGenerateAndValidate(t *testing.T) {
	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	assert.NoError(t, err)

	tenant := uint(7)
	tok, err := s.GenerateToken(42, "gestor@prefeitura.gov.br", cnst.RoleGestor, &tenant)
	assert.NoError(t, err)

	claims, err := s.ValidateToken(tok)
	assert.NoError(t, err)
	if assert.NotNil(t, claims) {
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "gestor@prefeitura.gov.br", claims.Email)
		assert.Equal(t, cnst.RoleGestor, claims.Role)
		if assert.NotNil(t, claims.TenantID) {
			assert.Equal(t, uint(7), *claims.TenantID)
		}
	}
}

func TestRootWithoutTenant(t *testing.T) {
	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Hour})
	assert.NoError(t, err)

	tok, err := s.GenerateToken(1, "root@sentinela.gov.br", cnst.RoleRoot, nil)
	assert.NoError(t, err)

	claims, err := s.ValidateToken(tok)
	assert.NoError(t, err)
	assert.Nil(t, claims.TenantID)
	assert.Equal(t, cnst.RoleRoot, claims.Role)
}

func TestExpiredAndInvalid(t *testing.T) {
	s, err := NewService(Config{SecretKey: testSecret, Duration: time.Millisecond})
	assert.NoError(t, err)

	tok, err := s.GenerateToken(1, "fiscal@prefeitura.gov.br", cnst.RoleFiscalTecnico, nil)
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	claims, err := s.ValidateToken(tok)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)

	claims, err = s.ValidateToken("not-a-token")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
