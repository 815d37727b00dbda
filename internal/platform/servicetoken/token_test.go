package servicetoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "bizsuite/pkg/domain"
)

var tenantID = id.TenantID(uuid.New())

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := New("test-signing-key", "bizsuite")
	require.NoError(t, err)
	return svc
}

func TestIssueValidate(t *testing.T) {
	svc := newService(t)

	token, err := svc.Issue(tenantID, "hrm", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "hrm", claims.Service)
	got, err := claims.Tenant()
	require.NoError(t, err)
	assert.Equal(t, tenantID, got)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidate_Rejects(t *testing.T) {
	svc := newService(t)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.Issue(tenantID, "hrm", -time.Hour)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := New("another-key", "bizsuite")
		require.NoError(t, err)
		token, err := other.Issue(tenantID, "hrm", time.Hour)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		other, err := New("test-signing-key", "someone-else")
		require.NoError(t, err)
		token, err := other.Issue(tenantID, "hrm", time.Hour)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing tenant", func(t *testing.T) {
		token, err := svc.Issue(id.TenantID{}, "hrm", time.Hour)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{TenantID: tenantID.String()})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Validate(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New("", "bizsuite")
	assert.ErrorContains(t, err, "signing key is required")
}
