// Package servicetoken issues and validates the HS256 tokens business
// services present when they push domain events over HTTP.
package servicetoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "bizsuite/pkg/domain"
)

var (
	ErrInvalidToken = errors.New("invalid service token")
	ErrExpiredToken = errors.New("service token has expired")
)

// Claims identifies the calling service and the tenant it acts for.
type Claims struct {
	TenantID string `json:"tenant_id"`
	Service  string `json:"svc"`
	jwt.RegisteredClaims
}

// Tenant parses the tenant claim.
func (c *Claims) Tenant() (id.TenantID, error) {
	return id.ParseTenantID(c.TenantID)
}

// Service signs and verifies service tokens with a shared key.
type Service struct {
	signingKey []byte
	issuer     string
}

func New(signingKey, issuer string) (*Service, error) {
	if signingKey == "" {
		return nil, errors.New("service token signing key is required")
	}
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}, nil
}

// Issue mints a token for service acting on behalf of tenantID.
func (s *Service) Issue(tenantID id.TenantID, service string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TenantID: tenantID.String(),
		Service:  service,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   service,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// Validate verifies signature, algorithm, issuer and expiry, and requires a
// well-formed tenant claim.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	tenantID, err := claims.Tenant()
	if err != nil || tenantID.IsNil() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
