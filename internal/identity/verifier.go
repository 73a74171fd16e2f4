// Package identity verifies bearer credentials against the external
// identity provider and resolves them to internal accounts with roles.
package identity

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/models"
)

// ExternalIdentity is the stable reference the identity provider assigns
// to a subject, plus the roles asserted by the credential.
type ExternalIdentity struct {
	Ref   string
	Roles models.RoleSet
}

// Verifier checks a bearer credential. Implementations do not query the
// internal store.
type Verifier interface {
	Verify(ctx context.Context, credential string) (ExternalIdentity, error)
}

// JWTVerifier validates provider-issued HS256 tokens.
type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewJWTVerifier(secret, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

var _ Verifier = (*JWTVerifier)(nil)

type providerClaims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

// Verify parses and validates the credential. Any failure is surfaced as
// Unauthenticated; the caller cannot distinguish malformed from expired.
func (v *JWTVerifier) Verify(ctx context.Context, credential string) (ExternalIdentity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	)
	claims := &providerClaims{}
	tok, err := parser.ParseWithClaims(credential, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		return ExternalIdentity{}, apperr.New(apperr.Unauthenticated, "invalid credential")
	}
	if claims.Subject == "" {
		return ExternalIdentity{}, apperr.New(apperr.Unauthenticated, "credential missing subject")
	}
	roles := make(models.RoleSet, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		if models.ValidRole(models.Role(r)) {
			roles = append(roles, models.Role(r))
		}
	}
	return ExternalIdentity{Ref: claims.Subject, Roles: roles}, nil
}
