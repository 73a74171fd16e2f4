package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/models"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "https://idp.example.com/"
	testAudience = "missionpool-api"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims providerClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func validClaims(roles ...string) providerClaims {
	return providerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "idp|user-1",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Roles: roles,
	}
}

func newTestVerifier() *JWTVerifier {
	return NewJWTVerifier(testSecret, testIssuer, testAudience)
}

func TestVerify_ValidToken(t *testing.T) {
	v := newTestVerifier()
	tok := signToken(t, testSecret, jwt.SigningMethodHS256, validClaims("SPONSOR", "ASSIGNEE"))

	ident, err := v.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ident.Ref != "idp|user-1" {
		t.Errorf("ref: got %s, want idp|user-1", ident.Ref)
	}
	if !ident.Roles.Has(models.RoleSponsor) || !ident.Roles.Has(models.RoleAssignee) {
		t.Errorf("roles: got %v, want both SPONSOR and ASSIGNEE", ident.Roles)
	}
}

// Roles outside the closed set are dropped, not rejected.
func TestVerify_FiltersUnknownRoles(t *testing.T) {
	v := newTestVerifier()
	tok := signToken(t, testSecret, jwt.SigningMethodHS256, validClaims("SPONSOR", "SUPERUSER"))

	ident, err := v.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(ident.Roles) != 1 || !ident.Roles.Has(models.RoleSponsor) {
		t.Errorf("roles: got %v, want [SPONSOR]", ident.Roles)
	}
}

func TestVerify_Rejections(t *testing.T) {
	v := newTestVerifier()

	expired := validClaims("SPONSOR")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongIssuer := validClaims("SPONSOR")
	wrongIssuer.Issuer = "https://evil.example.com/"

	wrongAudience := validClaims("SPONSOR")
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}

	noSubject := validClaims("SPONSOR")
	noSubject.Subject = ""

	cases := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.jwt"},
		{"wrong secret", signToken(t, "other-secret", jwt.SigningMethodHS256, validClaims("SPONSOR"))},
		{"wrong method", signToken(t, testSecret, jwt.SigningMethodHS384, validClaims("SPONSOR"))},
		{"expired", signToken(t, testSecret, jwt.SigningMethodHS256, expired)},
		{"wrong issuer", signToken(t, testSecret, jwt.SigningMethodHS256, wrongIssuer)},
		{"wrong audience", signToken(t, testSecret, jwt.SigningMethodHS256, wrongAudience)},
		{"missing subject", signToken(t, testSecret, jwt.SigningMethodHS256, noSubject)},
	}
	for _, tc := range cases {
		_, err := v.Verify(context.Background(), tc.token)
		if !apperr.IsKind(err, apperr.Unauthenticated) {
			t.Errorf("%s: expected Unauthenticated, got %v", tc.name, err)
		}
	}
}
