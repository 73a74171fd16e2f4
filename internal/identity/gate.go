package identity

import (
	"context"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/models"
)

// AccountStore is the minimal account repository interface the gate needs.
// Lookups return (nil, nil) when no row exists.
type AccountStore interface {
	GetByExternalIdentity(ctx context.Context, ref string) (*models.Account, error)
	// SyncByExternalIdentity creates the account on first sight and merges
	// the given roles additively. Syncing a held role is a no-op.
	SyncByExternalIdentity(ctx context.Context, ref string, roles models.RoleSet) (*models.Account, error)
}

// Gate enforces "does this account hold role R" in front of every
// state-mutating operation.
type Gate struct {
	verifier Verifier
	accounts AccountStore
}

func NewGate(verifier Verifier, accounts AccountStore) *Gate {
	return &Gate{verifier: verifier, accounts: accounts}
}

// ResolveIdentity verifies the bearer credential against the external
// provider. It does not touch the internal store.
func (g *Gate) ResolveIdentity(ctx context.Context, credential string) (ExternalIdentity, error) {
	if credential == "" {
		return ExternalIdentity{}, apperr.New(apperr.Unauthenticated, "missing credential")
	}
	return g.verifier.Verify(ctx, credential)
}

// LoadAccount looks up the account for an external identity. When required
// is non-empty and the account lacks the role, the result is the same
// NotFound as a missing account: callers cannot probe which roles an
// identity holds.
func (g *Gate) LoadAccount(ctx context.Context, ref string, required models.Role) (*models.Account, error) {
	acc, err := g.accounts.GetByExternalIdentity(ctx, ref)
	if err != nil {
		return nil, err
	}
	if acc == nil || (required != "" && !acc.Roles.Has(required)) {
		return nil, apperr.New(apperr.NotFound, "no eligible account")
	}
	return acc, nil
}

// RequireRole composes credential verification, role sync, and the role
// check. Verification failure is Unauthenticated; a verified caller whose
// account lacks the role is Forbidden.
func (g *Gate) RequireRole(ctx context.Context, credential string, role models.Role) (ExternalIdentity, *models.Account, error) {
	ident, err := g.ResolveIdentity(ctx, credential)
	if err != nil {
		return ExternalIdentity{}, nil, err
	}
	acc, err := g.accounts.SyncByExternalIdentity(ctx, ident.Ref, ident.Roles)
	if err != nil {
		return ExternalIdentity{}, nil, err
	}
	if !acc.Roles.Has(role) {
		return ExternalIdentity{}, nil, apperr.New(apperr.Forbidden, "account lacks role %s", role)
	}
	return ident, acc, nil
}
