package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// UserFinder is the slice of the user repository the resolver needs.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Resolver turns a presented bearer token into the user it was issued to.
type Resolver struct {
	tokens *TokenService
	users  UserFinder
}

func NewResolver(tokens *TokenService, users UserFinder) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve verifies token at now and loads its user. Every rejection, whether
// bad signature, expiry, garbage input, missing user id or a user deleted
// since issuance, comes back as the same common.ErrorUnauthorized.
// Storage failures are reported as common.ErrorInternal.
func (r *Resolver) Resolve(ctx context.Context, token string, now time.Time) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := r.tokens.Verify(token, now)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	if claims.UserID <= 0 {
		return nil, common.ErrorUnauthorized
	}

	user, err := r.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
