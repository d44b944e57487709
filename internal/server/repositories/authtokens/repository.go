// Package authtokens declares the server-side registry contract for issued
// session tokens.
package authtokens

import (
	"context"

	"github.com/delcom/marketplace/internal/server/models"
)

// Repository defines operations over the session token registry. The
// registry is authoritative for API access: a token absent from it is dead
// no matter what its signature says.
type Repository interface {
	// Find looks up a registry row by its token string. Returns a
	// not-found error when the token is absent.
	Find(ctx context.Context, token string) (*models.AuthToken, error)

	// FindByUserID returns the user's current registry row, or a
	// not-found error when the user holds no token.
	FindByUserID(ctx context.Context, userID string) (*models.AuthToken, error)

	// Save records token as belonging to userID, replacing any previous
	// owner of the same token string.
	Save(ctx context.Context, userID string, token string) error

	// DeleteByToken removes a registry row by its token string. Deleting
	// a token that is not registered is not an error.
	DeleteByToken(ctx context.Context, token string) error
}
