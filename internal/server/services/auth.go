// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, credential checks, and the
// server-side session token registry.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/delcom/marketplace/internal/common"
	"github.com/delcom/marketplace/internal/server/auth"
	"github.com/delcom/marketplace/internal/server/config"
	"github.com/delcom/marketplace/internal/server/models"
	"github.com/delcom/marketplace/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AuthService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint a session token
// - Logout: drop a token from the registry
// - Resolve: best-effort token-to-user lookup for optional identity
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		codec:       auth.NewCodec([]byte(cfg.SecretKey), cfg.TokenValidity),
	}
}

// Codec exposes the token codec so the HTTP gates can verify tokens with the
// same secret and validity the service signs with.
func (s *AuthService) Codec() *auth.Codec {
	return s.codec
}

// Register creates a new user with a bcrypt-hashed password. A duplicate
// email yields common.ErrEmailAlreadyRegistered.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %v", err)
	}
	if exists {
		return nil, common.ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: string(hash)})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %v", err)
	}
	return user, nil
}

// Login verifies the credentials and, on success, mints a session token and
// registers it, replacing the user's previous token. The replacement is a
// delete followed by an insert without a surrounding transaction; two
// concurrent logins for one user can briefly race, and the loser's token
// simply fails the registry cross-check afterwards.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrorInternal
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return "", common.ErrorInternal
	}

	tokenRepo := s.repomanager.AuthTokens(s.db)
	if old, err := tokenRepo.FindByUserID(ctx, user.ID); err == nil {
		if err := tokenRepo.DeleteByToken(ctx, old.Token); err != nil {
			return "", common.ErrorInternal
		}
	} else if !errors.Is(err, common.ErrorNotFound) {
		return "", common.ErrorInternal
	}

	if err := tokenRepo.Save(ctx, user.ID, token); err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// Logout removes the token from the registry. Logging out a token that is
// not registered succeeds; the call is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.repomanager.AuthTokens(s.db).DeleteByToken(ctx, token); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// Resolve maps a token to its user without ever returning an error: any
// failure (bad token, expired, unknown user, db trouble) reports ok=false.
// Callers use it where identity is optional, like the public home page.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.User, bool) {
	if token == "" {
		return nil, false
	}

	userID, err := s.codec.ExtractUserID(token)
	if err != nil {
		return nil, false
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// TokenOwner reports whether the token is present in the registry and, if
// so, which user it is bound to.
func (s *AuthService) TokenOwner(ctx context.Context, token string) (bool, string, error) {
	row, err := s.repomanager.AuthTokens(s.db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, "", nil
		}
		return false, "", err
	}
	return true, row.UserID, nil
}

// UserByID loads a user by id, common.ErrorNotFound when absent.
func (s *AuthService) UserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}
