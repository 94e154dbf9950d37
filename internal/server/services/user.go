// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, identity lookup, and
// issuing/refreshing JWTs backed by server-stored refresh-token records.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
//   - Register: create users and queue the signup notification
//   - Login: verify credentials and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - GetUser: identity lookup for authenticated requests
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	tokens *auth.TokenManager
}

// NewUserService constructs a UserService using repositories and the token manager.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenManager) *UserService {
	return &UserService{
		db:     db,
		repos:  m,
		tokens: tokens,
	}
}

// Register creates a new user with the given name, contact, and password, and
// records a signup event in the same transaction. The plaintext password is
// hashed immediately and never persisted or forwarded.
//
// Returns common.ErrorValidation for missing fields and
// common.ErrorAlreadyExists when the contact is taken.
func (s *UserService) Register(ctx context.Context, name, contact, password string) (*models.User, error) {

	if name == "" || contact == "" || password == "" {
		return nil, common.ErrorValidation
	}

	// advisory pre-check for a friendlier conflict answer; the unique index
	// on contact is what decides concurrent registrations
	_, err := s.repos.Users(s.db).GetByContact(ctx, contact)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Name: name, Contact: contact, PasswordHash: hash}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repos.Users(tx).Create(ctx, user)
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		user = created

		event := &models.SignupEvent{
			ID:      uuid.NewString(),
			UserID:  user.ID,
			Name:    user.Name,
			Contact: user.Contact,
		}
		if err := s.repos.Outbox(tx).Create(ctx, event); err != nil {
			return fmt.Errorf("error queueing signup event: %w", err)
		}
		return nil
	}); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Login verifies the provided password against the stored hash and, on
// success, returns a new TokenPair together with the user record.
//
// Returns common.ErrorNotFound for unknown contacts and
// common.ErrorInvalidCredentials for a wrong password.
func (s *UserService) Login(ctx context.Context, contact, password string) (*TokenPair, *models.User, error) {

	user, err := s.repos.Users(s.db).GetByContact(ctx, contact)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}
	if !ok {
		return nil, nil, common.ErrorInvalidCredentials
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, nil, err
	}

	return pair, user, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Any verification failure, including reuse of an
// already rotated token, yields common.ErrorUnauthorized.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {

	if refreshToken == "" {
		return nil, common.ErrorValidation
	}

	claims, err := s.tokens.Verify(refreshToken, auth.TokenKindRefresh)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// deleting the jti row is what makes the token single-use
		if err := s.repos.RefreshTokens(tx).Delete(ctx, claims.ID); err != nil {
			return err
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, claims.Subject, tx)
		return genErr
	}); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// GetUser returns the user with the given id, or common.ErrorNotFound.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, _, err := s.tokens.Issue(auth.TokenKindAccess, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, jti, err := s.tokens.Issue(auth.TokenKindRefresh, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repos.RefreshTokens(tx).Create(ctx, userID, jti, s.tokens.RefreshValidity()); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
