// Package services contains server-side business logic. UserService handles
// registration, login and bearer-token authentication.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/cryptox"
	"github.com/dmitrijs2005/expensekeeper/internal/dbx"
	"github.com/dmitrijs2005/expensekeeper/internal/server/auth"
	"github.com/dmitrijs2005/expensekeeper/internal/server/models"
	"github.com/dmitrijs2005/expensekeeper/internal/server/repositories/repomanager"
)

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      auth.Tokens

	// dummyHash is verified against when the username is unknown, so both
	// login failures cost one hash computation.
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens auth.Tokens) (*UserService, error) {
	dummy, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}
	dummyHash, err := cryptox.HashPassword(dummy)
	if err != nil {
		return nil, err
	}
	return &UserService{db: db, repomanager: m, tokens: tokens, dummyHash: dummyHash}, nil
}

// Register stores a new user with a salted password hash. A taken username
// yields common.ErrorUserExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByLogin(ctx, username)
		switch {
		case err == nil:
			return common.ErrorUserExists
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		created, err = repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorUserExists) {
			return nil, common.ErrorUserExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// Login verifies credentials and issues an access token. Every credential
// failure is common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.VerifyPassword(password, s.dummyHash)
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user id. The returned error
// matches both common.ErrorUnauthorized and the specific token failure.
func (s *UserService) Authenticate(ctx context.Context, token string) (int64, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return claims.UserID, nil
}

func (s *UserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, userID)
}
