// Package services holds the business logic of the auth server.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/medinvest/medinvest/internal/common"
	"github.com/medinvest/medinvest/internal/dbx"
	"github.com/medinvest/medinvest/internal/server/auth"
	"github.com/medinvest/medinvest/internal/server/config"
	"github.com/medinvest/medinvest/internal/server/models"
	"github.com/medinvest/medinvest/internal/server/repositories/repomanager"
	"github.com/medinvest/medinvest/internal/server/revocation"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is a freshly issued access token and its owner.
type LoginResult struct {
	Token string
	User  *models.User
}

// Principal is the caller behind a verified, unrevoked token.
type Principal struct {
	User   *models.User
	Claims *auth.Claims
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	revocations revocation.Store
	jwtSecret   []byte
	tokenTTL    time.Duration
	hashCost    int
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, r revocation.Store, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		revocations: r,
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.TokenTTL,
		hashCost:    bcrypt.DefaultCost,
	}
}

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("medinvest-dummy-password"), bcrypt.DefaultCost)
	return h
})

// Login checks email and password and issues an access token. Unknown
// emails and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, User: user}, nil
}

// Authenticate resolves token to its user. Invalid, expired or revoked
// tokens and deleted users wrap common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrTokenRevoked)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	return &Principal{User: user, Claims: claims}, nil
}

// Logout revokes the token described by claims until its own expiry.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return common.ErrInvalidToken
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

// EnsureUser creates the account unless the email is already registered,
// in which case the existing user is returned untouched.
func (s *UserService) EnsureUser(ctx context.Context, email, password, fullName string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, common.ErrorValidation
	}

	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		existing, err := repo.GetByEmail(ctx, email)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error looking up user: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		user, err = repo.Create(ctx, &models.User{Email: email, FullName: fullName, PasswordHash: hash})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
