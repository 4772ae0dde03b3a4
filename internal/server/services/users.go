package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// UserService implements sign-up and login. Both hand back a fresh access
// token.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      *auth.PasswordHasher
	tokens                      *auth.TokenService
	accessTokenValidityDuration time.Duration
	validate                    *validator.Validate
	log                         logging.Logger
	now                         func() time.Time

	// dummyHash is compared against when the email is unknown, so that
	// path costs one bcrypt run like a wrong password does.
	dummyHash func() string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher,
	tokens *auth.TokenService, accessTokenValidityDuration time.Duration, log logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		hasher:                      hasher,
		tokens:                      tokens,
		accessTokenValidityDuration: accessTokenValidityDuration,
		validate:                    newValidator(),
		log:                         log.With("module", "users"),
		now:                         time.Now,
		dummyHash: sync.OnceValue(func() string {
			h, _ := hasher.Hash("gophblog-dummy-password")
			return h
		}),
	}
}

// Register creates an account for email and returns an access token for it.
// A taken email yields common.ErrDuplicateEmail.
func (s *UserService) Register(ctx context.Context, email, password string) (string, error) {
	if err := s.validate.Struct(registerInput{Email: email, Password: password}); err != nil {
		return "", validationError(err)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		s.log.Error(ctx, "user lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return "", common.ErrorInternal
	}

	// The unique constraint still catches a concurrent sign-up that slipped
	// past the lookup above.
	user, err := repo.Insert(ctx, email, hash)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return "", common.ErrDuplicateEmail
		}
		s.log.Error(ctx, "user insert failed", "error", err)
		return "", common.ErrorInternal
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(ctx, user)
}

// Login checks the credentials and returns an access token. An unknown
// email and a wrong password both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	if err := s.validate.Struct(loginInput{Email: email, Password: password}); err != nil {
		return "", validationError(err)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash())
			return "", common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "user lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *UserService) issue(ctx context.Context, user *models.User) (string, error) {
	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email}, s.now(), s.accessTokenValidityDuration)
	if err != nil {
		s.log.Error(ctx, "token signing failed", "error", err)
		return "", common.ErrorInternal
	}
	return token, nil
}
