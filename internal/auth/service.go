package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tomasvidal/fieldforge-backend/internal/users"
	pkgauth "github.com/tomasvidal/fieldforge-backend/pkg/auth"
	"github.com/tomasvidal/fieldforge-backend/pkg/config"
	"github.com/tomasvidal/fieldforge-backend/pkg/db/models"
	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
	pkgerrors "github.com/tomasvidal/fieldforge-backend/pkg/errors"
	"github.com/tomasvidal/fieldforge-backend/pkg/security"
)

// Service issues access tokens and registers accounts.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
}

// LoginResult carries the signed token and the authenticated user.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Email    string
	Password string
	Role     enums.UserRole
}

type service struct {
	repo        users.Repository
	jwtConfig   config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService builds an auth service around the user repository.
func NewService(repo users.Repository, jwtConfig config.JWTConfig, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{
		repo:        repo,
		jwtConfig:   jwtConfig,
		passwordCfg: passwordCfg,
		now:         time.Now,
	}, nil
}

// Login verifies the credentials and mints an access token. Unknown accounts
// and wrong passwords produce the same error.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := pkgauth.MintAccessToken(s.jwtConfig, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	user.PasswordHash = ""
	return &LoginResult{AccessToken: token, User: user}, nil
}

// Register creates an account with a hashed password. The role defaults to
// customer when absent.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}
	role := input.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	user.PasswordHash = ""
	return user, nil
}
