package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tomasvidal/fieldforge-backend/internal/users"
	pkgauth "github.com/tomasvidal/fieldforge-backend/pkg/auth"
	"github.com/tomasvidal/fieldforge-backend/pkg/config"
	"github.com/tomasvidal/fieldforge-backend/pkg/db/models"
	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
	pkgerrors "github.com/tomasvidal/fieldforge-backend/pkg/errors"
	"github.com/tomasvidal/fieldforge-backend/pkg/security"
)

type stubUserRepo struct {
	user    *models.User
	created *models.User
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUserRepo) FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || !strings.EqualFold(s.user.Email, strings.TrimSpace(email)) {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.user
	return &copied, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	s.created = user
	return nil
}

func testConfigs() (config.JWTConfig, config.PasswordConfig) {
	return config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "fieldforge-test",
			ExpirationMinutes: 5,
		}, config.PasswordConfig{
			ArgonMemoryKB:    8,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     8,
			ArgonKeyLen:      16,
		}
}

func TestLoginIssuesToken(t *testing.T) {
	t.Parallel()

	jwtCfg, pwCfg := testConfigs()
	hash, err := security.HashPassword("correct horse battery", pwCfg)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubUserRepo{user: &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
	}}
	svc, err := NewService(repo, jwtCfg, pwCfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.Login(context.Background(), "shopper@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.PasswordHash != "" {
		t.Fatal("password hash must not leave the service")
	}

	claims, err := pkgauth.ParseAccessToken(jwtCfg, result.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != repo.user.ID || claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginWrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	t.Parallel()

	jwtCfg, pwCfg := testConfigs()
	hash, err := security.HashPassword("right password here", pwCfg)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubUserRepo{user: &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: hash,
	}}
	svc, err := NewService(repo, jwtCfg, pwCfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, wrongPw := svc.Login(context.Background(), "shopper@example.com", "wrong")
	_, unknown := svc.Login(context.Background(), "ghost@example.com", "whatever")

	for _, err := range []error{wrongPw, unknown} {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
		if typed.Message() != "invalid credentials" {
			t.Fatalf("credential failures must be indistinguishable, got %q", typed.Message())
		}
	}
}

func TestRegisterDefaultsRole(t *testing.T) {
	t.Parallel()

	jwtCfg, pwCfg := testConfigs()
	repo := &stubUserRepo{}
	svc, err := NewService(repo, jwtCfg, pwCfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "a long enough password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != enums.UserRoleCustomer {
		t.Fatalf("role should default to customer, got %q", user.Role)
	}
	if repo.created == nil || repo.created.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if user.PasswordHash != "" {
		t.Fatal("hash must not be returned")
	}
}

func TestRegisterRejectsInvalidRole(t *testing.T) {
	t.Parallel()

	jwtCfg, pwCfg := testConfigs()
	svc, err := NewService(&stubUserRepo{}, jwtCfg, pwCfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "a long enough password",
		Role:     "superuser",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
