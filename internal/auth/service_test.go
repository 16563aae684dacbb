package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/internal/admins"
	pkgAuth "github.com/gemvault/gemvault-backend/pkg/auth"
	"github.com/gemvault/gemvault-backend/pkg/config"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
	"github.com/gemvault/gemvault-backend/pkg/security"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret-0123456789",
	Issuer:            "gemvault",
	ExpirationMinutes: 30,
}

func TestServiceLoginMintsTokenAndSession(t *testing.T) {
	admin := testAdmin(t, "s3cret-pass")
	repo := &stubAdminRepo{admin: admin}
	sessions := &stubSessionManager{live: map[string]string{}}
	now := time.Now().UTC().Truncate(time.Second)
	svc := buildTestService(t, repo, sessions, now)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "  Owner@GemVault.test ", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Role != enums.AdminRoleOwner {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if sessions.live[claims.ID] != admin.ID.String() {
		t.Fatalf("expected session keyed by jti %s", claims.ID)
	}
	if repo.lastLogin == nil || !repo.lastLogin.Equal(now) {
		t.Fatalf("expected last login recorded at %s", now)
	}
	if !resp.ExpiresAt.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("unexpected expiry %s", resp.ExpiresAt)
	}
	if resp.Admin == nil || resp.Admin.Email != admin.Email {
		t.Fatalf("expected admin profile in response")
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	admin := testAdmin(t, "s3cret-pass")
	cases := []struct {
		name  string
		repo  *stubAdminRepo
		email string
		pass  string
	}{
		{"wrong password", &stubAdminRepo{admin: admin}, admin.Email, "nope"},
		{"unknown email", &stubAdminRepo{}, "ghost@gemvault.test", "s3cret-pass"},
		{"inactive", &stubAdminRepo{admin: withInactive(admin)}, admin.Email, "s3cret-pass"},
		{"blank", &stubAdminRepo{admin: admin}, " ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions := &stubSessionManager{live: map[string]string{}}
			svc := buildTestService(t, tc.repo, sessions, time.Now())
			_, err := svc.Login(context.Background(), LoginRequest{Email: tc.email, Password: tc.pass})
			if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			if len(sessions.live) != 0 {
				t.Fatalf("no session should be created")
			}
		})
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessionManager{live: map[string]string{"jti-1": "admin"}}
	svc := buildTestService(t, &stubAdminRepo{}, sessions, time.Now())

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := sessions.live["jti-1"]; ok {
		t.Fatalf("expected session revoked")
	}
	if err := svc.Logout(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for blank jti, got %v", err)
	}
}

func TestServiceMe(t *testing.T) {
	admin := testAdmin(t, "pw-pw-pw-pw")
	svc := buildTestService(t, &stubAdminRepo{admin: admin}, &stubSessionManager{}, time.Now())

	me, err := svc.Me(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.ID != admin.ID {
		t.Fatalf("expected %s got %s", admin.ID, me.ID)
	}
	if _, err := svc.Me(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown admin, got %v", err)
	}
}

func buildTestService(t *testing.T, repo *stubAdminRepo, sessions *stubSessionManager, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		AdminRepo:      repo,
		SessionManager: sessions,
		JWTConfig:      testJWT,
		Now:            func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func testAdmin(t *testing.T, password string) *models.Admin {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.Admin{
		ID:           uuid.New(),
		Email:        "owner@gemvault.test",
		Name:         "Owner",
		PasswordHash: hash,
		Role:         enums.AdminRoleOwner,
		IsActive:     true,
	}
}

func withInactive(admin *models.Admin) *models.Admin {
	clone := *admin
	clone.IsActive = false
	return &clone
}

type stubAdminRepo struct {
	admin     *models.Admin
	lastLogin *time.Time
}

func (s *stubAdminRepo) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if s.admin == nil || s.admin.Email != admins.NormalizeEmail(email) {
		return nil, gorm.ErrRecordNotFound
	}
	return s.admin, nil
}

func (s *stubAdminRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	if s.admin == nil || s.admin.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.admin, nil
}

func (s *stubAdminRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.admin == nil || s.admin.ID != id {
		return errors.New("unknown admin")
	}
	s.lastLogin = &at
	return nil
}

type stubSessionManager struct {
	live map[string]string
}

func (s *stubSessionManager) Create(ctx context.Context, accessID, adminID string) error {
	s.live[accessID] = adminID
	return nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.live, accessID)
	return nil
}
