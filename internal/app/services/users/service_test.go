package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/huntboard/huntboard/internal/app/storage/memory"
)

const testSecret = "unit-test-secret"

func newService() *Service {
	store := memory.New()
	return New(store, store, []byte(testSecret), time.Hour, nil)
}

func TestService_RegisterAndAuthenticate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Jo@Example.com", "Jo", "correct horse battery")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "jo@example.com" {
		t.Fatalf("email should be lowercased, got %q", u.Email)
	}

	authed, token, err := svc.Authenticate(ctx, "jo@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != u.ID {
		t.Fatalf("authenticated wrong user")
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != u.ID {
		t.Fatalf("token sub = %v, want %s", claims["sub"], u.ID)
	}
}

func TestService_AuthenticateRejectsBadCredentials(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jo@example.com", "Jo", "correct horse battery"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Authenticate(ctx, "jo@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Authenticate(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_RegisterValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "Jo", "correct horse battery"); err == nil {
		t.Fatalf("expected invalid email error")
	}
	if _, err := svc.Register(ctx, "jo@example.com", "Jo", "short"); err == nil {
		t.Fatalf("expected short password error")
	}
	if _, err := svc.Register(ctx, "jo@example.com", "", "correct horse battery"); err == nil {
		t.Fatalf("expected missing display name error")
	}
}

func TestService_DuplicateEmail(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jo@example.com", "Jo", "correct horse battery"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "JO@example.com", "Jo Again", "correct horse battery"); err == nil {
		t.Fatalf("expected duplicate email error")
	}
}

func TestService_DeactivateBlocksLogin(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "jo@example.com", "Jo", "correct horse battery")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, "jo@example.com", "correct horse battery"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("deactivated login err = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_ChangePassword(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "jo@example.com", "Jo", "correct horse battery")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(ctx, u.ID, "wrong", "another long password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current password err = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(ctx, u.ID, "correct horse battery", "another long password"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, "jo@example.com", "another long password"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
}
