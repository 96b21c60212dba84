// Package users manages accounts: registration, credential checks, and JWT
// issuance for the HTTP API.
package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/huntboard/huntboard/internal/app/domain/event"
	"github.com/huntboard/huntboard/internal/app/domain/user"
	"github.com/huntboard/huntboard/internal/app/storage"
	"github.com/huntboard/huntboard/pkg/logger"
)

const minPasswordLength = 8

// ErrInvalidCredentials is returned for unknown emails, wrong passwords, and
// deactivated accounts alike so callers cannot probe which of them failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service manages user accounts.
type Service struct {
	store     storage.UserStore
	events    storage.EventStore
	log       *logger.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
	nowFn     func() time.Time
}

// New constructs a user service. tokenTTL bounds issued token lifetimes; zero
// means 24 hours.
func New(store storage.UserStore, events storage.EventStore, jwtSecret []byte, tokenTTL time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("users")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		store:     store,
		events:    events,
		log:       log,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the service clock. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.nowFn = now
}

// Register creates an account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, email, displayName, password string) (user.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	displayName = strings.TrimSpace(displayName)

	if _, err := mail.ParseAddress(email); err != nil {
		return user.User{}, fmt.Errorf("email is invalid")
	}
	if displayName == "" {
		return user.User{}, fmt.Errorf("display_name is required")
	}
	if len(password) < minPasswordLength {
		return user.User{}, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.store.CreateUser(ctx, user.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
	})
	if err != nil {
		return user.User{}, err
	}

	s.appendEvent(ctx, event.New(event.UserRegistered, created.ID, s.nowFn(), "user", created.ID, nil))
	s.log.WithField("user_id", created.ID).Info("user registered")
	return created, nil
}

// Authenticate checks credentials and returns a signed JWT for the user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (user.User, string, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, "", ErrInvalidCredentials
		}
		return user.User{}, "", err
	}
	if !u.Active() {
		return user.User{}, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return user.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return user.User{}, "", err
	}

	s.appendEvent(ctx, event.New(event.UserLoggedIn, u.ID, s.nowFn(), "user", u.ID, nil))
	return u, token, nil
}

func (s *Service) issueToken(u user.User) (string, error) {
	now := s.nowFn()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"name":  u.DisplayName,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Get retrieves a user by identifier.
func (s *Service) Get(ctx context.Context, id string) (user.User, error) {
	return s.store.GetUser(ctx, id)
}

// ListActive returns every non-deactivated user.
func (s *Service) ListActive(ctx context.Context) ([]user.User, error) {
	return s.store.ListActiveUsers(ctx)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if len(next) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	_, err = s.store.UpdateUser(ctx, u)
	return err
}

// Deactivate disables an account. Existing tokens lapse at expiry.
func (s *Service) Deactivate(ctx context.Context, id string) (user.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	if !u.Active() {
		return u, nil
	}
	u.DeactivatedUTC = s.nowFn()
	updated, err := s.store.UpdateUser(ctx, u)
	if err != nil {
		return user.User{}, err
	}
	s.log.WithField("user_id", id).Info("user deactivated")
	return updated, nil
}

func (s *Service) appendEvent(ctx context.Context, e event.Entry) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendEvents(ctx, []event.Entry{e}); err != nil {
		s.log.WithError(err).Warn("user event not recorded")
	}
}
