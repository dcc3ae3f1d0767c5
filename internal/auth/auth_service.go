package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
	"github.com/MdFayaz7/portfolio1/internal/store"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
var ErrInvalidCredentials = errcode.Unauthenticated("Invalid email or password")

// ErrAdminExists blocks a second bootstrap registration.
var ErrAdminExists = errcode.New(errcode.Conflict, "Admin user already exists")

// Service verifies credentials, issues tokens and authenticates requests.
type Service struct {
	users  store.Store[database.User]
	tokens *TokenService
	cost   int
	// dummyHash keeps unknown-email logins as slow as wrong-password ones.
	dummyHash string
}

// NewService wires the user store and token service.
func NewService(users store.Store[database.User], tokens *TokenService, bcryptCost int) *Service {
	dummy, _ := HashPassword("portfolio-timing-guard", bcryptCost)
	return &Service{users: users, tokens: tokens, cost: bcryptCost, dummyHash: dummy}
}

// Tokens exposes the token service.
func (s *Service) Tokens() *TokenService { return s.tokens }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies the credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*database.User, string, error) {
	user, err := s.users.FindOne(ctx, map[string]any{"email": normalizeEmail(email)})
	if errors.Is(err, store.ErrNotFound) {
		CheckPasswordHash(password, s.dummyHash)
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// HasAdmin reports whether an admin account exists.
func (s *Service) HasAdmin(ctx context.Context) (bool, error) {
	n, err := s.users.Count(ctx, map[string]any{"role": database.RoleAdmin})
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return n > 0, nil
}

// Register creates the first admin. It fails once any admin exists.
func (s *Service) Register(ctx context.Context, email, password string) (*database.User, string, error) {
	exists, err := s.HasAdmin(ctx)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrAdminExists
	}

	user, err := s.create(ctx, email, password, database.RoleAdmin)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Provision creates the admin or resets its password when it already exists.
func (s *Service) Provision(ctx context.Context, email, password string) (*database.User, bool, error) {
	existing, err := s.users.FindOne(ctx, map[string]any{"email": normalizeEmail(email)})
	switch {
	case err == nil:
		hash, err := HashPassword(password, s.cost)
		if err != nil {
			return nil, false, err
		}
		existing.PasswordHash = hash
		existing.Role = database.RoleAdmin
		if err := s.users.Save(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("reset admin: %w", err)
		}
		return existing, false, nil
	case errors.Is(err, store.ErrNotFound):
		user, err := s.create(ctx, email, password, database.RoleAdmin)
		return user, true, err
	default:
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}
}

func (s *Service) create(ctx context.Context, email, password, role string) (*database.User, error) {
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return nil, err
	}
	user := &database.User{Email: normalizeEmail(email), PasswordHash: hash, Role: role}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate validates the bearer token and reloads the user it names.
func (s *Service) Authenticate(ctx context.Context, token string) (*database.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, errcode.Wrap(errcode.Authentication, "Token expired", err)
		}
		return nil, errcode.Wrap(errcode.Authentication, "Invalid token", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errcode.Unauthenticated("Invalid token. User not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
