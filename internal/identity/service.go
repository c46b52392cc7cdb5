package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/spacenow-app/spacenow/internal/domain"
	"github.com/spacenow-app/spacenow/internal/mailer"
	"github.com/spacenow-app/spacenow/internal/repo/postgres"
	"github.com/spacenow-app/spacenow/pkg/config"
	"github.com/spacenow-app/spacenow/pkg/logger"
)

// Service is the built-in identity and profile provider. It satisfies both
// Provider and ProfileStore on top of the Postgres user storage.
type Service struct {
	users  postgres.UserRepository
	verify postgres.VerifyRepository
	mailer mailer.Service
	config *config.Config
}

func NewService(
	users postgres.UserRepository,
	verify postgres.VerifyRepository,
	mailer mailer.Service,
	config *config.Config,
) *Service {
	return &Service{
		users:  users,
		verify: verify,
		mailer: mailer,
		config: config,
	}
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	match, err := argon2id.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, fmt.Errorf("invalid credentials")
	}

	return &SignInResult{UserID: user.ID, EmailVerified: user.IsVerified}, nil
}

func (s *Service) CreateAccount(ctx context.Context, email, password string) (string, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return "", fmt.Errorf("user with this email already exists")
	}

	passwordHash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, email, passwordHash)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	return user.ID, nil
}

func (s *Service) SendVerificationEmail(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return fmt.Errorf("user not found: %w", err)
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(s.config.Auth.EmailVerificationTTL)

	if err := s.verify.CreateEmailVerification(ctx, user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to create verification token: %w", err)
	}

	verifyURL := fmt.Sprintf("http://localhost:%s/auth/verify?token=%s", s.config.Server.Port, token)
	if err := s.mailer.SendVerificationEmail(user.Email, user.Name, verifyURL, token); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// SignOut is a no-op server side: sessions are stateless access tokens that
// simply expire.
func (s *Service) SignOut(ctx context.Context) error {
	return nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.verify.ConsumeEmailVerification(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to consume verification token: %w", err)
	}
	if userID == "" {
		return nil, fmt.Errorf("invalid or expired verification token")
	}

	if err := s.users.MarkVerified(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}

	logger.InfoContext(ctx, "Email verified", "user_id", userID)
	return s.users.FindByID(ctx, userID)
}

// GetUser returns the full user record behind a profile.
func (s *Service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *Service) GetUserProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("profile not found")
	}

	return &Profile{
		Role:     user.Role,
		Name:     user.Name,
		LastName: user.LastName,
		Email:    user.Email,
		Phone:    user.Phone,
	}, nil
}

func (s *Service) SetUserProfile(ctx context.Context, userID string, profile Profile) error {
	role := profile.Role
	if !domain.IsValidRole(role) {
		role = domain.RoleUser
	}
	return s.users.UpdateProfile(ctx, userID, profile.Name, profile.LastName, profile.Phone, role)
}

func (s *Service) UpdateUserRole(ctx context.Context, userID, role string) error {
	if !domain.IsValidRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}
	return s.users.UpdateRole(ctx, userID, role)
}

func (s *Service) ListAllUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}
