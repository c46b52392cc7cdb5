package store

import (
	"context"
	"time"

	"github.com/spacenow-app/spacenow/internal/domain"
	"github.com/spacenow-app/spacenow/internal/identity"
	"github.com/spacenow-app/spacenow/pkg/events"
	"github.com/spacenow-app/spacenow/pkg/logger"
	"github.com/spacenow-app/spacenow/pkg/signal"
)

// Session tracks the authentication state and role of the current caller.
// It is the single authority for role checks; other components ask it rather
// than re-deriving role from raw fields. Credentials and profiles live with
// the external identity/profile collaborators, the session only caches the
// authenticated flag and role.
type Session struct {
	authenticated *signal.Value[bool]
	role          *signal.Value[string]
	message       *signal.Value[string]
	loggingOut    *signal.Value[bool]

	userID   string
	provider identity.Provider
	profiles identity.ProfileStore
	bus      events.Publisher
}

func NewSession(provider identity.Provider, profiles identity.ProfileStore, bus events.Publisher) *Session {
	return &Session{
		authenticated: signal.NewValue(false),
		role:          signal.NewValue(domain.RoleUser),
		message:       signal.NewValue(""),
		loggingOut:    signal.NewValue(false),
		provider:      provider,
		profiles:      profiles,
		bus:           bus,
	}
}

func (s *Session) Authenticated() *signal.Value[bool] { return s.authenticated }

func (s *Session) Role() *signal.Value[string] { return s.role }

func (s *Session) Message() *signal.Value[string] { return s.message }

func (s *Session) LoggingOut() *signal.Value[bool] { return s.loggingOut }

// UserID returns the id of the authenticated user, empty when anonymous.
func (s *Session) UserID() string { return s.userID }

// IsAdmin asks the session's cached role. Single place role is derived.
func (s *Session) IsAdmin() bool {
	return s.role.Get() == domain.RoleAdmin
}

// ClearMessage resets the user-facing message.
func (s *Session) ClearMessage() {
	s.message.Set("")
}

// Restore resumes a session from an externally verified principal, e.g. a
// parsed access token. It caches the authenticated flag and role without a
// credential round trip.
func (s *Session) Restore(userID, role string) {
	if !domain.IsValidRole(role) {
		role = domain.RoleUser
	}
	s.userID = userID
	s.authenticated.Set(true)
	s.role.Set(role)
}

// Login delegates the credential check to the identity provider. A verified
// account becomes authenticated with the role fetched from the profile
// store; an unverified one is signed out again and stays anonymous.
func (s *Session) Login(ctx context.Context, email, password string) bool {
	result, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		logger.WarnContext(ctx, "Sign-in rejected", "error", err)
		s.message.Set("invalid credentials, check your email and password")
		return false
	}

	if !result.EmailVerified {
		if err := s.provider.SignOut(ctx); err != nil {
			logger.WarnContext(ctx, "Sign-out after unverified login failed", "error", err)
		}
		s.message.Set("verify your email address before signing in")
		return false
	}

	s.userID = result.UserID
	s.authenticated.Set(true)
	s.role.Set(s.fetchRole(ctx, result.UserID))
	s.message.Set("signed in successfully")
	return true
}

// Register delegates account creation to the identity provider, writes the
// profile record with the default user role, and dispatches the verification
// message. The session stays anonymous until the user verifies and logs in.
func (s *Session) Register(ctx context.Context, req domain.RegisterRequest) bool {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.message.Set(err.Error())
		return false
	}

	userID, err := s.provider.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		logger.ErrorContext(ctx, "Account creation failed", "error", err)
		s.message.Set("failed to register user")
		return false
	}

	profile := identity.Profile{
		Role:     domain.RoleUser,
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := s.profiles.SetUserProfile(ctx, userID, profile); err != nil {
		logger.ErrorContext(ctx, "Failed to write user profile", "error", err, "user_id", userID)
		s.message.Set("failed to register user")
		return false
	}

	if err := s.provider.SendVerificationEmail(ctx, userID); err != nil {
		// Registration stands even when the mail dispatch fails; the user can
		// request a resend.
		logger.WarnContext(ctx, "Failed to send verification email", "error", err, "user_id", userID)
	}

	if s.bus != nil {
		event := events.UserRegisteredEvent{UserID: userID, Email: req.Email, Name: req.Name}
		if err := s.bus.Publish(ctx, events.UserRegistered, event); err != nil {
			logger.WarnContext(ctx, "Failed to publish user registered event", "error", err)
		}
	}

	s.userID = ""
	s.authenticated.Set(false)
	s.role.Set(domain.RoleUser)
	s.message.Set("user registered, please verify your email address")
	return true
}

// Logout returns the session to anonymous regardless of prior state.
func (s *Session) Logout(ctx context.Context) {
	s.loggingOut.Set(true)
	defer s.loggingOut.Set(false)

	if err := s.provider.SignOut(ctx); err != nil {
		logger.WarnContext(ctx, "Sign-out failed", "error", err)
		s.message.Set("failed to sign out")
		return
	}

	s.userID = ""
	s.authenticated.Set(false)
	s.role.Set(domain.RoleUser)
	s.message.Set("signed out successfully")
}

// PromoteToAdmin updates the target user's externally stored role. Permitted
// only when the caller's own role is admin; otherwise nothing is mutated.
func (s *Session) PromoteToAdmin(ctx context.Context, targetUserID string) bool {
	if !s.IsAdmin() {
		s.message.Set("permission denied, only administrators can promote users")
		return false
	}

	if err := s.profiles.UpdateUserRole(ctx, targetUserID, domain.RoleAdmin); err != nil {
		logger.ErrorContext(ctx, "Failed to promote user", "error", err, "target_user_id", targetUserID)
		s.message.Set("failed to promote user")
		return false
	}

	if s.bus != nil {
		event := events.UserPromotedEvent{
			UserID:     targetUserID,
			PromotedBy: s.userID,
			PromotedAt: time.Now(),
		}
		if err := s.bus.Publish(ctx, events.UserPromoted, event); err != nil {
			logger.WarnContext(ctx, "Failed to publish user promoted event", "error", err)
		}
	}

	s.message.Set("user promoted to administrator")
	return true
}

func (s *Session) fetchRole(ctx context.Context, userID string) string {
	profile, err := s.profiles.GetUserProfile(ctx, userID)
	if err != nil || profile == nil {
		// Role lookup failures fall back to the plain user role.
		logger.WarnContext(ctx, "Failed to fetch user role", "error", err, "user_id", userID)
		return domain.RoleUser
	}
	if profile.Role == domain.RoleAdmin {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}
