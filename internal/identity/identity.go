// Package identity defines the external identity and profile collaborators
// the session store delegates to, plus the built-in implementation backed by
// Postgres.
package identity

import (
	"context"

	"github.com/spacenow-app/spacenow/internal/domain"
)

// SignInResult is what the identity provider reports for a successful
// credential check.
type SignInResult struct {
	UserID        string
	EmailVerified bool
}

// Provider is the external authentication collaborator.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	CreateAccount(ctx context.Context, email, password string) (string, error)
	SendVerificationEmail(ctx context.Context, userID string) error
	SignOut(ctx context.Context) error
}

// Profile is the externally stored per-user document.
type Profile struct {
	Role     string
	Name     string
	LastName string
	Email    string
	Phone    string
}

// ProfileStore is the external profile/document collaborator.
type ProfileStore interface {
	GetUserProfile(ctx context.Context, userID string) (*Profile, error)
	SetUserProfile(ctx context.Context, userID string, profile Profile) error
	UpdateUserRole(ctx context.Context, userID, role string) error
	ListAllUsers(ctx context.Context) ([]domain.User, error)
}
