package store

import (
	"context"
	"errors"
	"testing"

	"github.com/spacenow-app/spacenow/internal/domain"
	"github.com/spacenow-app/spacenow/internal/identity"
)

// ---------- Mocks ----------

type mockProvider struct {
	signInResult *identity.SignInResult
	signInErr    error
	createdID    string
	createErr    error
	verifySent   []string
	signedOut    int
}

func (m *mockProvider) SignIn(_ context.Context, email, password string) (*identity.SignInResult, error) {
	if m.signInErr != nil {
		return nil, m.signInErr
	}
	return m.signInResult, nil
}

func (m *mockProvider) CreateAccount(_ context.Context, email, password string) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	return m.createdID, nil
}

func (m *mockProvider) SendVerificationEmail(_ context.Context, userID string) error {
	m.verifySent = append(m.verifySent, userID)
	return nil
}

func (m *mockProvider) SignOut(_ context.Context) error {
	m.signedOut++
	return nil
}

type mockProfiles struct {
	profiles   map[string]*identity.Profile
	updateErr  error
	lastUpdate struct {
		userID string
		role   string
	}
}

func newMockProfiles() *mockProfiles {
	return &mockProfiles{profiles: make(map[string]*identity.Profile)}
}

func (m *mockProfiles) GetUserProfile(_ context.Context, userID string) (*identity.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, errors.New("profile not found")
	}
	return p, nil
}

func (m *mockProfiles) SetUserProfile(_ context.Context, userID string, profile identity.Profile) error {
	m.profiles[userID] = &profile
	return nil
}

func (m *mockProfiles) UpdateUserRole(_ context.Context, userID, role string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.lastUpdate.userID = userID
	m.lastUpdate.role = role
	if p, ok := m.profiles[userID]; ok {
		p.Role = role
	}
	return nil
}

func (m *mockProfiles) ListAllUsers(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for id, p := range m.profiles {
		out = append(out, domain.User{ID: id, Name: p.Name, Email: p.Email, Role: p.Role})
	}
	return out, nil
}

func validRegistration() domain.RegisterRequest {
	return domain.RegisterRequest{
		Name:            "Ana",
		LastName:        "Muñoz",
		Email:           "ana@example.com",
		Phone:           "3001234567",
		Password:        "Abcdef1!",
		ConfirmPassword: "Abcdef1!",
	}
}

// ---------- Tests ----------

func TestSessionLoginVerifiedAdmin(t *testing.T) {
	provider := &mockProvider{signInResult: &identity.SignInResult{UserID: "u1", EmailVerified: true}}
	profiles := newMockProfiles()
	profiles.profiles["u1"] = &identity.Profile{Role: domain.RoleAdmin}

	s := NewSession(provider, profiles, nil)
	if ok := s.Login(context.Background(), "a@b.com", "Abcdef1!"); !ok {
		t.Fatalf("login failed: %s", s.Message().Get())
	}

	if !s.Authenticated().Get() {
		t.Error("session must be authenticated")
	}
	if !s.IsAdmin() {
		t.Error("role must come from the profile store")
	}
	if s.UserID() != "u1" {
		t.Errorf("user id = %q", s.UserID())
	}
}

func TestSessionLoginUnverified(t *testing.T) {
	provider := &mockProvider{signInResult: &identity.SignInResult{UserID: "u1", EmailVerified: false}}
	s := NewSession(provider, newMockProfiles(), nil)

	if ok := s.Login(context.Background(), "a@b.com", "Abcdef1!"); ok {
		t.Fatal("unverified account must not authenticate")
	}
	if s.Authenticated().Get() {
		t.Error("session must stay anonymous")
	}
	if provider.signedOut != 1 {
		t.Error("unverified login signs the provider session out again")
	}
	if s.Message().Get() != "verify your email address before signing in" {
		t.Errorf("message = %q", s.Message().Get())
	}
}

func TestSessionLoginInvalidCredentials(t *testing.T) {
	provider := &mockProvider{signInErr: errors.New("wrong password")}
	s := NewSession(provider, newMockProfiles(), nil)

	if ok := s.Login(context.Background(), "a@b.com", "nope"); ok {
		t.Fatal("failed credential check must not authenticate")
	}
	if s.Authenticated().Get() {
		t.Error("session must stay anonymous")
	}
	if s.Message().Get() != "invalid credentials, check your email and password" {
		t.Errorf("message = %q", s.Message().Get())
	}
}

func TestSessionLoginRoleLookupFailureDefaultsToUser(t *testing.T) {
	provider := &mockProvider{signInResult: &identity.SignInResult{UserID: "u1", EmailVerified: true}}
	s := NewSession(provider, newMockProfiles(), nil)

	if ok := s.Login(context.Background(), "a@b.com", "Abcdef1!"); !ok {
		t.Fatal("login should still succeed")
	}
	if s.IsAdmin() {
		t.Error("role lookup failure falls back to the user role")
	}
}

func TestSessionRegister(t *testing.T) {
	provider := &mockProvider{createdID: "new-user"}
	profiles := newMockProfiles()
	s := NewSession(provider, profiles, nil)

	if ok := s.Register(context.Background(), validRegistration()); !ok {
		t.Fatalf("register failed: %s", s.Message().Get())
	}

	if s.Authenticated().Get() {
		t.Error("session stays anonymous until the user verifies and logs in")
	}
	profile := profiles.profiles["new-user"]
	if profile == nil {
		t.Fatal("profile record must be written")
	}
	if profile.Role != domain.RoleUser {
		t.Errorf("profile role = %q, want user", profile.Role)
	}
	if len(provider.verifySent) != 1 || provider.verifySent[0] != "new-user" {
		t.Error("verification message must be dispatched")
	}
}

func TestSessionRegisterValidation(t *testing.T) {
	s := NewSession(&mockProvider{}, newMockProfiles(), nil)

	req := validRegistration()
	req.ConfirmPassword = "different"
	if ok := s.Register(context.Background(), req); ok {
		t.Fatal("mismatched confirmation must refuse registration")
	}
	if s.Message().Get() == "" {
		t.Error("expected a validation message")
	}
}

func TestSessionLogout(t *testing.T) {
	provider := &mockProvider{signInResult: &identity.SignInResult{UserID: "u1", EmailVerified: true}}
	profiles := newMockProfiles()
	profiles.profiles["u1"] = &identity.Profile{Role: domain.RoleAdmin}

	s := NewSession(provider, profiles, nil)
	s.Login(context.Background(), "a@b.com", "Abcdef1!")
	s.Logout(context.Background())

	if s.Authenticated().Get() {
		t.Error("session must be anonymous after logout")
	}
	if s.Role().Get() != domain.RoleUser {
		t.Error("role resets to user on logout")
	}
	if s.UserID() != "" {
		t.Error("user id must be cleared")
	}
}

func TestSessionPromoteDeniedForUser(t *testing.T) {
	profiles := newMockProfiles()
	profiles.profiles["target"] = &identity.Profile{Role: domain.RoleUser}

	s := NewSession(&mockProvider{}, profiles, nil)
	s.Restore("caller", domain.RoleUser)

	if ok := s.PromoteToAdmin(context.Background(), "target"); ok {
		t.Fatal("non-admin caller must be denied")
	}
	if profiles.profiles["target"].Role != domain.RoleUser {
		t.Error("target role must be unchanged")
	}
	if s.Message().Get() != "permission denied, only administrators can promote users" {
		t.Errorf("message = %q", s.Message().Get())
	}
}

func TestSessionPromoteByAdmin(t *testing.T) {
	profiles := newMockProfiles()
	profiles.profiles["target"] = &identity.Profile{Role: domain.RoleUser}

	s := NewSession(&mockProvider{}, profiles, nil)
	s.Restore("caller", domain.RoleAdmin)

	if ok := s.PromoteToAdmin(context.Background(), "target"); !ok {
		t.Fatalf("promote failed: %s", s.Message().Get())
	}
	if profiles.lastUpdate.userID != "target" || profiles.lastUpdate.role != domain.RoleAdmin {
		t.Errorf("unexpected role update: %+v", profiles.lastUpdate)
	}
}

func TestSessionRestoreRejectsUnknownRole(t *testing.T) {
	s := NewSession(&mockProvider{}, newMockProfiles(), nil)
	s.Restore("u1", "superuser")
	if s.Role().Get() != domain.RoleUser {
		t.Error("unknown roles collapse to user")
	}
}
