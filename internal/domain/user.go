package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/spacenow-app/spacenow/internal/validation"
)

type User struct {
	ID           string    `json:"id"`
	Role         string    `json:"role"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        *UserInfo `json:"user"`
}

type UserInfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
}

// Valid user roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// Validate applies the registration form rules, first failing rule wins.
func (r *RegisterRequest) Validate() error {
	if msg := validation.ValidateName(r.Name); msg != "" {
		return fmt.Errorf("name: %s", msg)
	}
	if msg := validation.ValidateName(r.LastName); msg != "" {
		return fmt.Errorf("last name: %s", msg)
	}
	if msg := validation.ValidateEmail(r.Email); msg != "" {
		return fmt.Errorf("email: %s", msg)
	}
	if msg := validation.ValidatePhone(r.Phone); msg != "" {
		return fmt.Errorf("phone: %s", msg)
	}
	if msg := validation.ValidatePassword(r.Password); msg != "" {
		return fmt.Errorf("password: %s", msg)
	}
	if msg := validation.ValidateConfirmPassword(r.Password, r.ConfirmPassword); msg != "" {
		return fmt.Errorf("confirm password: %s", msg)
	}
	return nil
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// ToUserInfo converts User to UserInfo (without sensitive data)
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		LastName:   u.LastName,
		Phone:      u.Phone,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
}
