package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"propcare/internal/models"
	"propcare/internal/policy"
	"propcare/internal/repository"
	"propcare/internal/utils"
)

var (
	emailRe = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
)

type AuthService struct {
	users         repository.UserRepository
	sessionSecret string
	sessionTTL    time.Duration
}

func NewAuthService(users repository.UserRepository, sessionSecret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, sessionSecret: sessionSecret, sessionTTL: ttl}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
}

func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if in.Role == "" {
		in.Role = models.RoleManager
	}

	v := validator{}
	v.check(in.Name != "", "name", "name is required")
	v.check(len(in.Name) <= 50, "name", "name cannot be more than 50 characters")
	v.check(emailRe.MatchString(in.Email), "email", "a valid email is required")
	v.check(len(in.Password) >= 6, "password", "password must be at least 6 characters")
	v.check(oneOf(in.Role, models.RoleManager, models.RoleStaff), "role", in.Role+" is not a valid role")
	v.check(in.Phone == "" || phoneRe.MatchString(in.Phone), "phone", "phone must be 10 digits")
	if err := v.err(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:   in.Name,
		Email:  in.Email,
		Role:   in.Role,
		Phone:  in.Phone,
		Status: models.StatusActive,
	}
	if err := a.users.Create(ctx, u, hash); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("email already registered")
		}
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a session token. Inactive accounts
// are refused with the same error as a bad password.
func (a *AuthService) Login(ctx context.Context, email, password string) (token string, user *models.User, err error) {
	u, hash, err := a.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if u == nil || u.Status != models.StatusActive {
		return "", nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(hash, password) {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := utils.SignJWT(a.sessionSecret, u.ID, u.Role, u.Status, a.sessionTTL)
	if err != nil {
		return "", nil, err
	}
	if err := a.users.TouchLastLogin(ctx, u.ID); err == nil {
		now := time.Now()
		u.LastLogin = &now
	}
	return tok, u, nil
}

// Actor verifies a session token and returns the identity it carries.
func (a *AuthService) Actor(token string) (policy.Actor, error) {
	c, err := utils.ParseJWT(a.sessionSecret, token)
	if err != nil {
		return policy.Actor{}, err
	}
	return policy.Actor{ID: c.UserID, Role: c.Role, Status: c.Status}, nil
}

func (a *AuthService) TTL() time.Duration { return a.sessionTTL }
