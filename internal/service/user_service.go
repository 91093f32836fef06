package service

import (
	"context"
	"errors"
	"strings"

	"propcare/internal/models"
	"propcare/internal/policy"
	"propcare/internal/repository"
	"propcare/internal/utils"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Me(ctx context.Context, a policy.Actor) (*models.User, error) {
	u, err := s.users.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user")
	}
	return u, nil
}

// MaintenanceStaff lists active staff for the assignment picker.
func (s *UserService) MaintenanceStaff(ctx context.Context, a policy.Actor) ([]models.User, error) {
	if !a.IsManager() {
		return nil, forbidden("list maintenance staff")
	}
	staff, err := s.users.ListByRole(ctx, models.RoleStaff, models.StatusActive)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		staff = []models.User{}
	}
	return staff, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, a policy.Actor, id, name, phone string) (*models.User, error) {
	if a.ID != id {
		return nil, forbidden("update this profile")
	}
	name, phone = strings.TrimSpace(name), strings.TrimSpace(phone)
	v := validator{}
	v.check(name != "", "name", "name is required")
	v.check(len(name) <= 50, "name", "name cannot be more than 50 characters")
	v.check(phone == "" || phoneRe.MatchString(phone), "phone", "phone must be 10 digits")
	if err := v.err(); err != nil {
		return nil, err
	}
	u, err := s.users.UpdateBasic(ctx, id, name, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("user")
	}
	return u, err
}

func (s *UserService) ChangePassword(ctx context.Context, a policy.Actor, id, current, next string) error {
	if a.ID != id {
		return forbidden("change this password")
	}
	if len(next) < 6 {
		return &ValidationError{Fields: map[string]string{"newPassword": "password must be at least 6 characters"}}
	}
	hash, err := s.users.PasswordHash(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("user")
	}
	if err != nil {
		return err
	}
	if !utils.CheckPassword(hash, current) {
		return ErrInvalidCredentials
	}
	nh, err := utils.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, id, nh)
}

// SetStatus is an operator action (CLI); it bypasses actor checks.
func (s *UserService) SetStatus(ctx context.Context, id, status string) (*models.User, error) {
	if !oneOf(status, models.StatusActive, models.StatusInactive) {
		return nil, &ValidationError{Fields: map[string]string{"status": "status must be active or inactive"}}
	}
	u, err := s.users.SetStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("user")
	}
	return u, err
}
