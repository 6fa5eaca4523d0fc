// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dkovalyov/revory/internal/platform/apperr"
	"github.com/dkovalyov/revory/internal/platform/dberr"
	"github.com/dkovalyov/revory/internal/platform/sec"
	"github.com/dkovalyov/revory/internal/platform/validate"
	"github.com/dkovalyov/revory/internal/users/auth"
	"github.com/dkovalyov/revory/pkg/pagination"
	"github.com/dkovalyov/revory/pkg/uuid"
)

const (
	maxUsernameLen = 150
	maxEmailLen    = 254
	maxNameLen     = 150
)

type Service struct {
	repo   AccountRepository
	logger *slog.Logger
}

func NewService(repo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput is the admin payload for provisioning an account directly,
// bypassing the signup flow.
type CreateInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

// UpdateInput is a partial admin edit. Nil fields are left unchanged.
type UpdateInput struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// ProfileUpdateInput is the self-service edit. It deliberately has no role
// field; the stored role is pinned on this path.
type ProfileUpdateInput struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

// # Directory (admin)

func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*auth.User, pagination.Meta, error) {
	users, total, err := service.repo.List(context, search, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	if err := validateIdentity(input.Username, input.Email, input.FirstName, input.LastName, &input.Role); err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
	}

	if err := service.repo.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "account_created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}
	return user, nil
}

func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.Get(context, username)
	if err != nil {
		return nil, err
	}

	applyProfileFields(user, ProfileUpdateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})
	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}

	role := string(user.Role)
	if err := validateIdentity(user.Username, user.Email, user.FirstName, user.LastName, &role); err != nil {
		return nil, err
	}

	// An identity change here implicitly invalidates any confirmation code
	// issued against the previous account state.
	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "account_updated", slog.String("user_id", user.ID))
	return user, nil
}

func (service *Service) Delete(context context.Context, username string) error {
	if err := service.repo.DeleteByUsername(context, username); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("User")
		}
		return err
	}

	service.logger.InfoContext(context, "account_deleted", slog.String("username", username))
	return nil
}

// # Self-service profile

func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.repo.FindByID(context, userID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}
	return user, nil
}

func (service *Service) UpdateProfile(context context.Context, userID string, input ProfileUpdateInput) (*auth.User, error) {
	user, err := service.GetProfile(context, userID)
	if err != nil {
		return nil, err
	}

	applyProfileFields(user, input)

	if err := validateIdentity(user.Username, user.Email, user.FirstName, user.LastName, nil); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "profile_updated", slog.String("user_id", user.ID))
	return user, nil
}

func applyProfileFields(user *auth.User, input ProfileUpdateInput) {
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
}

// validateIdentity checks the shared account constraints. A nil role skips
// role validation (self-service path).
func validateIdentity(username, email, firstName, lastName string, role *string) error {
	validator := &validate.Validator{}
	validator.
		Required("username", username).
		MaxLen("username", username, maxUsernameLen).
		Username("username", username).
		Custom("username", username == "me", "this username is reserved").
		Required("email", email).
		MaxLen("email", email, maxEmailLen).
		Email("email", email).
		MaxLen("first_name", firstName, maxNameLen).
		MaxLen("last_name", lastName, maxNameLen)

	if role != nil {
		validator.Custom("role", !sec.UserRole(*role).Valid(), "must be one of: user, moderator, admin")
	}

	return validator.Err()
}
