package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/skosana/student-portal/internal/app/models"
	"github.com/skosana/student-portal/internal/app/models/dto"
	"github.com/skosana/student-portal/internal/app/repositories"
	"github.com/skosana/student-portal/internal/pkg/apperrors"
	"github.com/skosana/student-portal/internal/pkg/auth"
	"github.com/skosana/student-portal/internal/pkg/validation"
)

// Messages shown to the user. Login failures share one generic message so
// the response never discloses whether the email exists.
const (
	MsgInvalidLogin  = "Invalid email or password."
	MsgAccountExists = "An account with this email or student number already exists."
)

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo repositories.UserRepository
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register validates the registration form, checks uniqueness, hashes the
// password and inserts the user. Validation runs to completion so every
// problem is reported at once. The returned error is reserved for store
// failures; user-correctable problems come back as a re-render result.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (dto.FormResult, error) {
	var errs validation.ErrorList

	req.Name = validation.Required(&errs, req.Name, "Name")
	req.Surname = validation.Required(&errs, req.Surname, "Surname")
	req.StudentNum = validation.Required(&errs, req.StudentNum, "Student Number")
	req.ContactNum = validation.Optional(req.ContactNum)
	req.ModuleCode = validation.Required(&errs, req.ModuleCode, "Module Code")
	req.Email = validation.Email(&errs, req.Email)
	req.Password = validation.Password(&errs, req.Password, req.ConfirmPassword)

	if !errs.Empty() {
		return dto.Rerender(errs.Messages(), req.Fields()), nil
	}

	exists, err := s.userRepo.ExistsByEmailOrStudentNum(ctx, req.Email, req.StudentNum)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to check account existence")
		return dto.FormResult{}, apperrors.NewStoreError(err)
	}
	if exists {
		errs.Add(MsgAccountExists)
		return dto.Rerender(errs.Messages(), req.Fields()), nil
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return dto.FormResult{}, apperrors.NewStoreError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Surname:      req.Surname,
		StudentNum:   req.StudentNum,
		ContactNum:   req.ContactNum,
		ModuleCode:   req.ModuleCode,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The existence check and the insert are separate statements,
		// so a concurrent registration can still hit the unique
		// constraint. Treat that as the authoritative uniqueness
		// failure, not a crash.
		if errors.Is(err, apperrors.ErrAccountExists) {
			errs.Add(MsgAccountExists)
			return dto.Rerender(errs.Messages(), req.Fields()), nil
		}
		s.logger.Error().Err(err).Msg("Failed to create user")
		return dto.FormResult{}, apperrors.NewStoreError(err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("User registered")
	return dto.Redirect("/login"), nil
}

// Login verifies credentials. Unknown email and wrong password both produce
// the identical generic re-render result. On success the matched user is
// returned so the caller can start a session.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, dto.FormResult, error) {
	var errs validation.ErrorList

	req.Email = validation.Required(&errs, req.Email, "Email")
	req.Password = validation.Required(&errs, req.Password, "Password")
	if !errs.Empty() {
		return nil, dto.Rerender(errs.Messages(), req.Fields()), nil
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, dto.Rerender([]string{MsgInvalidLogin}, req.Fields()), nil
		}
		s.logger.Error().Err(err).Msg("Failed to fetch user for login")
		return nil, dto.FormResult{}, apperrors.NewStoreError(err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, dto.Rerender([]string{MsgInvalidLogin}, req.Fields()), nil
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return user, dto.Redirect("/profile"), nil
}
