package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/skosana/student-portal/internal/app/models/dto"
	"github.com/skosana/student-portal/internal/app/repositories"
	"github.com/skosana/student-portal/internal/pkg/apperrors"
	"github.com/skosana/student-portal/internal/pkg/filestorage"
	"github.com/skosana/student-portal/internal/pkg/validation"
)

// Picture upload rejection messages.
const (
	MsgNotAnImage     = "File is not an image."
	MsgFileTooLarge   = "Sorry, your file is too large."
	MsgBadFileType    = "Sorry, only JPG, JPEG, PNG & GIF files are allowed."
	MsgProfileUpdated = "Profile updated successfully!"
	MsgPictureUpdated = "Profile picture updated successfully!"
)

// ProfileService handles profile display, field updates and picture uploads.
type ProfileService struct {
	userRepo repositories.UserRepository
	storage  *filestorage.LocalStorage
	logger   zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo repositories.UserRepository, storage *filestorage.LocalStorage, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		storage:  storage,
		logger:   logger,
	}
}

// GetProfile re-fetches the user row so the returned data always reflects
// the latest store state.
func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to fetch profile")
		return nil, apperrors.NewStoreError(err)
	}

	return &dto.ProfileResponse{
		Name:           user.Name,
		Surname:        user.Surname,
		Email:          user.Email,
		ContactNum:     user.ContactNum,
		ModuleCode:     user.ModuleCode,
		ProfilePicture: s.storage.ResolvePicture(user.ProfilePicture),
	}, nil
}

// UpdateProfile validates and applies the editable profile fields for the
// session's user. Contact number is optional; the rest are required.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (dto.FormResult, error) {
	var errs validation.ErrorList

	req.Name = validation.Required(&errs, req.Name, "Name")
	req.Surname = validation.Required(&errs, req.Surname, "Surname")
	req.ContactNum = validation.Optional(req.ContactNum)
	req.ModuleCode = validation.Required(&errs, req.ModuleCode, "Module code")

	if !errs.Empty() {
		return dto.Rerender(errs.Messages(), req.Fields()), nil
	}

	err := s.userRepo.UpdateProfile(ctx, userID, req.Name, req.Surname, req.ContactNum, req.ModuleCode)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to update profile")
		return dto.FormResult{}, apperrors.NewStoreError(err)
	}

	return dto.Success(MsgProfileUpdated), nil
}

// UpdatePicture validates, stores and records an uploaded profile picture.
// A rejected upload re-renders with one message per failed check.
func (s *ProfileService) UpdatePicture(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (dto.FormResult, error) {
	path, err := s.storage.SavePicture(userID, fileHeader)
	if err != nil {
		var msgs []string
		if errors.Is(err, apperrors.ErrNotAnImage) {
			msgs = append(msgs, MsgNotAnImage)
		}
		if errors.Is(err, apperrors.ErrFileTooLarge) {
			msgs = append(msgs, MsgFileTooLarge)
		}
		if errors.Is(err, apperrors.ErrBadFileType) {
			msgs = append(msgs, MsgBadFileType)
		}
		if len(msgs) > 0 {
			return dto.Rerender(msgs, nil), nil
		}
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to store picture")
		return dto.FormResult{}, apperrors.NewStoreError(err)
	}

	if err := s.userRepo.UpdateProfilePicture(ctx, userID, path); err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to record picture path")
		return dto.FormResult{}, apperrors.NewStoreError(err)
	}

	s.logger.Info().Int64("userID", userID).Str("path", path).Msg("Profile picture updated")
	return dto.Success(MsgPictureUpdated), nil
}
