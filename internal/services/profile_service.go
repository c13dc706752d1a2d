package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"shophub_backend/internal/imageprocessor"
	"shophub_backend/internal/logger"
	"shophub_backend/internal/models"
	"shophub_backend/internal/repositories"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/storage"
	"shophub_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// ============================================
// СЕРВИС ПРОФИЛЕЙ
// ============================================

type ProfileService interface {
	// FindByUserID возвращает профиль пользователя; строка создается
	// лениво со сгенерированным username
	FindByUserID(ctx context.Context, userID string) (*dto.ProfileResponse, error)

	// Update меняет username (с проверкой занятости), bio, дату рождения
	// и аватар; вытесненный аватар удаляется из хранилища
	Update(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	profileRepo    repositories.ProfileRepository
	userRepo       repositories.UserRepository
	store          storage.Storage
	images         *imageprocessor.Processor
	storageTimeout time.Duration
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	store storage.Storage,
	images *imageprocessor.Processor,
	storageTimeout time.Duration,
) ProfileService {
	if storageTimeout <= 0 {
		storageTimeout = 30 * time.Second
	}
	return &profileService{
		profileRepo:    profileRepo,
		userRepo:       userRepo,
		store:          store,
		images:         images,
		storageTimeout: storageTimeout,
	}
}

func (s *profileService) FindByUserID(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileToResponse(profile), nil
}

func (s *profileService) Update(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Замена аватара - вытесненный блоб больше никому не принадлежит
	// и удаляется из хранилища после сохранения строки
	var supersededKey string
	if req.Avatar != nil {
		res, err := s.putAvatar(ctx, *req.Avatar)
		if err != nil {
			return nil, err
		}
		supersededKey = profile.AvatarKey
		profile.Avatar = res.URL
		profile.AvatarKey = res.Key
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != "" && username != profile.Username {
			taken, err := s.profileRepo.FindByUsername(ctx, username)
			if err != nil && !errors.Is(err, repositories.ErrProfileNotFound) {
				return nil, apperrors.ErrDatabaseUnavailable(err)
			}
			if taken != nil && taken.ID != profile.ID {
				return nil, apperrors.ErrConflict(nil, "profile", "Username already exists")
			}
			profile.Username = username
		}
	}
	if req.Bio != nil && strings.TrimSpace(*req.Bio) != "" {
		profile.Bio = *req.Bio
	}
	if req.Birthday != nil {
		birthday, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return nil, apperrors.NewBadRequestError("birthday must be a YYYY-MM-DD date")
		}
		profile.Birthday = &birthday
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	if supersededKey != "" {
		go func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), s.storageTimeout)
			defer cancel()
			if err := s.store.Delete(cleanupCtx, supersededKey); err != nil {
				logger.Warn("superseded blob cleanup failed", "key", supersededKey, "error", err)
			}
		}()
	}

	logger.CtxInfo(ctx, "profile updated", "user_id", userID, "profile_id", profile.ID)
	return profileToResponse(profile), nil
}

// getOrCreate находит профиль пользователя; при отсутствии строки
// профиль создается для существующего пользователя
func (s *profileService) getOrCreate(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	profile = &models.Profile{
		UserID:   userID,
		Username: defaultUsername(),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	logger.CtxInfo(ctx, "profile created", "user_id", userID, "username", profile.Username)
	return profile, nil
}

// defaultUsername дает служебное имя до первого выбора пользователем
func defaultUsername() string {
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func (s *profileService) putAvatar(ctx context.Context, avatar dto.UploadedFile) (*storage.PutResult, error) {
	if !strings.HasPrefix(avatar.MimeType, "image/") {
		return nil, apperrors.ErrInvalidFile([]dto.FileRejection{{
			Filename: avatar.Filename,
			Reason:   "avatar must be an image",
		}})
	}
	normalized, err := s.images.Normalize(avatar.Reader)
	if err != nil {
		return nil, apperrors.ErrInvalidFile([]dto.FileRejection{{
			Filename: avatar.Filename,
			Reason:   "file is not a valid image",
		}})
	}
	putCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	res, err := s.store.Put(putCtx, normalized, "profile_avatars", avatar.Filename, avatar.MimeType)
	if err != nil {
		return nil, apperrors.ErrStorageUnavailable(err)
	}
	return res, nil
}

func profileToResponse(profile *models.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:        profile.ID,
		UserID:    profile.UserID,
		Username:  profile.Username,
		Bio:       profile.Bio,
		Birthday:  profile.Birthday,
		Avatar:    profile.Avatar,
		CreatedAt: profile.CreatedAt,
	}
}
