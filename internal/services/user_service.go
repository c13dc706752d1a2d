package services

import (
	"context"
	"errors"
	"time"

	"shophub_backend/internal/logger"
	"shophub_backend/internal/models"
	"shophub_backend/internal/repositories"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/storage"
	"shophub_backend/pkg/apperrors"
)

// ============================================
// СЕРВИС ПОЛЬЗОВАТЕЛЕЙ
// ============================================

// Цепочка статусов пользователя при сборе документов:
// registered -> upload_information / uploaded_national_card ->
// uploaded_all_documents -> verified (последний шаг - административный)
type UserService interface {
	FindByID(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateIdentity(ctx context.Context, userID string, req *dto.UpdateIdentityRequest) (*dto.UserResponse, error)
	UploadNationalCard(ctx context.Context, userID string, file dto.UploadedFile) (*dto.UserResponse, error)
}

type userService struct {
	userRepo       repositories.UserRepository
	store          storage.Storage
	tx             repositories.TxManager
	storageTimeout time.Duration
}

func NewUserService(
	userRepo repositories.UserRepository,
	store storage.Storage,
	tx repositories.TxManager,
	storageTimeout time.Duration,
) UserService {
	if storageTimeout <= 0 {
		storageTimeout = 30 * time.Second
	}
	return &userService{
		userRepo:       userRepo,
		store:          store,
		tx:             tx,
		storageTimeout: storageTimeout,
	}
}

func (s *userService) FindByID(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func (s *userService) UpdateIdentity(ctx context.Context, userID string, req *dto.UpdateIdentityRequest) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.RealName = req.RealName
	user.RealFamily = req.RealFamily
	user.Status = nextUserStatus(user.Status, models.UserStatusUploadInformation)

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return userToResponse(user), nil
}

func (s *userService) UploadNationalCard(ctx context.Context, userID string, file dto.UploadedFile) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !isAllowedDocumentMime(file.MimeType) {
		return nil, apperrors.ErrInvalidFile([]dto.FileRejection{{
			Filename: file.Filename,
			Reason:   "only jpeg, png or pdf documents are accepted",
		}})
	}

	putCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	res, err := s.store.Put(putCtx, file.Reader, "user_docs", file.Filename, file.MimeType)
	if err != nil {
		return nil, apperrors.ErrStorageUnavailable(err)
	}

	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		doc := &models.UserDocument{
			UserID:       userID,
			FileURL:      res.URL,
			DocumentType: models.UserDocumentNationalCard,
			IsActive:     true,
		}
		if err := s.userRepo.CreateDocument(txCtx, doc); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}

		user.Status = nextUserStatus(user.Status, models.UserStatusUploadedNationalCard)
		if err := s.userRepo.UpdateStatus(txCtx, userID, user.Status); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	logger.CtxInfo(ctx, "national card uploaded", "user_id", userID, "status", user.Status)
	return userToResponse(user), nil
}

// nextUserStatus сводит два независимых шага (анкета и скан карты)
// к общей цепочке: когда выполнены оба, статус становится
// uploaded_all_documents. Статус verified не перезаписывается.
func nextUserStatus(current models.UserStatus, step models.UserStatus) models.UserStatus {
	if current == models.UserStatusVerified || current == models.UserStatusUploadedAllDocuments {
		return current
	}
	switch step {
	case models.UserStatusUploadInformation:
		if current == models.UserStatusUploadedNationalCard {
			return models.UserStatusUploadedAllDocuments
		}
		return models.UserStatusUploadInformation
	case models.UserStatusUploadedNationalCard:
		if current == models.UserStatusUploadInformation {
			return models.UserStatusUploadedAllDocuments
		}
		return models.UserStatusUploadedNationalCard
	}
	return current
}

func isAllowedDocumentMime(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/jpg", "image/png", "application/pdf":
		return true
	}
	return false
}

func (s *userService) findUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return user, nil
}

func userToResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         user.ID,
		Mobile:     user.Mobile,
		IsVerified: user.IsVerified,
		RealName:   user.RealName,
		RealFamily: user.RealFamily,
		Status:     user.Status,
		CreatedAt:  user.CreatedAt,
	}
}
