package repositories

import (
	"context"
	"errors"

	"shophub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByMobile(ctx context.Context, mobile string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	SetVerified(ctx context.Context, userID string) error
	SetRefreshToken(ctx context.Context, userID, hashedToken string) error
	UpdateStatus(ctx context.Context, userID string, status models.UserStatus) error

	CreateDocument(ctx context.Context, doc *models.UserDocument) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	db := dbFromContext(ctx, r.db)

	var user models.User
	err := db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByMobile(ctx context.Context, mobile string) (*models.User, error) {
	db := dbFromContext(ctx, r.db)

	var user models.User
	err := db.WithContext(ctx).First(&user, "mobile = ?", mobile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) SetVerified(ctx context.Context, userID string) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_verified", true).Error
}

func (r *userRepository) SetRefreshToken(ctx context.Context, userID, hashedToken string) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", hashedToken).Error
}

func (r *userRepository) UpdateStatus(ctx context.Context, userID string, status models.UserStatus) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("status", status).Error
}

func (r *userRepository) CreateDocument(ctx context.Context, doc *models.UserDocument) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Create(doc).Error
}
