package repositories

import (
	"context"
	"errors"

	"shophub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	FindByUsername(ctx context.Context, username string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Save(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	db := dbFromContext(ctx, r.db)

	var profile models.Profile
	err := db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByUsername(ctx context.Context, username string) (*models.Profile, error) {
	db := dbFromContext(ctx, r.db)

	var profile models.Profile
	err := db.WithContext(ctx).First(&profile, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) Save(ctx context.Context, profile *models.Profile) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Save(profile).Error
}
