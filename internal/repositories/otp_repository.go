package repositories

import (
	"context"
	"errors"
	"time"

	"shophub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOtpNotFound = errors.New("otp not found")
)

type OtpRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Otp, error)
	Save(ctx context.Context, otp *models.Otp) error
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired чистит истекшие коды; возвращает число удаленных строк
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type otpRepository struct {
	db *gorm.DB
}

func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) FindByUserID(ctx context.Context, userID string) (*models.Otp, error) {
	db := dbFromContext(ctx, r.db)

	var otp models.Otp
	err := db.WithContext(ctx).First(&otp, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOtpNotFound
		}
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) Save(ctx context.Context, otp *models.Otp) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Save(otp).Error
}

func (r *otpRepository) DeleteByID(ctx context.Context, id string) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Delete(&models.Otp{}, "id = ?", id).Error
}

func (r *otpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	db := dbFromContext(ctx, r.db)
	result := db.WithContext(ctx).Delete(&models.Otp{}, "expires_at < ?", now)
	return result.RowsAffected, result.Error
}
