package repositories

import (
	"context"
	"errors"

	"shophub_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrShopNotFound         = errors.New("shop not found")
	ErrShopLocationNotFound = errors.New("shop location not found")
)

type ShopRepository interface {
	FindByID(ctx context.Context, id string) (*models.Shop, error)
	// FindByIDForUpdate берет строку магазина под блокировку FOR UPDATE.
	// Вызывается только внутри транзакции.
	FindByIDForUpdate(ctx context.Context, id string) (*models.Shop, error)
	FindByName(ctx context.Context, name string) (*models.Shop, error)
	Create(ctx context.Context, shop *models.Shop) error
	Save(ctx context.Context, shop *models.Shop) error
	UpdateVerificationStatus(ctx context.Context, shopID string, status models.VerificationStatus) error

	FindUserShops(ctx context.Context, userID string) ([]models.ShopUserRole, int64, error)

	UpsertLocation(ctx context.Context, location *models.ShopLocation) error
	FindLocation(ctx context.Context, shopID string) (*models.ShopLocation, error)
}

type shopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) FindByID(ctx context.Context, id string) (*models.Shop, error) {
	db := dbFromContext(ctx, r.db)

	var shop models.Shop
	err := db.WithContext(ctx).First(&shop, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Shop, error) {
	db := dbFromContext(ctx, r.db)

	var shop models.Shop
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&shop, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) FindByName(ctx context.Context, name string) (*models.Shop, error) {
	db := dbFromContext(ctx, r.db)

	var shop models.Shop
	err := db.WithContext(ctx).First(&shop, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) Create(ctx context.Context, shop *models.Shop) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Create(shop).Error
}

func (r *shopRepository) Save(ctx context.Context, shop *models.Shop) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Save(shop).Error
}

func (r *shopRepository) UpdateVerificationStatus(ctx context.Context, shopID string, status models.VerificationStatus) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shopID).
		Update("verification_status", status).Error
}

// FindUserShops возвращает назначения ролей пользователя вместе с магазинами
// и их активными логотипами
func (r *shopRepository) FindUserShops(ctx context.Context, userID string) ([]models.ShopUserRole, int64, error) {
	db := dbFromContext(ctx, r.db)

	var assignments []models.ShopUserRole
	err := db.WithContext(ctx).
		Preload("Role").
		Preload("Shop.Files", "file_type = ? AND is_active = ? AND deleted_at IS NULL",
			models.FileTypeLogo, true).
		Where("user_id = ? AND shop_id <> ''", userID).
		Find(&assignments).Error
	if err != nil {
		return nil, 0, err
	}
	return assignments, int64(len(assignments)), nil
}

func (r *shopRepository) UpsertLocation(ctx context.Context, location *models.ShopLocation) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shop_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"city", "lat", "lng", "address_details", "updated_at"}),
		}).
		Create(location).Error
}

func (r *shopRepository) FindLocation(ctx context.Context, shopID string) (*models.ShopLocation, error) {
	db := dbFromContext(ctx, r.db)

	var location models.ShopLocation
	err := db.WithContext(ctx).First(&location, "shop_id = ?", shopID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopLocationNotFound
		}
		return nil, err
	}
	return &location, nil
}
