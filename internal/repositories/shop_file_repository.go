package repositories

import (
	"context"
	"time"

	"shophub_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShopFileRepository - доступ к строкам shop_files.
// Все выборки явно исключают мягко удаленные строки условием
// deleted_at IS NULL; скрытых фильтров ORM здесь нет.
type ShopFileRepository interface {
	CreateBatch(ctx context.Context, files []*models.ShopFile) error

	// CountNonDeleted считает неудаленные строки пары (shop, type)
	CountNonDeleted(ctx context.Context, shopID string, fileType models.FileType) (int64, error)

	// FindByIDsForShop возвращает неудаленные строки магазина по списку id.
	// forUpdate берет строки под блокировку (только внутри транзакции).
	FindByIDsForShop(ctx context.Context, shopID string, ids []string, forUpdate bool) ([]models.ShopFile, error)

	// FindActive возвращает активные неудаленные строки пары (shop, type)
	FindActive(ctx context.Context, shopID string, fileType models.FileType, forUpdate bool) ([]models.ShopFile, error)

	SetActive(ctx context.Context, ids []string, active bool) error
	SoftDelete(ctx context.Context, ids []string, deletedAt time.Time) error

	FindByShopAndType(ctx context.Context, shopID string, fileType models.FileType) ([]models.ShopFile, error)
}

type shopFileRepository struct {
	db *gorm.DB
}

func NewShopFileRepository(db *gorm.DB) ShopFileRepository {
	return &shopFileRepository{db: db}
}

func (r *shopFileRepository) CreateBatch(ctx context.Context, files []*models.ShopFile) error {
	if len(files) == 0 {
		return nil
	}
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Create(files).Error
}

func (r *shopFileRepository) CountNonDeleted(ctx context.Context, shopID string, fileType models.FileType) (int64, error) {
	db := dbFromContext(ctx, r.db)

	var count int64
	err := db.WithContext(ctx).
		Model(&models.ShopFile{}).
		Where("shop_id = ? AND file_type = ? AND deleted_at IS NULL", shopID, fileType).
		Count(&count).Error
	return count, err
}

func (r *shopFileRepository) FindByIDsForShop(ctx context.Context, shopID string, ids []string, forUpdate bool) ([]models.ShopFile, error) {
	db := dbFromContext(ctx, r.db)

	query := db.WithContext(ctx).
		Where("id IN ? AND shop_id = ? AND deleted_at IS NULL", ids, shopID)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var files []models.ShopFile
	if err := query.Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *shopFileRepository) FindActive(ctx context.Context, shopID string, fileType models.FileType, forUpdate bool) ([]models.ShopFile, error) {
	db := dbFromContext(ctx, r.db)

	query := db.WithContext(ctx).
		Where("shop_id = ? AND file_type = ? AND is_active = ? AND deleted_at IS NULL",
			shopID, fileType, true)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var files []models.ShopFile
	if err := query.Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *shopFileRepository) SetActive(ctx context.Context, ids []string, active bool) error {
	if len(ids) == 0 {
		return nil
	}
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).
		Model(&models.ShopFile{}).
		Where("id IN ?", ids).
		Update("is_active", active).Error
}

// SoftDelete проставляет deleted_at; is_active сознательно не трогаем -
// удаленные строки и так исключены из всех подсчетов
func (r *shopFileRepository) SoftDelete(ctx context.Context, ids []string, deletedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).
		Model(&models.ShopFile{}).
		Where("id IN ? AND deleted_at IS NULL", ids).
		Update("deleted_at", deletedAt).Error
}

func (r *shopFileRepository) FindByShopAndType(ctx context.Context, shopID string, fileType models.FileType) ([]models.ShopFile, error) {
	db := dbFromContext(ctx, r.db)

	var files []models.ShopFile
	err := db.WithContext(ctx).
		Where("shop_id = ? AND file_type = ? AND deleted_at IS NULL", shopID, fileType).
		Order("created_at ASC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}
