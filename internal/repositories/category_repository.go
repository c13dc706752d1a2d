package repositories

import (
	"context"
	"errors"

	"shophub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Save(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	FindTree(ctx context.Context, onlyVisible bool) ([]models.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Save(ctx context.Context, category *models.Category) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	db := dbFromContext(ctx, r.db)

	var category models.Category
	err := db.WithContext(ctx).
		Preload("Subcategories").
		Where("id = ?", id).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := dbFromContext(ctx, r.db)

	var categories []models.Category
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	db := dbFromContext(ctx, r.db)

	var category models.Category
	err := db.WithContext(ctx).
		Preload("Subcategories").
		Where("slug = ?", slug).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	db := dbFromContext(ctx, r.db)

	var count int64
	err := db.WithContext(ctx).
		Model(&models.Category{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindTree возвращает корневые категории с подкатегориями
func (r *categoryRepository) FindTree(ctx context.Context, onlyVisible bool) ([]models.Category, error) {
	db := dbFromContext(ctx, r.db)

	query := db.WithContext(ctx).Where("parent_id IS NULL")
	if onlyVisible {
		query = query.Where("show = ?", true).
			Preload("Subcategories", "show = ?", true)
	} else {
		query = query.Preload("Subcategories")
	}

	var categories []models.Category
	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	db := dbFromContext(ctx, r.db)

	result := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
