package repositories

import (
	"context"
	"errors"
	"time"

	"shophub_backend/internal/models"
	"shophub_backend/pkg/pagination"

	"gorm.io/gorm"
)

var ErrBlogNotFound = errors.New("blog not found")

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	Save(ctx context.Context, blog *models.Blog) error
	FindByID(ctx context.Context, id string) (*models.Blog, error)
	FindBySlug(ctx context.Context, slug string) (*models.Blog, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	FindPage(ctx context.Context, status models.BlogStatus, p pagination.Params) ([]models.Blog, int64, error)
	ReplaceCategories(ctx context.Context, blogID string, categoryIDs []string) error
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Create(blog).Error
}

func (r *blogRepository) Save(ctx context.Context, blog *models.Blog) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Save(blog).Error
}

func (r *blogRepository) FindByID(ctx context.Context, id string) (*models.Blog, error) {
	db := dbFromContext(ctx, r.db)

	var blog models.Blog
	err := db.WithContext(ctx).
		Preload("Categories", "deleted_at IS NULL").
		Preload("Categories.Category").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&blog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) FindBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	db := dbFromContext(ctx, r.db)

	var blog models.Blog
	err := db.WithContext(ctx).
		Preload("Categories", "deleted_at IS NULL").
		Preload("Categories.Category").
		Where("slug = ? AND deleted_at IS NULL", slug).
		First(&blog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	db := dbFromContext(ctx, r.db)

	var count int64
	err := db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("slug = ? AND deleted_at IS NULL", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *blogRepository) FindPage(ctx context.Context, status models.BlogStatus, p pagination.Params) ([]models.Blog, int64, error) {
	db := dbFromContext(ctx, r.db)

	query := db.WithContext(ctx).Model(&models.Blog{}).Where("deleted_at IS NULL")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blogs []models.Blog
	err := query.
		Preload("Categories", "deleted_at IS NULL").
		Preload("Categories.Category").
		Order("created_at DESC").
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func (r *blogRepository) ReplaceCategories(ctx context.Context, blogID string, categoryIDs []string) error {
	db := dbFromContext(ctx, r.db)

	err := db.WithContext(ctx).
		Model(&models.BlogCategory{}).
		Where("blog_id = ? AND deleted_at IS NULL", blogID).
		Update("deleted_at", time.Now()).Error
	if err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}

	links := make([]models.BlogCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		links = append(links, models.BlogCategory{
			BlogID:     blogID,
			CategoryID: categoryID,
		})
	}
	return db.WithContext(ctx).Create(&links).Error
}

// SoftDelete помечает удаленными запись и ее связки с категориями
func (r *blogRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	db := dbFromContext(ctx, r.db)

	result := db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", deletedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return db.WithContext(ctx).
		Model(&models.BlogCategory{}).
		Where("blog_id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", deletedAt).Error
}
