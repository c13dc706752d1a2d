package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shophub_backend/internal/imageprocessor"
	"shophub_backend/internal/logger"
	"shophub_backend/internal/models"
	"shophub_backend/internal/repositories"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/storage"
	"shophub_backend/pkg/apperrors"
)

// ============================================
// СЕРВИС КАТЕГОРИЙ
// ============================================

type CategoryService interface {
	Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, categoryID string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	FindByID(ctx context.Context, categoryID string) (*dto.CategoryResponse, error)
	FindBySlug(ctx context.Context, slug string) (*dto.CategoryResponse, error)
	// FindTree возвращает дерево категорий; для публичной выдачи
	// скрытые узлы отфильтрованы
	FindTree(ctx context.Context, onlyVisible bool) ([]dto.CategoryResponse, error)
	Delete(ctx context.Context, categoryID string) error
}

type categoryService struct {
	categoryRepo   repositories.CategoryRepository
	store          storage.Storage
	images         *imageprocessor.Processor
	storageTimeout time.Duration
}

func NewCategoryService(
	categoryRepo repositories.CategoryRepository,
	store storage.Storage,
	images *imageprocessor.Processor,
	storageTimeout time.Duration,
) CategoryService {
	if storageTimeout <= 0 {
		storageTimeout = 30 * time.Second
	}
	return &categoryService{
		categoryRepo:   categoryRepo,
		store:          store,
		images:         images,
		storageTimeout: storageTimeout,
	}
}

func (s *categoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if req.ParentID != "" {
		if _, err := s.categoryRepo.FindByID(ctx, req.ParentID); err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return nil, apperrors.NewBadRequestError("parent category does not exist")
			}
			return nil, apperrors.ErrDatabaseUnavailable(err)
		}
	}

	slug, err := s.uniqueSlug(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	show := true
	if req.Show != nil {
		show = *req.Show
	}
	category := &models.Category{
		Name: req.Name,
		Slug: slug,
		Show: show,
	}
	if req.ParentID != "" {
		category.ParentID = &req.ParentID
	}

	if req.Image != nil {
		res, err := s.putImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		category.Image = res.URL
		category.ImageKey = res.Key
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	logger.CtxInfo(ctx, "category created", "category_id", category.ID, "slug", category.Slug)
	return categoryToResponse(category), nil
}

func (s *categoryService) Update(ctx context.Context, categoryID string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.findCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		category.Name = *req.Name
		slug, err := s.uniqueSlug(ctx, category.Name)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}
	if req.Show != nil {
		category.Show = *req.Show
	}

	var supersededKey string
	if req.Image != nil {
		res, err := s.putImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		supersededKey = category.ImageKey
		category.Image = res.URL
		category.ImageKey = res.Key
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
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
	return categoryToResponse(category), nil
}

func (s *categoryService) FindByID(ctx context.Context, categoryID string) (*dto.CategoryResponse, error) {
	category, err := s.findCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return categoryToResponse(category), nil
}

func (s *categoryService) FindBySlug(ctx context.Context, slug string) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return categoryToResponse(category), nil
}

func (s *categoryService) FindTree(ctx context.Context, onlyVisible bool) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.FindTree(ctx, onlyVisible)
	if err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *categoryToResponse(&categories[i]))
	}
	return responses, nil
}

func (s *categoryService) Delete(ctx context.Context, categoryID string) error {
	category, err := s.findCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if len(category.Subcategories) > 0 {
		return apperrors.NewBadRequestError("category still has subcategories")
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.ErrDatabaseUnavailable(err)
	}
	return nil
}

func (s *categoryService) findCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return category, nil
}

func (s *categoryService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slugify(name)
	slug := base
	for i := 2; ; i++ {
		exists, err := s.categoryRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", apperrors.ErrDatabaseUnavailable(err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *categoryService) putImage(ctx context.Context, image dto.UploadedFile) (*storage.PutResult, error) {
	if !strings.HasPrefix(image.MimeType, "image/") {
		return nil, apperrors.ErrInvalidFile([]dto.FileRejection{{
			Filename: image.Filename,
			Reason:   "category image must be an image",
		}})
	}
	normalized, err := s.images.Normalize(image.Reader)
	if err != nil {
		return nil, apperrors.ErrInvalidFile([]dto.FileRejection{{
			Filename: image.Filename,
			Reason:   "file is not a valid image",
		}})
	}
	putCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	res, err := s.store.Put(putCtx, normalized, "category_images", image.Filename, image.MimeType)
	if err != nil {
		return nil, apperrors.ErrStorageUnavailable(err)
	}
	return res, nil
}

func categoryToResponse(category *models.Category) *dto.CategoryResponse {
	resp := &dto.CategoryResponse{
		ID:    category.ID,
		Name:  category.Name,
		Slug:  category.Slug,
		Image: category.Image,
		Show:  category.Show,
	}
	if category.ParentID != nil {
		resp.ParentID = *category.ParentID
	}
	for i := range category.Subcategories {
		resp.Subcategories = append(resp.Subcategories, *categoryToResponse(&category.Subcategories[i]))
	}
	return resp
}
