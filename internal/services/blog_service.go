package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"shophub_backend/internal/auth"
	"shophub_backend/internal/imageprocessor"
	"shophub_backend/internal/logger"
	"shophub_backend/internal/models"
	"shophub_backend/internal/repositories"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/storage"
	"shophub_backend/pkg/apperrors"
	"shophub_backend/pkg/pagination"
)

// ============================================
// СЕРВИС БЛОГА
// ============================================

type BlogService interface {
	// Create генерирует слаг из заголовка (с числовым суффиксом при
	// конфликте), грузит обложку в хранилище и привязывает категории
	Create(ctx context.Context, shopID string, req *dto.CreateBlogRequest, principal auth.Principal) (*dto.BlogResponse, error)
	Update(ctx context.Context, blogID string, req *dto.UpdateBlogRequest, principal auth.Principal) (*dto.BlogResponse, error)
	FindByID(ctx context.Context, blogID string) (*dto.BlogResponse, error)
	FindBySlug(ctx context.Context, slug string) (*dto.BlogResponse, error)
	FindAll(ctx context.Context, status models.BlogStatus, page, limit int) (*dto.BlogListResponse, error)

	// SoftDelete помечает запись и связки с категориями; автор или
	// платформенный администратор
	SoftDelete(ctx context.Context, blogID string, principal auth.Principal, isAdmin bool) error
}

type blogService struct {
	blogRepo       repositories.BlogRepository
	categoryRepo   repositories.CategoryRepository
	store          storage.Storage
	images         *imageprocessor.Processor
	tx             repositories.TxManager
	storageTimeout time.Duration
}

func NewBlogService(
	blogRepo repositories.BlogRepository,
	categoryRepo repositories.CategoryRepository,
	store storage.Storage,
	images *imageprocessor.Processor,
	tx repositories.TxManager,
	storageTimeout time.Duration,
) BlogService {
	if storageTimeout <= 0 {
		storageTimeout = 30 * time.Second
	}
	return &blogService{
		blogRepo:       blogRepo,
		categoryRepo:   categoryRepo,
		store:          store,
		images:         images,
		tx:             tx,
		storageTimeout: storageTimeout,
	}
}

func (s *blogService) Create(ctx context.Context, shopID string, req *dto.CreateBlogRequest, principal auth.Principal) (*dto.BlogResponse, error) {
	if err := s.checkCategories(ctx, req.CategoryIDs); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.BlogStatusDraft
	}

	blog := &models.Blog{
		Title:       req.Title,
		Description: req.Description,
		Slug:        slug,
		Content:     req.Content,
		Status:      status,
		AuthorID:    principal.UserID,
		ShopID:      shopID,
	}

	if req.Image != nil {
		res, err := s.putImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		blog.Image = res.URL
		blog.ImageKey = res.Key
	}

	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.blogRepo.Create(txCtx, blog); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		if err := s.blogRepo.ReplaceCategories(txCtx, blog.ID, req.CategoryIDs); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	logger.CtxInfo(ctx, "blog created", "blog_id", blog.ID, "slug", blog.Slug, "user_id", principal.UserID)
	return s.FindByID(ctx, blog.ID)
}

func (s *blogService) Update(ctx context.Context, blogID string, req *dto.UpdateBlogRequest, principal auth.Principal) (*dto.BlogResponse, error) {
	blog, err := s.findBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog.AuthorID != principal.UserID {
		return nil, apperrors.NewForbiddenError("only the author can edit this blog")
	}

	if req.Title != nil && *req.Title != blog.Title {
		blog.Title = *req.Title
		slug, err := s.uniqueSlug(ctx, blog.Title)
		if err != nil {
			return nil, err
		}
		blog.Slug = slug
	}
	if req.Description != nil {
		blog.Description = *req.Description
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.Status != nil {
		blog.Status = *req.Status
	}

	// Замена обложки - единственное место, где вызывается удаление блоба:
	// вытесненное изображение больше никому не принадлежит
	var supersededKey string
	if req.Image != nil {
		res, err := s.putImage(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		supersededKey = blog.ImageKey
		blog.Image = res.URL
		blog.ImageKey = res.Key
	}

	if err := s.checkCategories(ctx, req.CategoryIDs); err != nil {
		return nil, err
	}

	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.blogRepo.Save(txCtx, blog); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		if req.CategoryIDs != nil {
			if err := s.blogRepo.ReplaceCategories(txCtx, blog.ID, req.CategoryIDs); err != nil {
				return apperrors.ErrDatabaseUnavailable(err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if supersededKey != "" {
		s.deleteBlobAsync(supersededKey)
	}
	return s.FindByID(ctx, blog.ID)
}

func (s *blogService) FindByID(ctx context.Context, blogID string) (*dto.BlogResponse, error) {
	blog, err := s.findBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	return blogToResponse(blog), nil
}

func (s *blogService) FindBySlug(ctx context.Context, slug string) (*dto.BlogResponse, error) {
	blog, err := s.blogRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrBlogNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return blogToResponse(blog), nil
}

func (s *blogService) FindAll(ctx context.Context, status models.BlogStatus, page, limit int) (*dto.BlogListResponse, error) {
	params := pagination.Resolve(page, limit)
	blogs, total, err := s.blogRepo.FindPage(ctx, status, params)
	if err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	items := make([]dto.BlogResponse, 0, len(blogs))
	for i := range blogs {
		items = append(items, *blogToResponse(&blogs[i]))
	}
	return &dto.BlogListResponse{
		Items:      items,
		Pagination: pagination.Generate(total, params),
	}, nil
}

func (s *blogService) SoftDelete(ctx context.Context, blogID string, principal auth.Principal, isAdmin bool) error {
	blog, err := s.findBlog(ctx, blogID)
	if err != nil {
		return err
	}
	if blog.AuthorID != principal.UserID && !isAdmin {
		return apperrors.NewForbiddenError("only the author or an admin can delete this blog")
	}

	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.blogRepo.SoftDelete(txCtx, blogID, time.Now()); err != nil {
			if errors.Is(err, repositories.ErrBlogNotFound) {
				return apperrors.ErrNotFound(err)
			}
			return apperrors.ErrDatabaseUnavailable(err)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	logger.CtxInfo(ctx, "blog soft-deleted", "blog_id", blogID, "user_id", principal.UserID)
	return nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ
// ============================================

func (s *blogService) findBlog(ctx context.Context, blogID string) (*models.Blog, error) {
	blog, err := s.blogRepo.FindByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, repositories.ErrBlogNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return blog, nil
}

func (s *blogService) checkCategories(ctx context.Context, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	categories, err := s.categoryRepo.FindByIDs(ctx, categoryIDs)
	if err != nil {
		return apperrors.ErrDatabaseUnavailable(err)
	}
	if len(categories) != len(categoryIDs) {
		return apperrors.NewBadRequestError("one or more categories do not exist")
	}
	return nil
}

// uniqueSlug строит слаг из заголовка; при конфликте добавляет
// числовой суффикс (-2, -3, ...)
func (s *blogService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	slug := base
	for i := 2; ; i++ {
		exists, err := s.blogRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", apperrors.ErrDatabaseUnavailable(err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *blogService) putImage(ctx context.Context, image dto.UploadedFile) (*storage.PutResult, error) {
	if !strings.HasPrefix(image.MimeType, "image/") {
		return nil, apperrors.ErrInvalidFile([]dto.FileRejection{{
			Filename: image.Filename,
			Reason:   "cover must be an image",
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
	res, err := s.store.Put(putCtx, normalized, "blog_images", image.Filename, image.MimeType)
	if err != nil {
		return nil, apperrors.ErrStorageUnavailable(err)
	}
	return res, nil
}

func (s *blogService) deleteBlobAsync(key string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.storageTimeout)
		defer cancel()
		if err := s.store.Delete(ctx, key); err != nil {
			logger.Warn("superseded blob cleanup failed", "key", key, "error", err)
		}
	}()
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// slugify приводит заголовок к виду kebab-case из ASCII
func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = fmt.Sprintf("post-%d", time.Now().Unix())
	}
	return slug
}

func blogToResponse(blog *models.Blog) *dto.BlogResponse {
	resp := &dto.BlogResponse{
		ID:          blog.ID,
		Title:       blog.Title,
		Description: blog.Description,
		Slug:        blog.Slug,
		Content:     blog.Content,
		Image:       blog.Image,
		Status:      blog.Status,
		AuthorID:    blog.AuthorID,
		ShopID:      blog.ShopID,
		CreatedAt:   blog.CreatedAt,
	}
	for _, link := range blog.Categories {
		if link.Category == nil || link.IsDeleted() {
			continue
		}
		resp.Categories = append(resp.Categories, *categoryToResponse(link.Category))
	}
	return resp
}
