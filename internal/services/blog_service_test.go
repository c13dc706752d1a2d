package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"shophub_backend/internal/auth"
	"shophub_backend/internal/imageprocessor"
	"shophub_backend/internal/models"
	"shophub_backend/internal/repositories"
	"shophub_backend/internal/services/dto"
	"shophub_backend/pkg/apperrors"
	"shophub_backend/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// ФЕЙКОВЫЙ РЕПОЗИТОРИЙ БЛОГА
// ============================================

type fakeBlogRepo struct {
	db   *memDB
	cats *fakeCategoryRepo
}

func (r *fakeBlogRepo) Create(_ context.Context, blog *models.Blog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if blog.ID == "" {
		blog.ID = r.db.newID()
	}
	blog.CreatedAt = time.Now()
	cp := *blog
	cp.Categories = nil
	r.db.blogs[blog.ID] = &cp
	return nil
}

func (r *fakeBlogRepo) Save(_ context.Context, blog *models.Blog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *blog
	cp.Categories = nil
	r.db.blogs[blog.ID] = &cp
	return nil
}

func (r *fakeBlogRepo) FindByID(_ context.Context, id string) (*models.Blog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	blog, ok := r.db.blogs[id]
	if !ok || blog.DeletedAt != nil {
		return nil, repositories.ErrBlogNotFound
	}
	return r.withLinksLocked(blog), nil
}

func (r *fakeBlogRepo) FindBySlug(_ context.Context, slug string) (*models.Blog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, blog := range r.db.blogs {
		if blog.Slug == slug && blog.DeletedAt == nil {
			return r.withLinksLocked(blog), nil
		}
	}
	return nil, repositories.ErrBlogNotFound
}

func (r *fakeBlogRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, blog := range r.db.blogs {
		if blog.Slug == slug && blog.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBlogRepo) FindPage(_ context.Context, status models.BlogStatus, _ pagination.Params) ([]models.Blog, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var page []models.Blog
	for _, blog := range r.db.blogs {
		if blog.DeletedAt != nil {
			continue
		}
		if status != "" && blog.Status != status {
			continue
		}
		page = append(page, *r.withLinksLocked(blog))
	}
	return page, int64(len(page)), nil
}

func (r *fakeBlogRepo) ReplaceCategories(_ context.Context, blogID string, categoryIDs []string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for _, link := range r.db.blogCats {
		if link.BlogID == blogID && link.DeletedAt == nil {
			at := now
			link.DeletedAt = &at
		}
	}
	for _, categoryID := range categoryIDs {
		link := &models.BlogCategory{BlogID: blogID, CategoryID: categoryID}
		link.ID = r.db.newID()
		r.db.blogCats[link.ID] = link
	}
	return nil
}

func (r *fakeBlogRepo) SoftDelete(_ context.Context, id string, deletedAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	blog, ok := r.db.blogs[id]
	if !ok || blog.DeletedAt != nil {
		return repositories.ErrBlogNotFound
	}
	at := deletedAt
	blog.DeletedAt = &at
	for _, link := range r.db.blogCats {
		if link.BlogID == id && link.DeletedAt == nil {
			linkAt := deletedAt
			link.DeletedAt = &linkAt
		}
	}
	return nil
}

// withLinksLocked копирует запись и подгружает живые связки с
// категориями, как это делает Preload настоящего репозитория
func (r *fakeBlogRepo) withLinksLocked(blog *models.Blog) *models.Blog {
	cp := *blog
	cp.Categories = nil
	for _, link := range r.db.blogCats {
		if link.BlogID != blog.ID || link.DeletedAt != nil {
			continue
		}
		linkCp := *link
		if category, err := r.cats.FindByID(context.Background(), link.CategoryID); err == nil {
			linkCp.Category = category
		}
		cp.Categories = append(cp.Categories, linkCp)
	}
	return &cp
}

// ============================================
// ФИКСТУРА
// ============================================

type blogServiceFixture struct {
	svc   BlogService
	db    *memDB
	store *fakeStorage
	cats  *fakeCategoryRepo
}

func newBlogServiceFixture(t *testing.T) *blogServiceFixture {
	t.Helper()

	db := newMemDB()
	store := &fakeStorage{}
	cats := newFakeCategoryRepo()
	svc := NewBlogService(&fakeBlogRepo{db: db, cats: cats}, cats, store, imageprocessor.New(85), &fakeTxManager{db: db}, time.Second)
	return &blogServiceFixture{svc: svc, db: db, store: store, cats: cats}
}

func (fx *blogServiceFixture) seedCategory(t *testing.T, name string) string {
	t.Helper()
	category := &models.Category{Name: name, Slug: slugify(name), Show: true}
	require.NoError(t, fx.cats.Create(context.Background(), category))
	return category.ID
}

func (fx *blogServiceFixture) createBlog(t *testing.T, title string, image *dto.UploadedFile) *dto.BlogResponse {
	t.Helper()
	resp, err := fx.svc.Create(context.Background(), "", &dto.CreateBlogRequest{
		Title:   title,
		Content: "body",
		Image:   image,
	}, testPrincipal)
	require.NoError(t, err)
	return resp
}

func (fx *blogServiceFixture) storedBlog(t *testing.T, id string) models.Blog {
	t.Helper()
	fx.db.mu.Lock()
	defer fx.db.mu.Unlock()
	blog, ok := fx.db.blogs[id]
	require.True(t, ok)
	return *blog
}

// pngUpload собирает маленькое валидное PNG для путей с изображениями
func pngUpload(t *testing.T, name string) dto.UploadedFile {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return dto.UploadedFile{
		Filename: name,
		MimeType: "image/png",
		Size:     int64(buf.Len()),
		Reader:   &buf,
	}
}

var otherPrincipal = auth.Principal{UserID: "user-2", Mobile: "09125556677"}

// ============================================
// СЛАГИ
// ============================================

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Spring Sale 2026!  ", "spring-sale-2026"},
		{"UPPER case & symbols #1", "upper-case-symbols-1"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
	}
	for _, tc := range cases {
		got := slugify(tc.title)
		if tc.want == "" {
			// Для заголовков без ASCII-символов слаг генерируется
			// из временной метки
			assert.Regexp(t, `^post-\d+$`, got)
			continue
		}
		assert.Equal(t, tc.want, got, "title %q", tc.title)
	}
}

func TestBlogSlugConflictGetsSuffix(t *testing.T) {
	fx := newBlogServiceFixture(t)

	first := fx.createBlog(t, "Hello World", nil)
	second := fx.createBlog(t, "Hello World", nil)
	third := fx.createBlog(t, "Hello World", nil)

	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, "hello-world-2", second.Slug)
	assert.Equal(t, "hello-world-3", third.Slug)
}

// ============================================
// КАТЕГОРИИ
// ============================================

func TestBlogCreateLinksCategories(t *testing.T) {
	fx := newBlogServiceFixture(t)
	newsID := fx.seedCategory(t, "News")
	guidesID := fx.seedCategory(t, "Guides")

	resp, err := fx.svc.Create(context.Background(), "", &dto.CreateBlogRequest{
		Title:       "Linked",
		Content:     "body",
		CategoryIDs: []string{newsID, guidesID},
	}, testPrincipal)

	require.NoError(t, err)
	assert.Len(t, resp.Categories, 2)
}

func TestBlogCreateRejectsUnknownCategory(t *testing.T) {
	fx := newBlogServiceFixture(t)

	_, err := fx.svc.Create(context.Background(), "", &dto.CreateBlogRequest{
		Title:       "Orphan",
		Content:     "body",
		CategoryIDs: []string{"ghost"},
	}, testPrincipal)

	requireAppError(t, err, apperrors.CodeValidationFailed)
}

// ============================================
// АВТОРИЗАЦИЯ
// ============================================

func TestBlogUpdateRequiresAuthor(t *testing.T) {
	fx := newBlogServiceFixture(t)
	created := fx.createBlog(t, "Mine", nil)

	newTitle := "Taken Over"
	_, err := fx.svc.Update(context.Background(), created.ID, &dto.UpdateBlogRequest{Title: &newTitle}, otherPrincipal)
	requireAppError(t, err, apperrors.CodeForbidden)
	assert.Equal(t, "Mine", fx.storedBlog(t, created.ID).Title)

	resp, err := fx.svc.Update(context.Background(), created.ID, &dto.UpdateBlogRequest{Title: &newTitle}, testPrincipal)
	require.NoError(t, err)
	assert.Equal(t, "Taken Over", resp.Title)
	assert.Equal(t, "taken-over", resp.Slug)
}

func TestBlogSoftDeleteAuthorOrAdmin(t *testing.T) {
	t.Run("stranger is rejected", func(t *testing.T) {
		fx := newBlogServiceFixture(t)
		created := fx.createBlog(t, "Post", nil)

		err := fx.svc.SoftDelete(context.Background(), created.ID, otherPrincipal, false)

		requireAppError(t, err, apperrors.CodeForbidden)
		assert.Nil(t, fx.storedBlog(t, created.ID).DeletedAt)
	})

	t.Run("author deletes own post", func(t *testing.T) {
		fx := newBlogServiceFixture(t)
		created := fx.createBlog(t, "Post", nil)

		require.NoError(t, fx.svc.SoftDelete(context.Background(), created.ID, testPrincipal, false))

		assert.NotNil(t, fx.storedBlog(t, created.ID).DeletedAt)
		_, err := fx.svc.FindByID(context.Background(), created.ID)
		requireAppError(t, err, apperrors.CodeNotFound)
	})

	t.Run("admin deletes someone else's post with its links", func(t *testing.T) {
		fx := newBlogServiceFixture(t)
		newsID := fx.seedCategory(t, "News")
		resp, err := fx.svc.Create(context.Background(), "", &dto.CreateBlogRequest{
			Title:       "Post",
			Content:     "body",
			CategoryIDs: []string{newsID},
		}, testPrincipal)
		require.NoError(t, err)

		require.NoError(t, fx.svc.SoftDelete(context.Background(), resp.ID, otherPrincipal, true))

		assert.NotNil(t, fx.storedBlog(t, resp.ID).DeletedAt)
		fx.db.mu.Lock()
		for _, link := range fx.db.blogCats {
			if link.BlogID == resp.ID {
				assert.NotNil(t, link.DeletedAt)
			}
		}
		fx.db.mu.Unlock()
	})
}

// ============================================
// ОБЛОЖКА
// ============================================

func TestBlogCoverReplacementDeletesSupersededBlob(t *testing.T) {
	fx := newBlogServiceFixture(t)
	cover := pngUpload(t, "cover.png")
	created := fx.createBlog(t, "With Cover", &cover)

	oldKey := fx.storedBlog(t, created.ID).ImageKey
	require.NotEmpty(t, oldKey)

	// Обновление без новой обложки блоб не трогает
	description := "refreshed"
	_, err := fx.svc.Update(context.Background(), created.ID, &dto.UpdateBlogRequest{Description: &description}, testPrincipal)
	require.NoError(t, err)
	assert.Equal(t, 0, fx.store.deletedCount())

	replacement := pngUpload(t, "cover2.png")
	_, err = fx.svc.Update(context.Background(), created.ID, &dto.UpdateBlogRequest{Image: &replacement}, testPrincipal)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return fx.store.deletedCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{oldKey}, fx.store.deletedKeys())
	assert.NotEqual(t, oldKey, fx.storedBlog(t, created.ID).ImageKey)
}

func TestBlogCoverRejectsNonImage(t *testing.T) {
	fx := newBlogServiceFixture(t)
	cover := uploaded("cover.mp4", "video/mp4", 1024)

	_, err := fx.svc.Create(context.Background(), "", &dto.CreateBlogRequest{
		Title:   "Broken Cover",
		Content: "body",
		Image:   &cover,
	}, testPrincipal)

	requireAppError(t, err, apperrors.CodeValidationFailed)
	assert.Equal(t, 0, fx.store.putCount())
}
