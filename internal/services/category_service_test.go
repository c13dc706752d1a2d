package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"shophub_backend/internal/imageprocessor"
	"shophub_backend/internal/models"
	"shophub_backend/internal/repositories"
	"shophub_backend/internal/services/dto"
	"shophub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// ФЕЙКОВЫЙ РЕПОЗИТОРИЙ КАТЕГОРИЙ
// ============================================

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*models.Category
	seq        int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*models.Category)}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	category.ID = fmt.Sprintf("cat-%04d", r.seq)
	cp := *category
	cp.Subcategories = nil
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Save(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *category
	cp.Subcategories = nil
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	return r.withChildrenLocked(category, false), nil
}

func (r *fakeCategoryRepo) FindByIDs(_ context.Context, ids []string) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []models.Category
	for _, id := range ids {
		if category, ok := r.categories[id]; ok {
			found = append(found, *category)
		}
	}
	return found, nil
}

func (r *fakeCategoryRepo) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, category := range r.categories {
		if category.Slug == slug {
			return r.withChildrenLocked(category, false), nil
		}
	}
	return nil, repositories.ErrCategoryNotFound
}

func (r *fakeCategoryRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, category := range r.categories {
		if category.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCategoryRepo) FindTree(_ context.Context, onlyVisible bool) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var roots []models.Category
	for _, category := range r.categories {
		if category.ParentID != nil {
			continue
		}
		if onlyVisible && !category.Show {
			continue
		}
		roots = append(roots, *r.withChildrenLocked(category, onlyVisible))
	}
	return roots, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return repositories.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) withChildrenLocked(category *models.Category, onlyVisible bool) *models.Category {
	cp := *category
	cp.Subcategories = nil
	for _, child := range r.categories {
		if child.ParentID == nil || *child.ParentID != category.ID {
			continue
		}
		if onlyVisible && !child.Show {
			continue
		}
		childCp := *child
		childCp.Subcategories = nil
		cp.Subcategories = append(cp.Subcategories, childCp)
	}
	return &cp
}

// ============================================
// ФИКСТУРА
// ============================================

type categoryServiceFixture struct {
	svc   CategoryService
	repo  *fakeCategoryRepo
	store *fakeStorage
}

func newCategoryServiceFixture(t *testing.T) *categoryServiceFixture {
	t.Helper()

	repo := newFakeCategoryRepo()
	store := &fakeStorage{}
	svc := NewCategoryService(repo, store, imageprocessor.New(85), time.Second)
	return &categoryServiceFixture{svc: svc, repo: repo, store: store}
}

func (fx *categoryServiceFixture) createCategory(t *testing.T, name, parentID string) *dto.CategoryResponse {
	t.Helper()
	resp, err := fx.svc.Create(context.Background(), &dto.CreateCategoryRequest{
		Name:     name,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return resp
}

func (fx *categoryServiceFixture) storedCategory(t *testing.T, id string) models.Category {
	t.Helper()
	fx.repo.mu.Lock()
	defer fx.repo.mu.Unlock()
	category, ok := fx.repo.categories[id]
	require.True(t, ok)
	return *category
}

// ============================================
// ТЕСТЫ
// ============================================

func TestCategorySlugConflictGetsSuffix(t *testing.T) {
	fx := newCategoryServiceFixture(t)

	first := fx.createCategory(t, "Phones", "")
	second := fx.createCategory(t, "Phones", "")

	assert.Equal(t, "phones", first.Slug)
	assert.Equal(t, "phones-2", second.Slug)
}

func TestCategoryCreateRejectsUnknownParent(t *testing.T) {
	fx := newCategoryServiceFixture(t)

	_, err := fx.svc.Create(context.Background(), &dto.CreateCategoryRequest{
		Name:     "Orphan",
		ParentID: "ghost",
	})

	requireAppError(t, err, apperrors.CodeValidationFailed)
}

func TestCategoryDeleteBlockedBySubcategories(t *testing.T) {
	fx := newCategoryServiceFixture(t)
	parent := fx.createCategory(t, "Electronics", "")
	child := fx.createCategory(t, "Phones", parent.ID)

	err := fx.svc.Delete(context.Background(), parent.ID)

	requireAppError(t, err, apperrors.CodeValidationFailed)
	fx.storedCategory(t, parent.ID)

	// Листовая категория удаляется, после чего родитель свободен
	require.NoError(t, fx.svc.Delete(context.Background(), child.ID))
	_, err = fx.svc.FindByID(context.Background(), child.ID)
	requireAppError(t, err, apperrors.CodeNotFound)
	require.NoError(t, fx.svc.Delete(context.Background(), parent.ID))
}

func TestCategoryImageReplacementDeletesSupersededBlob(t *testing.T) {
	fx := newCategoryServiceFixture(t)
	cover := pngUpload(t, "category.png")
	created, err := fx.svc.Create(context.Background(), &dto.CreateCategoryRequest{
		Name:  "Electronics",
		Image: &cover,
	})
	require.NoError(t, err)

	oldKey := fx.storedCategory(t, created.ID).ImageKey
	require.NotEmpty(t, oldKey)

	// Обновление без нового изображения блоб не трогает
	newName := "Gadgets"
	_, err = fx.svc.Update(context.Background(), created.ID, &dto.UpdateCategoryRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, 0, fx.store.deletedCount())

	replacement := pngUpload(t, "category2.png")
	_, err = fx.svc.Update(context.Background(), created.ID, &dto.UpdateCategoryRequest{Image: &replacement})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return fx.store.deletedCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{oldKey}, fx.store.deletedKeys())
	assert.NotEqual(t, oldKey, fx.storedCategory(t, created.ID).ImageKey)
}

func TestCategoryRenameRegeneratesSlug(t *testing.T) {
	fx := newCategoryServiceFixture(t)
	created := fx.createCategory(t, "Phones", "")

	newName := "Smartphones"
	resp, err := fx.svc.Update(context.Background(), created.ID, &dto.UpdateCategoryRequest{Name: &newName})

	require.NoError(t, err)
	assert.Equal(t, "smartphones", resp.Slug)
}

func TestCategoryFindTreeHidesInvisible(t *testing.T) {
	fx := newCategoryServiceFixture(t)
	visible := fx.createCategory(t, "Visible", "")
	hide := false
	_, err := fx.svc.Create(context.Background(), &dto.CreateCategoryRequest{Name: "Hidden", Show: &hide})
	require.NoError(t, err)

	tree, err := fx.svc.FindTree(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, visible.ID, tree[0].ID)

	all, err := fx.svc.FindTree(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
