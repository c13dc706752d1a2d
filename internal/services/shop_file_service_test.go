package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"shophub_backend/internal/auth"
	"shophub_backend/internal/models"
	"shophub_backend/internal/repositories"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/storage"
	"shophub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// IN-MEMORY ФЕЙКИ
// ============================================

// memDB - общее состояние фейковых репозиториев. fakeTxManager снимает
// с него снапшот перед выполнением функции и откатывает при ошибке,
// имитируя транзакцию БД.
type memDB struct {
	mu       sync.Mutex
	shops    map[string]*models.Shop
	files    map[string]*models.ShopFile
	blogs    map[string]*models.Blog
	blogCats map[string]*models.BlogCategory
	nextID   int
}

func newMemDB() *memDB {
	return &memDB{
		shops:    make(map[string]*models.Shop),
		files:    make(map[string]*models.ShopFile),
		blogs:    make(map[string]*models.Blog),
		blogCats: make(map[string]*models.BlogCategory),
	}
}

func (db *memDB) snapshot() *memDB {
	db.mu.Lock()
	defer db.mu.Unlock()
	snap := newMemDB()
	snap.nextID = db.nextID
	for id, s := range db.shops {
		cp := *s
		snap.shops[id] = &cp
	}
	for id, f := range db.files {
		cp := *f
		snap.files[id] = &cp
	}
	for id, b := range db.blogs {
		cp := *b
		snap.blogs[id] = &cp
	}
	for id, l := range db.blogCats {
		cp := *l
		snap.blogCats[id] = &cp
	}
	return snap
}

func (db *memDB) restore(snap *memDB) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.shops = snap.shops
	db.files = snap.files
	db.blogs = snap.blogs
	db.blogCats = snap.blogCats
	db.nextID = snap.nextID
}

func (db *memDB) newID() string {
	db.nextID++
	return fmt.Sprintf("id-%04d", db.nextID)
}

type fakeTxManager struct {
	db *memDB
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.db.snapshot()
	if err := fn(ctx); err != nil {
		m.db.restore(snap)
		return err
	}
	return nil
}

type fakeShopRepo struct {
	db *memDB
}

func (r *fakeShopRepo) FindByID(_ context.Context, id string) (*models.Shop, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	shop, ok := r.db.shops[id]
	if !ok {
		return nil, repositories.ErrShopNotFound
	}
	cp := *shop
	return &cp, nil
}

func (r *fakeShopRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.Shop, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeShopRepo) FindByName(_ context.Context, name string) (*models.Shop, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, shop := range r.db.shops {
		if shop.Name == name {
			cp := *shop
			return &cp, nil
		}
	}
	return nil, repositories.ErrShopNotFound
}

func (r *fakeShopRepo) Create(_ context.Context, shop *models.Shop) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if shop.ID == "" {
		shop.ID = r.db.newID()
	}
	cp := *shop
	r.db.shops[shop.ID] = &cp
	return nil
}

func (r *fakeShopRepo) Save(_ context.Context, shop *models.Shop) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *shop
	r.db.shops[shop.ID] = &cp
	return nil
}

func (r *fakeShopRepo) UpdateVerificationStatus(_ context.Context, shopID string, status models.VerificationStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	shop, ok := r.db.shops[shopID]
	if !ok {
		return repositories.ErrShopNotFound
	}
	shop.VerificationStatus = status
	return nil
}

func (r *fakeShopRepo) FindUserShops(context.Context, string) ([]models.ShopUserRole, int64, error) {
	return nil, 0, nil
}

func (r *fakeShopRepo) UpsertLocation(context.Context, *models.ShopLocation) error {
	return nil
}

func (r *fakeShopRepo) FindLocation(context.Context, string) (*models.ShopLocation, error) {
	return nil, repositories.ErrShopLocationNotFound
}

type fakeFileRepo struct {
	db *memDB
	// принудительная ошибка вставки для проверки отката
	failCreate bool
}

func (r *fakeFileRepo) CreateBatch(_ context.Context, files []*models.ShopFile) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range files {
		if f.ID == "" {
			f.ID = r.db.newID()
		}
		f.CreatedAt = time.Now()
		cp := *f
		r.db.files[f.ID] = &cp
	}
	return nil
}

func (r *fakeFileRepo) CountNonDeleted(_ context.Context, shopID string, fileType models.FileType) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var count int64
	for _, f := range r.db.files {
		if f.ShopID == shopID && f.FileType == fileType && f.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeFileRepo) FindByIDsForShop(_ context.Context, shopID string, ids []string, _ bool) ([]models.ShopFile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var files []models.ShopFile
	for _, id := range ids {
		f, ok := r.db.files[id]
		if !ok || f.ShopID != shopID || f.DeletedAt != nil {
			continue
		}
		files = append(files, *f)
	}
	return files, nil
}

func (r *fakeFileRepo) FindActive(_ context.Context, shopID string, fileType models.FileType, _ bool) ([]models.ShopFile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var files []models.ShopFile
	for _, f := range r.db.files {
		if f.ShopID == shopID && f.FileType == fileType && f.IsActive && f.DeletedAt == nil {
			files = append(files, *f)
		}
	}
	return files, nil
}

func (r *fakeFileRepo) SetActive(_ context.Context, ids []string, active bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, id := range ids {
		if f, ok := r.db.files[id]; ok {
			f.IsActive = active
		}
	}
	return nil
}

func (r *fakeFileRepo) SoftDelete(_ context.Context, ids []string, deletedAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, id := range ids {
		if f, ok := r.db.files[id]; ok && f.DeletedAt == nil {
			at := deletedAt
			f.DeletedAt = &at
		}
	}
	return nil
}

func (r *fakeFileRepo) FindByShopAndType(_ context.Context, shopID string, fileType models.FileType) ([]models.ShopFile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var files []models.ShopFile
	for _, f := range r.db.files {
		if f.ShopID == shopID && f.FileType == fileType && f.DeletedAt == nil {
			files = append(files, *f)
		}
	}
	return files, nil
}

// fakeStorage записывает put/delete в память; failAfter > 0 заставляет
// падать все Put начиная с указанного по счету
type fakeStorage struct {
	mu        sync.Mutex
	puts      []string
	deleted   []string
	failAfter int
}

func (s *fakeStorage) Put(_ context.Context, reader io.Reader, folder, filename, _ string) (*storage.PutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter > 0 && len(s.puts)+1 >= s.failAfter {
		return nil, errors.New("storage write failed")
	}
	_, _ = io.Copy(io.Discard, reader)
	key := fmt.Sprintf("%s/%d_%s", folder, len(s.puts), filename)
	s.puts = append(s.puts, key)
	return &storage.PutResult{URL: "http://files.local/" + key, Key: key}, nil
}

func (s *fakeStorage) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) Exists(context.Context, string) (bool, error) { return false, nil }

func (s *fakeStorage) URL(key string) string { return "http://files.local/" + key }

func (s *fakeStorage) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.puts)
}

func (s *fakeStorage) deletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deleted)
}

func (s *fakeStorage) deletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

// ============================================
// ФИКСТУРА
// ============================================

type fileServiceFixture struct {
	svc      ShopFileService
	db       *memDB
	store    *fakeStorage
	fileRepo *fakeFileRepo
	shopID   string
}

func newFileServiceFixture(t *testing.T) *fileServiceFixture {
	t.Helper()

	db := newMemDB()
	store := &fakeStorage{}
	shopRepo := &fakeShopRepo{db: db}
	fileRepo := &fakeFileRepo{db: db}

	shop := &models.Shop{Name: "test shop", VerificationStatus: models.VerificationUnverified}
	require.NoError(t, shopRepo.Create(context.Background(), shop))

	svc := NewShopFileService(shopRepo, fileRepo, store, NewFilePolicy(), &fakeTxManager{db: db}, time.Second)
	return &fileServiceFixture{
		svc:      svc,
		db:       db,
		store:    store,
		fileRepo: fileRepo,
		shopID:   shop.ID,
	}
}

func (fx *fileServiceFixture) seedFile(t *testing.T, fileType models.FileType, active bool, deleted bool) string {
	t.Helper()
	file := &models.ShopFile{
		ShopID:     fx.shopID,
		FileType:   fileType,
		FileURL:    "http://files.local/seeded",
		StorageKey: "seeded",
		IsActive:   active,
		MimeType:   "image/png",
	}
	require.NoError(t, fx.fileRepo.CreateBatch(context.Background(), []*models.ShopFile{file}))
	if deleted {
		now := time.Now()
		require.NoError(t, fx.fileRepo.SoftDelete(context.Background(), []string{file.ID}, now))
	}
	return file.ID
}

func (fx *fileServiceFixture) shopStatus(t *testing.T) models.VerificationStatus {
	t.Helper()
	fx.db.mu.Lock()
	defer fx.db.mu.Unlock()
	shop, ok := fx.db.shops[fx.shopID]
	require.True(t, ok)
	return shop.VerificationStatus
}

func (fx *fileServiceFixture) fileByID(t *testing.T, id string) models.ShopFile {
	t.Helper()
	fx.db.mu.Lock()
	defer fx.db.mu.Unlock()
	f, ok := fx.db.files[id]
	require.True(t, ok)
	return *f
}

func uploaded(name, mime string, size int64) dto.UploadedFile {
	return dto.UploadedFile{
		Filename: name,
		MimeType: mime,
		Size:     size,
		Reader:   strings.NewReader("file-body"),
	}
}

var testPrincipal = auth.Principal{UserID: "user-1", Mobile: "09120000000"}

func requireAppError(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
	return appErr
}

// ============================================
// ЗАГРУЗКА
// ============================================

func TestUploadFilesStoresInactiveRows(t *testing.T) {
	fx := newFileServiceFixture(t)

	resp, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeBanner, []dto.UploadedFile{
		uploaded("a.png", "image/png", 1024),
		uploaded("b.jpg", "image/jpeg", 2048),
	}, testPrincipal)

	require.NoError(t, err)
	assert.Equal(t, 2, resp.StoredCount)
	assert.Equal(t, models.FileTypeBanner, resp.FileType)
	assert.Equal(t, 2, fx.store.putCount())

	files, err := fx.svc.FindShopFilesByType(context.Background(), fx.shopID, models.FileTypeBanner)
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		// Загруженные файлы всегда неактивны до явного включения
		assert.False(t, f.IsActive)
		assert.NotEmpty(t, f.FileURL)
	}
}

func TestUploadFilesRejectsBadMimeType(t *testing.T) {
	fx := newFileServiceFixture(t)

	_, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeLogo, []dto.UploadedFile{
		uploaded("ok.png", "image/png", 1024),
		uploaded("clip.mp4", "video/mp4", 1024),
	}, testPrincipal)

	requireAppError(t, err, apperrors.CodeValidationFailed)
	// Частичный прием не допускается: валидный файл тоже не сохранен
	assert.Equal(t, 0, fx.store.putCount())
	count, _ := fx.fileRepo.CountNonDeleted(context.Background(), fx.shopID, models.FileTypeLogo)
	assert.Zero(t, count)
}

func TestUploadFilesRejectsOversizedFile(t *testing.T) {
	fx := newFileServiceFixture(t)

	_, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeLogo, []dto.UploadedFile{
		uploaded("huge.png", "image/png", 25*1000*1000),
	}, testPrincipal)

	requireAppError(t, err, apperrors.CodeValidationFailed)
	assert.Equal(t, 0, fx.store.putCount())
}

func TestUploadFilesEnforcesTotalCapacity(t *testing.T) {
	fx := newFileServiceFixture(t)
	fx.seedFile(t, models.FileTypeLogo, false, false)
	fx.seedFile(t, models.FileTypeLogo, false, false)

	_, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeLogo, []dto.UploadedFile{
		uploaded("a.png", "image/png", 1024),
		uploaded("b.png", "image/png", 1024),
	}, testPrincipal)

	requireAppError(t, err, apperrors.CodeLimitExceeded)
	// Обреченный запрос отсекается до записи блобов
	assert.Equal(t, 0, fx.store.putCount())
	count, _ := fx.fileRepo.CountNonDeleted(context.Background(), fx.shopID, models.FileTypeLogo)
	assert.EqualValues(t, 2, count)
}

func TestUploadFilesIgnoresSoftDeletedInCapacity(t *testing.T) {
	fx := newFileServiceFixture(t)
	for i := 0; i < 3; i++ {
		fx.seedFile(t, models.FileTypeLogo, false, true)
	}

	resp, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeLogo, []dto.UploadedFile{
		uploaded("fresh.png", "image/png", 1024),
	}, testPrincipal)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.StoredCount)
}

func TestUploadFilesUnknownFileType(t *testing.T) {
	fx := newFileServiceFixture(t)

	_, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileType("avatar"), []dto.UploadedFile{
		uploaded("a.png", "image/png", 1024),
	}, testPrincipal)

	requireAppError(t, err, apperrors.CodeValidationFailed)
}

func TestUploadFilesShopNotFound(t *testing.T) {
	fx := newFileServiceFixture(t)

	_, err := fx.svc.UploadFiles(context.Background(), "missing-shop", models.FileTypeLogo, []dto.UploadedFile{
		uploaded("a.png", "image/png", 1024),
	}, testPrincipal)

	requireAppError(t, err, apperrors.CodeNotFound)
}

func TestUploadFilesStorageFailureLeavesNoRows(t *testing.T) {
	fx := newFileServiceFixture(t)
	fx.store.failAfter = 2

	_, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeBanner, []dto.UploadedFile{
		uploaded("a.png", "image/png", 1024),
		uploaded("b.png", "image/png", 1024),
	}, testPrincipal)

	requireAppError(t, err, apperrors.CodeStorageError)
	count, _ := fx.fileRepo.CountNonDeleted(context.Background(), fx.shopID, models.FileTypeBanner)
	assert.Zero(t, count)
	// Успевшие записаться блобы подчищаются асинхронно
	require.Eventually(t, func() bool {
		return fx.store.deletedCount() == fx.store.putCount()
	}, time.Second, 10*time.Millisecond)
}

func TestUploadFilesDatabaseFailureCleansBlobs(t *testing.T) {
	fx := newFileServiceFixture(t)
	fx.fileRepo.failCreate = true

	_, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeBanner, []dto.UploadedFile{
		uploaded("a.png", "image/png", 1024),
	}, testPrincipal)

	requireAppError(t, err, apperrors.CodeDatabaseError)
	require.Eventually(t, func() bool {
		return fx.store.deletedCount() == 1
	}, time.Second, 10*time.Millisecond)
	// Откат затронул и статус верификации, если он успел сдвинуться
	assert.Equal(t, models.VerificationUnverified, fx.shopStatus(t))
}

// ============================================
// ВЕРИФИКАЦИЯ
// ============================================

func TestUploadDocAdvancesVerification(t *testing.T) {
	fx := newFileServiceFixture(t)

	_, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeDoc, []dto.UploadedFile{
		uploaded("doc.pdf", "application/pdf", 1024),
	}, testPrincipal)

	require.NoError(t, err)
	assert.Equal(t, models.VerificationDocumentUploaded, fx.shopStatus(t))
}

func TestUploadContractRequiresDocumentUploaded(t *testing.T) {
	fx := newFileServiceFixture(t)

	_, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeContract, []dto.UploadedFile{
		uploaded("contract.pdf", "application/pdf", 1024),
	}, testPrincipal)

	appErr := requireAppError(t, err, apperrors.CodeInvalidStatus)
	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, string(models.VerificationUnverified), details["current"])
	assert.Equal(t, string(models.VerificationDocumentUploaded), details["required"])
	assert.Equal(t, models.VerificationUnverified, fx.shopStatus(t))
}

func TestUploadContractAfterDocAdvancesToContract(t *testing.T) {
	fx := newFileServiceFixture(t)

	_, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeDoc, []dto.UploadedFile{
		uploaded("doc.pdf", "application/pdf", 1024),
	}, testPrincipal)
	require.NoError(t, err)

	_, err = fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeContract, []dto.UploadedFile{
		uploaded("contract.pdf", "application/pdf", 1024),
	}, testPrincipal)
	require.NoError(t, err)

	assert.Equal(t, models.VerificationContract, fx.shopStatus(t))
}

func TestUploadMediaDoesNotTouchVerification(t *testing.T) {
	fx := newFileServiceFixture(t)

	_, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeLogo, []dto.UploadedFile{
		uploaded("logo.png", "image/png", 1024),
	}, testPrincipal)

	require.NoError(t, err)
	assert.Equal(t, models.VerificationUnverified, fx.shopStatus(t))
}

// ============================================
// ПЕРЕКЛЮЧЕНИЕ АКТИВНОСТИ
// ============================================

func TestToggleActivationActivatesWithinLimit(t *testing.T) {
	fx := newFileServiceFixture(t)
	a := fx.seedFile(t, models.FileTypeBanner, false, false)
	b := fx.seedFile(t, models.FileTypeBanner, false, false)

	err := fx.svc.ToggleActivation(context.Background(), fx.shopID, []string{a, b}, testPrincipal, nil)

	require.NoError(t, err)
	assert.True(t, fx.fileByID(t, a).IsActive)
	assert.True(t, fx.fileByID(t, b).IsActive)
}

func TestToggleActivationDeactivatesActive(t *testing.T) {
	fx := newFileServiceFixture(t)
	a := fx.seedFile(t, models.FileTypeBanner, true, false)

	err := fx.svc.ToggleActivation(context.Background(), fx.shopID, []string{a}, testPrincipal, nil)

	require.NoError(t, err)
	assert.False(t, fx.fileByID(t, a).IsActive)
}

func TestToggleActivationExactReplace(t *testing.T) {
	fx := newFileServiceFixture(t)
	old := fx.seedFile(t, models.FileTypeLogo, true, false)
	fresh := fx.seedFile(t, models.FileTypeLogo, false, false)

	// Активация ровно maxActive новых файлов вытесняет текущий
	// активный набор вместо ошибки
	err := fx.svc.ToggleActivation(context.Background(), fx.shopID, []string{fresh}, testPrincipal, nil)

	require.NoError(t, err)
	assert.False(t, fx.fileByID(t, old).IsActive)
	assert.True(t, fx.fileByID(t, fresh).IsActive)
}

func TestToggleActivationActiveCapacityExceeded(t *testing.T) {
	fx := newFileServiceFixture(t)
	a := fx.seedFile(t, models.FileTypeBanner, true, false)
	b := fx.seedFile(t, models.FileTypeBanner, true, false)
	c := fx.seedFile(t, models.FileTypeBanner, false, false)

	err := fx.svc.ToggleActivation(context.Background(), fx.shopID, []string{c}, testPrincipal, nil)

	requireAppError(t, err, apperrors.CodeLimitExceeded)
	assert.True(t, fx.fileByID(t, a).IsActive)
	assert.True(t, fx.fileByID(t, b).IsActive)
	assert.False(t, fx.fileByID(t, c).IsActive)
}

func TestToggleActivationMissingIDsNoMutation(t *testing.T) {
	fx := newFileServiceFixture(t)
	a := fx.seedFile(t, models.FileTypeBanner, false, false)

	err := fx.svc.ToggleActivation(context.Background(), fx.shopID, []string{a, "missing-1"}, testPrincipal, nil)

	appErr := requireAppError(t, err, apperrors.CodeNotFound)
	details, ok := appErr.Details.(map[string][]string)
	require.True(t, ok)
	assert.Equal(t, []string{"missing-1"}, details["missing_ids"])
	assert.False(t, fx.fileByID(t, a).IsActive)
}

func TestToggleActivationSoftDeletedTreatedAsMissing(t *testing.T) {
	fx := newFileServiceFixture(t)
	gone := fx.seedFile(t, models.FileTypeBanner, false, true)

	err := fx.svc.ToggleActivation(context.Background(), fx.shopID, []string{gone}, testPrincipal, nil)

	requireAppError(t, err, apperrors.CodeNotFound)
}

func TestToggleActivationDuplicateIDsDeduped(t *testing.T) {
	fx := newFileServiceFixture(t)
	a := fx.seedFile(t, models.FileTypeLogo, false, false)

	err := fx.svc.ToggleActivation(context.Background(), fx.shopID, []string{a, a, a}, testPrincipal, nil)

	require.NoError(t, err)
	assert.True(t, fx.fileByID(t, a).IsActive)
}

func TestToggleActivationMixedTypesAtomicFailure(t *testing.T) {
	fx := newFileServiceFixture(t)
	logo := fx.seedFile(t, models.FileTypeLogo, false, false)
	v1 := fx.seedFile(t, models.FileTypeVideo, true, false)
	v2 := fx.seedFile(t, models.FileTypeVideo, false, false)
	v3 := fx.seedFile(t, models.FileTypeVideo, false, false)

	// Группа видео превышает лимит (2 активации при maxActive=1),
	// поэтому и логотип остается нетронутым
	err := fx.svc.ToggleActivation(context.Background(), fx.shopID, []string{logo, v2, v3}, testPrincipal, nil)

	requireAppError(t, err, apperrors.CodeLimitExceeded)
	assert.False(t, fx.fileByID(t, logo).IsActive)
	assert.True(t, fx.fileByID(t, v1).IsActive)
	assert.False(t, fx.fileByID(t, v2).IsActive)
	assert.False(t, fx.fileByID(t, v3).IsActive)
}

func TestToggleActivationRestrictedFileType(t *testing.T) {
	fx := newFileServiceFixture(t)
	fx.db.mu.Lock()
	fx.db.shops[fx.shopID].VerificationStatus = models.VerificationDocumentUploaded
	fx.db.mu.Unlock()
	doc := fx.seedFile(t, models.FileTypeDoc, false, false)

	shopAdminTypes := []models.FileType{models.FileTypeLogo, models.FileTypeBanner, models.FileTypeVideo}
	err := fx.svc.ToggleActivation(context.Background(), fx.shopID, []string{doc}, testPrincipal, shopAdminTypes)

	requireAppError(t, err, apperrors.CodeUnauthorized)
	assert.False(t, fx.fileByID(t, doc).IsActive)
}

func TestToggleActivationEmptyInput(t *testing.T) {
	fx := newFileServiceFixture(t)

	err := fx.svc.ToggleActivation(context.Background(), fx.shopID, nil, testPrincipal, nil)

	requireAppError(t, err, apperrors.CodeValidationFailed)
}

// ============================================
// МЯГКОЕ УДАЛЕНИЕ
// ============================================

func TestSoftDeleteMarksRowsOnly(t *testing.T) {
	fx := newFileServiceFixture(t)
	a := fx.seedFile(t, models.FileTypeBanner, true, false)

	err := fx.svc.SoftDeleteFiles(context.Background(), fx.shopID, []string{a}, testPrincipal, nil)

	require.NoError(t, err)
	deleted := fx.fileByID(t, a)
	assert.NotNil(t, deleted.DeletedAt)
	// Флаг активности и блоб в хранилище остаются как есть
	assert.True(t, deleted.IsActive)
	assert.Equal(t, 0, fx.store.deletedCount())

	files, err := fx.svc.FindShopFilesByType(context.Background(), fx.shopID, models.FileTypeBanner)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSoftDeleteFreesCapacity(t *testing.T) {
	fx := newFileServiceFixture(t)
	ids := []string{
		fx.seedFile(t, models.FileTypeLogo, false, false),
		fx.seedFile(t, models.FileTypeLogo, false, false),
		fx.seedFile(t, models.FileTypeLogo, false, false),
	}

	require.NoError(t, fx.svc.SoftDeleteFiles(context.Background(), fx.shopID, ids[:1], testPrincipal, nil))

	_, err := fx.svc.UploadFiles(context.Background(), fx.shopID, models.FileTypeLogo, []dto.UploadedFile{
		uploaded("new.png", "image/png", 1024),
	}, testPrincipal)
	require.NoError(t, err)
}

func TestSoftDeleteMissingIDsNoMutation(t *testing.T) {
	fx := newFileServiceFixture(t)
	a := fx.seedFile(t, models.FileTypeBanner, false, false)

	err := fx.svc.SoftDeleteFiles(context.Background(), fx.shopID, []string{a, "missing-7"}, testPrincipal, nil)

	requireAppError(t, err, apperrors.CodeNotFound)
	assert.Nil(t, fx.fileByID(t, a).DeletedAt)
}

func TestSoftDeleteRestrictedFileType(t *testing.T) {
	fx := newFileServiceFixture(t)
	fx.db.mu.Lock()
	fx.db.shops[fx.shopID].VerificationStatus = models.VerificationDocumentUploaded
	fx.db.mu.Unlock()
	doc := fx.seedFile(t, models.FileTypeDoc, false, false)

	shopAdminTypes := []models.FileType{models.FileTypeLogo, models.FileTypeBanner, models.FileTypeVideo}
	err := fx.svc.SoftDeleteFiles(context.Background(), fx.shopID, []string{doc}, testPrincipal, shopAdminTypes)

	requireAppError(t, err, apperrors.CodeUnauthorized)
	assert.Nil(t, fx.fileByID(t, doc).DeletedAt)
}

// ============================================
// ЧТЕНИЕ
// ============================================

func TestFindShopFilesByTypeRejectsUnknownType(t *testing.T) {
	fx := newFileServiceFixture(t)

	_, err := fx.svc.FindShopFilesByType(context.Background(), fx.shopID, models.FileType("avatar"))

	requireAppError(t, err, apperrors.CodeValidationFailed)
}
