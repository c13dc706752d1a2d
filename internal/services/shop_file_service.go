package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"shophub_backend/internal/auth"
	"shophub_backend/internal/logger"
	"shophub_backend/internal/models"
	"shophub_backend/internal/repositories"
	"shophub_backend/internal/services/dto"
	"shophub_backend/internal/storage"
	"shophub_backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// ============================================
// РЕЕСТР ФАЙЛОВ МАГАЗИНА
// ============================================

// ShopFileService - единственная точка мутации shop_files.
// Все операции проверяют лимиты политики и права вызывающего
// и выполняются внутри одной транзакции БД.
type ShopFileService interface {
	// Пакетная загрузка файлов одной категории. Блобы уходят в хранилище
	// до транзакции, строки создаются с is_active=false.
	// Для DOC/CONTRACT двигает статус верификации магазина на один шаг.
	UploadFiles(ctx context.Context, shopID string, fileType models.FileType, files []dto.UploadedFile, principal auth.Principal) (*dto.UploadFilesResponse, error)

	// Атомарное переключение активности набора файлов (возможно разных
	// категорий). allowedFileTypes == nil означает полный доступ.
	ToggleActivation(ctx context.Context, shopID string, fileIDs []string, principal auth.Principal, allowedFileTypes []models.FileType) error

	// Мягкое удаление: только deleted_at, блобы остаются в хранилище
	SoftDeleteFiles(ctx context.Context, shopID string, fileIDs []string, principal auth.Principal, allowedFileTypes []models.FileType) error

	FindShopFilesByType(ctx context.Context, shopID string, fileType models.FileType) ([]dto.ShopFileResponse, error)
}

type shopFileService struct {
	shopRepo       repositories.ShopRepository
	fileRepo       repositories.ShopFileRepository
	store          storage.Storage
	policy         *FilePolicy
	tx             repositories.TxManager
	storageTimeout time.Duration
}

func NewShopFileService(
	shopRepo repositories.ShopRepository,
	fileRepo repositories.ShopFileRepository,
	store storage.Storage,
	policy *FilePolicy,
	tx repositories.TxManager,
	storageTimeout time.Duration,
) ShopFileService {
	if storageTimeout <= 0 {
		storageTimeout = 30 * time.Second
	}
	return &shopFileService{
		shopRepo:       shopRepo,
		fileRepo:       fileRepo,
		store:          store,
		policy:         policy,
		tx:             tx,
		storageTimeout: storageTimeout,
	}
}

// ============================================
// ЗАГРУЗКА
// ============================================

func (s *shopFileService) UploadFiles(ctx context.Context, shopID string, fileType models.FileType, files []dto.UploadedFile, principal auth.Principal) (*dto.UploadFilesResponse, error) {
	rules, err := s.policy.ValidationRules(fileType)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperrors.NewBadRequestError("no files provided")
	}

	shop, err := s.shopRepo.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, repositories.ErrShopNotFound) {
			return nil, apperrors.ErrShopNotFound(shopID)
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	// Валидация всех файлов до каких-либо побочных эффектов;
	// частичный прием не допускается
	var rejections []dto.FileRejection
	for _, f := range files {
		if !rules.Allows(f.MimeType) {
			rejections = append(rejections, dto.FileRejection{
				Filename: f.Filename,
				Reason:   fmt.Sprintf("mime type %s is not allowed for %s", f.MimeType, fileType),
			})
			continue
		}
		if f.Size > rules.MaxSizeBytes {
			rejections = append(rejections, dto.FileRejection{
				Filename: f.Filename,
				Reason:   fmt.Sprintf("size %d exceeds limit of %d bytes", f.Size, rules.MaxSizeBytes),
			})
		}
	}
	if len(rejections) > 0 {
		return nil, apperrors.ErrInvalidFile(rejections)
	}

	maxTotal, err := s.policy.MaxTotal(fileType)
	if err != nil {
		return nil, err
	}

	// Предварительные проверки вне транзакции: лимит и статус верификации.
	// Обе повторяются под блокировкой строки магазина, здесь они лишь
	// отсекают заведомо обреченные запросы до записи блобов.
	count, err := s.fileRepo.CountNonDeleted(ctx, shopID, fileType)
	if err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	if int(count)+len(files) > maxTotal {
		return nil, apperrors.ErrFileCapacityExceeded(string(fileType), maxTotal, int(count)+len(files))
	}
	if err := checkVerificationTransition(shop.VerificationStatus, fileType); err != nil {
		return nil, err
	}

	stored, err := s.storeBlobs(ctx, fileType, files)
	if err != nil {
		s.cleanupBlobs(stored)
		return nil, apperrors.ErrStorageUnavailable(err)
	}

	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		// Блокировка строки магазина сериализует конкурентные загрузки,
		// пересчет лимита под ней уже не может устареть
		lockedShop, err := s.shopRepo.FindByIDForUpdate(txCtx, shopID)
		if err != nil {
			if errors.Is(err, repositories.ErrShopNotFound) {
				return apperrors.ErrShopNotFound(shopID)
			}
			return apperrors.ErrDatabaseUnavailable(err)
		}

		count, err := s.fileRepo.CountNonDeleted(txCtx, shopID, fileType)
		if err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		if int(count)+len(files) > maxTotal {
			return apperrors.ErrFileCapacityExceeded(string(fileType), maxTotal, int(count)+len(files))
		}

		if fileType.IsVerificationDocument() {
			if err := checkVerificationTransition(lockedShop.VerificationStatus, fileType); err != nil {
				return err
			}
			// Ровно один шаг вперед на всю пачку, независимо от числа файлов
			next := nextVerificationStatus(fileType)
			if err := s.shopRepo.UpdateVerificationStatus(txCtx, shopID, next); err != nil {
				return apperrors.ErrDatabaseUnavailable(err)
			}
		}

		rows := make([]*models.ShopFile, 0, len(files))
		for i, f := range files {
			metadata, _ := json.Marshal(map[string]string{"originalName": f.Filename})
			rows = append(rows, &models.ShopFile{
				ShopID:     shopID,
				FileType:   fileType,
				FileURL:    stored[i].URL,
				StorageKey: stored[i].Key,
				IsActive:   false,
				MimeType:   f.MimeType,
				Size:       f.Size,
				Metadata:   datatypes.JSON(metadata),
			})
		}
		if err := s.fileRepo.CreateBatch(txCtx, rows); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		return nil
	})
	if txErr != nil {
		// Строки откачены целиком, блобы подчищаем сами
		s.cleanupBlobs(stored)
		return nil, txErr
	}

	logger.CtxInfo(ctx, "shop files uploaded",
		"shop_id", shopID,
		"file_type", fileType,
		"count", len(files),
		"user_id", principal.UserID,
	)
	return &dto.UploadFilesResponse{StoredCount: len(files), FileType: fileType}, nil
}

// storeBlobs пишет блобы в хранилище параллельно. Возвращает результаты
// в порядке исходных файлов; при ошибке - все успевшие записаться
// (для последующей зачистки).
func (s *shopFileService) storeBlobs(ctx context.Context, fileType models.FileType, files []dto.UploadedFile) ([]*storage.PutResult, error) {
	folder := "shop_files"
	if fileType.IsVerificationDocument() {
		folder = "shop_docs"
	}

	results := make([]*storage.PutResult, len(files))
	g, gCtx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			putCtx, cancel := context.WithTimeout(gCtx, s.storageTimeout)
			defer cancel()

			res, err := s.store.Put(putCtx, f.Reader, folder, f.Filename, f.MimeType)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// cleanupBlobs удаляет уже записанные блобы после неудачной загрузки.
// Ошибки только логируются: исходная ошибка важнее зачистки.
func (s *shopFileService) cleanupBlobs(stored []*storage.PutResult) {
	keys := make([]string, 0, len(stored))
	for _, res := range stored {
		if res != nil {
			keys = append(keys, res.Key)
		}
	}
	if len(keys) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.storageTimeout)
		defer cancel()
		for _, key := range keys {
			if err := s.store.Delete(ctx, key); err != nil {
				logger.Warn("orphan blob cleanup failed", "key", key, "error", err)
			}
		}
	}()
}

// checkVerificationTransition проверяет, что загрузка DOC/CONTRACT
// допустима в текущем статусе верификации. Повторная подача документов
// после пройденного шага - громкая ошибка, а не тихий no-op.
func checkVerificationTransition(current models.VerificationStatus, fileType models.FileType) error {
	if !fileType.IsVerificationDocument() {
		return nil
	}
	next := nextVerificationStatus(fileType)
	if !current.CanAdvanceTo(next) {
		required := models.VerificationUnverified
		if fileType == models.FileTypeContract {
			required = models.VerificationDocumentUploaded
		}
		return apperrors.ErrInvalidVerificationTransition(string(current), string(required))
	}
	return nil
}

func nextVerificationStatus(fileType models.FileType) models.VerificationStatus {
	if fileType == models.FileTypeContract {
		return models.VerificationContract
	}
	return models.VerificationDocumentUploaded
}

// ============================================
// ПЕРЕКЛЮЧЕНИЕ АКТИВНОСТИ
// ============================================

// activationPlan - просчитанные изменения одной категории.
// Сначала полностью строим план по всем группам, потом применяем:
// граница отката остается простой, частичных состояний не бывает.
type activationPlan struct {
	fileType      models.FileType
	deactivateIDs []string
	activateIDs   []string
}

func (s *shopFileService) ToggleActivation(ctx context.Context, shopID string, fileIDs []string, principal auth.Principal, allowedFileTypes []models.FileType) error {
	if len(fileIDs) == 0 {
		return apperrors.NewBadRequestError("no file ids provided")
	}

	err := s.tx.Do(ctx, func(txCtx context.Context) error {
		selected, err := s.resolveFiles(txCtx, shopID, fileIDs)
		if err != nil {
			return err
		}

		groups := groupByType(selected)
		selectedIDs := make(map[string]struct{}, len(selected))
		for _, f := range selected {
			selectedIDs[f.ID] = struct{}{}
		}

		// Фаза 1: план
		plans := make([]activationPlan, 0, len(groups))
		for _, fileType := range sortedTypes(groups) {
			group := groups[fileType]
			if err := checkTypeAllowed(fileType, allowedFileTypes); err != nil {
				return err
			}

			plan := activationPlan{fileType: fileType}
			for _, f := range group {
				if f.IsActive {
					plan.deactivateIDs = append(plan.deactivateIDs, f.ID)
				} else {
					plan.activateIDs = append(plan.activateIDs, f.ID)
				}
			}
			if len(plan.activateIDs) > 0 {
				// Активные строки категории под блокировкой; из счетчика
				// исключаются файлы, уже затронутые этим вызовом
				active, err := s.fileRepo.FindActive(txCtx, shopID, fileType, true)
				if err != nil {
					return apperrors.ErrDatabaseUnavailable(err)
				}
				var remaining []string
				for _, f := range active {
					if _, handled := selectedIDs[f.ID]; !handled {
						remaining = append(remaining, f.ID)
					}
				}

				maxActive := s.policy.MaxActive(fileType)
				if len(remaining)+len(plan.activateIDs) > maxActive {
					if maxActive != len(plan.activateIDs) {
						return apperrors.ErrActiveCapacityExceeded(string(fileType), maxActive, len(remaining)+len(plan.activateIDs))
					}
					// Замена активного набора целиком: вытесняем все
					// текущие активные строки категории
					plan.deactivateIDs = append(plan.deactivateIDs, remaining...)
				}
			}
			plans = append(plans, plan)
		}

		// Фаза 2: применение
		for _, plan := range plans {
			if err := s.fileRepo.SetActive(txCtx, plan.deactivateIDs, false); err != nil {
				return apperrors.ErrDatabaseUnavailable(err)
			}
			if err := s.fileRepo.SetActive(txCtx, plan.activateIDs, true); err != nil {
				return apperrors.ErrDatabaseUnavailable(err)
			}
		}
		return nil
	})
	if err != nil {
		// Структурированные ошибки уходят как есть, все неожиданное
		// сворачивается в bad request
		if appErr, ok := apperrors.AsAppError(err); ok {
			return appErr
		}
		return apperrors.NewBadRequestError("failed to toggle file activation").WithError(err)
	}

	logger.CtxInfo(ctx, "shop files activation toggled",
		"shop_id", shopID,
		"count", len(fileIDs),
		"user_id", principal.UserID,
	)
	return nil
}

// ============================================
// МЯГКОЕ УДАЛЕНИЕ
// ============================================

// SoftDeleteFiles помечает строки deleted_at=now. Хранилище не трогаем:
// блоб остается на месте, удаление обратимо на уровне данных.
func (s *shopFileService) SoftDeleteFiles(ctx context.Context, shopID string, fileIDs []string, principal auth.Principal, allowedFileTypes []models.FileType) error {
	if len(fileIDs) == 0 {
		return apperrors.NewBadRequestError("no file ids provided")
	}

	err := s.tx.Do(ctx, func(txCtx context.Context) error {
		selected, err := s.resolveFiles(txCtx, shopID, fileIDs)
		if err != nil {
			return err
		}

		for _, fileType := range sortedTypes(groupByType(selected)) {
			if err := checkTypeAllowed(fileType, allowedFileTypes); err != nil {
				return err
			}
		}

		ids := make([]string, 0, len(selected))
		for _, f := range selected {
			ids = append(ids, f.ID)
		}
		if err := s.fileRepo.SoftDelete(txCtx, ids, time.Now()); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		return nil
	})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return appErr
		}
		return apperrors.NewBadRequestError("failed to delete files").WithError(err)
	}

	logger.CtxInfo(ctx, "shop files soft-deleted",
		"shop_id", shopID,
		"count", len(fileIDs),
		"user_id", principal.UserID,
	)
	return nil
}

// ============================================
// ЧТЕНИЕ
// ============================================

func (s *shopFileService) FindShopFilesByType(ctx context.Context, shopID string, fileType models.FileType) ([]dto.ShopFileResponse, error) {
	if !fileType.Valid() {
		return nil, apperrors.ErrInvalidFileType
	}

	files, err := s.fileRepo.FindByShopAndType(ctx, shopID, fileType)
	if err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	responses := make([]dto.ShopFileResponse, 0, len(files))
	for _, f := range files {
		responses = append(responses, dto.ShopFileResponse{
			ID:        f.ID,
			FileType:  f.FileType,
			FileURL:   f.FileURL,
			IsActive:  f.IsActive,
			CreatedAt: f.CreatedAt,
		})
	}
	return responses, nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ
// ============================================

// resolveFiles читает неудаленные строки магазина по списку id под
// блокировкой. Недостающие id перечисляются в ошибке поименно.
func (s *shopFileService) resolveFiles(ctx context.Context, shopID string, fileIDs []string) ([]models.ShopFile, error) {
	unique := make([]string, 0, len(fileIDs))
	seen := make(map[string]struct{}, len(fileIDs))
	for _, id := range fileIDs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}

	files, err := s.fileRepo.FindByIDsForShop(ctx, shopID, unique, true)
	if err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	if len(files) != len(unique) {
		found := make(map[string]struct{}, len(files))
		for _, f := range files {
			found[f.ID] = struct{}{}
		}
		var missing []string
		for _, id := range unique {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, apperrors.ErrFilesNotFound(missing)
	}
	return files, nil
}

func groupByType(files []models.ShopFile) map[models.FileType][]models.ShopFile {
	groups := make(map[models.FileType][]models.ShopFile)
	for _, f := range files {
		groups[f.FileType] = append(groups[f.FileType], f)
	}
	return groups
}

// sortedTypes дает детерминированный порядок обхода групп
func sortedTypes(groups map[models.FileType][]models.ShopFile) []models.FileType {
	types := make([]models.FileType, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func checkTypeAllowed(fileType models.FileType, allowed []models.FileType) error {
	if allowed == nil {
		return nil
	}
	for _, t := range allowed {
		if t == fileType {
			return nil
		}
	}
	return apperrors.ErrFileTypeNotAllowed(string(fileType))
}
