package services

import (
	"context"
	"errors"

	"shophub_backend/internal/auth"
	"shophub_backend/internal/logger"
	"shophub_backend/internal/models"
	"shophub_backend/internal/repositories"
	"shophub_backend/internal/services/dto"
	"shophub_backend/pkg/apperrors"
)

// ============================================
// СЕРВИС МАГАЗИНОВ
// ============================================

type ShopService interface {
	// Create создает магазин и назначает создателю роль admin_shop
	// в одной транзакции
	Create(ctx context.Context, req *dto.CreateShopRequest, principal auth.Principal) (*dto.ShopResponse, error)
	Update(ctx context.Context, shopID string, req *dto.UpdateShopRequest) (*dto.ShopResponse, error)
	FindOneByID(ctx context.Context, shopID string) (*dto.ShopResponse, error)
	FindOneByName(ctx context.Context, name string) (*dto.ShopResponse, error)
	FindAllUserShops(ctx context.Context, userID string) ([]dto.UserShopItem, error)

	UpsertLocation(ctx context.Context, shopID string, req *dto.ShopLocationRequest) (*dto.ShopLocationResponse, error)
	FindLocation(ctx context.Context, shopID string) (*dto.ShopLocationResponse, error)

	// Административные шаги верификации; как и путь загрузки,
	// двигают статус строго на один шаг вперед
	StartVerificationReview(ctx context.Context, shopID string) error
	ApproveVerification(ctx context.Context, shopID string) error
}

type shopService struct {
	shopRepo repositories.ShopRepository
	roleRepo repositories.RoleRepository
	tx       repositories.TxManager
	email    VerificationNotifier
}

// VerificationNotifier уведомляет администраторов о событиях верификации.
// Отправка письма не должна ронять операцию, поэтому интерфейс без ошибок.
type VerificationNotifier interface {
	NotifyVerificationEvent(shopName string, status models.VerificationStatus)
}

func NewShopService(
	shopRepo repositories.ShopRepository,
	roleRepo repositories.RoleRepository,
	tx repositories.TxManager,
	email VerificationNotifier,
) ShopService {
	return &shopService{
		shopRepo: shopRepo,
		roleRepo: roleRepo,
		tx:       tx,
		email:    email,
	}
}

func (s *shopService) Create(ctx context.Context, req *dto.CreateShopRequest, principal auth.Principal) (*dto.ShopResponse, error) {
	_, err := s.shopRepo.FindByName(ctx, req.Name)
	if err == nil {
		return nil, apperrors.ErrShopAlreadyExists
	}
	if !errors.Is(err, repositories.ErrShopNotFound) {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	shop := &models.Shop{
		Name:               req.Name,
		Address:            req.Address,
		PhoneNumber:        req.PhoneNumber,
		Bio:                req.Bio,
		Email:              req.Email,
		Status:             models.ShopStatusInactive,
		VerificationStatus: models.VerificationUnverified,
	}

	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.shopRepo.Create(txCtx, shop); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}

		roles, err := s.roleRepo.FindByNames(txCtx, []models.RoleName{models.RoleAdminShop})
		if err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		if len(roles) == 0 {
			return apperrors.InternalError(errors.New("admin_shop role is not seeded"))
		}

		assignment := &models.ShopUserRole{
			RoleID: roles[0].ID,
			ShopID: shop.ID,
			UserID: principal.UserID,
		}
		if err := s.roleRepo.AssignRole(txCtx, assignment); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	logger.CtxInfo(ctx, "shop created", "shop_id", shop.ID, "name", shop.Name, "user_id", principal.UserID)
	return shopToResponse(shop), nil
}

func (s *shopService) Update(ctx context.Context, shopID string, req *dto.UpdateShopRequest) (*dto.ShopResponse, error) {
	shop, err := s.findShop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.PhoneNumber != nil {
		shop.PhoneNumber = *req.PhoneNumber
	}
	if req.Bio != nil {
		shop.Bio = *req.Bio
	}
	if req.Email != nil {
		shop.Email = *req.Email
	}

	if err := s.shopRepo.Save(ctx, shop); err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return shopToResponse(shop), nil
}

func (s *shopService) FindOneByID(ctx context.Context, shopID string) (*dto.ShopResponse, error) {
	shop, err := s.findShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return shopToResponse(shop), nil
}

func (s *shopService) FindOneByName(ctx context.Context, name string) (*dto.ShopResponse, error) {
	shop, err := s.shopRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrShopNotFound) {
			return nil, apperrors.ErrShopNotFound(name)
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return shopToResponse(shop), nil
}

// FindAllUserShops возвращает магазины пользователя с его ролью
// и активным логотипом каждого магазина
func (s *shopService) FindAllUserShops(ctx context.Context, userID string) ([]dto.UserShopItem, error) {
	assignments, _, err := s.shopRepo.FindUserShops(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}

	items := make([]dto.UserShopItem, 0, len(assignments))
	for _, a := range assignments {
		if a.Shop == nil {
			continue
		}
		item := dto.UserShopItem{ShopResponse: *shopToResponse(a.Shop)}
		if a.Role != nil {
			item.RoleName = a.Role.Name
		}
		if len(a.Shop.Files) > 0 {
			item.Logo = a.Shop.Files[0].FileURL
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *shopService) UpsertLocation(ctx context.Context, shopID string, req *dto.ShopLocationRequest) (*dto.ShopLocationResponse, error) {
	if _, err := s.findShop(ctx, shopID); err != nil {
		return nil, err
	}

	location := &models.ShopLocation{
		ShopID:         shopID,
		City:           req.City,
		Lat:            req.Lat,
		Lng:            req.Lng,
		AddressDetails: req.AddressDetails,
	}
	if err := s.shopRepo.UpsertLocation(ctx, location); err != nil {
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return locationToResponse(location), nil
}

func (s *shopService) FindLocation(ctx context.Context, shopID string) (*dto.ShopLocationResponse, error) {
	location, err := s.shopRepo.FindLocation(ctx, shopID)
	if err != nil {
		if errors.Is(err, repositories.ErrShopLocationNotFound) {
			return nil, apperrors.ErrShopLocationNotFound
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return locationToResponse(location), nil
}

// ============================================
// ВЕРИФИКАЦИЯ (АДМИНИСТРАТИВНЫЕ ШАГИ)
// ============================================

func (s *shopService) StartVerificationReview(ctx context.Context, shopID string) error {
	return s.advanceVerification(ctx, shopID, models.VerificationInProgress)
}

func (s *shopService) ApproveVerification(ctx context.Context, shopID string) error {
	return s.advanceVerification(ctx, shopID, models.VerificationVerified)
}

func (s *shopService) advanceVerification(ctx context.Context, shopID string, next models.VerificationStatus) error {
	var shopName string
	err := s.tx.Do(ctx, func(txCtx context.Context) error {
		shop, err := s.shopRepo.FindByIDForUpdate(txCtx, shopID)
		if err != nil {
			if errors.Is(err, repositories.ErrShopNotFound) {
				return apperrors.ErrShopNotFound(shopID)
			}
			return apperrors.ErrDatabaseUnavailable(err)
		}

		if !shop.VerificationStatus.CanAdvanceTo(next) {
			return apperrors.ErrInvalidVerificationTransition(
				string(shop.VerificationStatus), string(next))
		}
		shopName = shop.Name
		if err := s.shopRepo.UpdateVerificationStatus(txCtx, shopID, next); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.email != nil {
		s.email.NotifyVerificationEvent(shopName, next)
	}
	logger.CtxInfo(ctx, "shop verification advanced", "shop_id", shopID, "status", next)
	return nil
}

// ============================================
// ПРЕОБРАЗОВАНИЯ
// ============================================

func (s *shopService) findShop(ctx context.Context, shopID string) (*models.Shop, error) {
	shop, err := s.shopRepo.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, repositories.ErrShopNotFound) {
			return nil, apperrors.ErrShopNotFound(shopID)
		}
		return nil, apperrors.ErrDatabaseUnavailable(err)
	}
	return shop, nil
}

func shopToResponse(shop *models.Shop) *dto.ShopResponse {
	resp := &dto.ShopResponse{
		ID:                 shop.ID,
		Name:               shop.Name,
		Address:            shop.Address,
		PhoneNumber:        shop.PhoneNumber,
		Bio:                shop.Bio,
		Email:              shop.Email,
		Status:             shop.Status,
		VerificationStatus: shop.VerificationStatus,
		CreatedAt:          shop.CreatedAt,
	}
	for _, f := range shop.Files {
		if f.FileType == models.FileTypeLogo && f.IsActive && !f.IsDeleted() {
			resp.Logo = f.FileURL
			break
		}
	}
	return resp
}

func locationToResponse(location *models.ShopLocation) *dto.ShopLocationResponse {
	return &dto.ShopLocationResponse{
		ShopID:         location.ShopID,
		City:           location.City,
		Lat:            location.Lat,
		Lng:            location.Lng,
		AddressDetails: location.AddressDetails,
	}
}
