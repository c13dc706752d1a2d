package services

import (
	"context"
	"errors"

	"shophub_backend/internal/logger"
	"shophub_backend/internal/models"
	"shophub_backend/internal/repositories"
	"shophub_backend/pkg/apperrors"
)

// ============================================
// РОЛИ И ПРАВА
// ============================================

type RoleService interface {
	// SeedRoles создает недостающие предопределенные роли (идемпотентно)
	SeedRoles(ctx context.Context) error

	AssignRoleToUser(ctx context.Context, userID string, roleName models.RoleName, shopID string) error
	CheckUserRole(ctx context.Context, userID string, roleName models.RoleName, shopID string) (bool, error)

	// AllowedFileTypes выводит набор категорий файлов, которыми вызывающий
	// может управлять в магазине. nil означает полный доступ
	// (платформенный администратор).
	AllowedFileTypes(ctx context.Context, userID, shopID string) ([]models.FileType, error)
}

type roleService struct {
	roleRepo repositories.RoleRepository
	tx       repositories.TxManager
}

func NewRoleService(roleRepo repositories.RoleRepository, tx repositories.TxManager) RoleService {
	return &roleService{roleRepo: roleRepo, tx: tx}
}

// Категории, доступные администратору магазина. DOC и CONTRACT
// зарезервированы за платформенными администраторами.
var shopAdminFileTypes = []models.FileType{
	models.FileTypeLogo,
	models.FileTypeBanner,
	models.FileTypeVideo,
}

func (s *roleService) SeedRoles(ctx context.Context) error {
	seed := []struct {
		name      models.RoleName
		isForShop bool
	}{
		{models.RoleAdmin, false},
		{models.RoleAdminShop, true},
		{models.RoleUser, false},
	}

	names := make([]models.RoleName, 0, len(seed))
	for _, r := range seed {
		names = append(names, r.name)
	}

	return s.tx.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.roleRepo.FindByNames(txCtx, names)
		if err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		present := make(map[models.RoleName]struct{}, len(existing))
		for _, r := range existing {
			present[r.Name] = struct{}{}
		}

		var missing []*models.Role
		for _, r := range seed {
			if _, ok := present[r.name]; !ok {
				missing = append(missing, &models.Role{
					Name:      r.name,
					IsActive:  true,
					IsForShop: r.isForShop,
				})
			}
		}
		if len(missing) == 0 {
			return nil
		}
		if err := s.roleRepo.CreateBatch(txCtx, missing); err != nil {
			return apperrors.ErrDatabaseUnavailable(err)
		}
		logger.CtxInfo(txCtx, "roles seeded", "count", len(missing))
		return nil
	})
}

func (s *roleService) AssignRoleToUser(ctx context.Context, userID string, roleName models.RoleName, shopID string) error {
	roles, err := s.roleRepo.FindByNames(ctx, []models.RoleName{roleName})
	if err != nil {
		return apperrors.ErrDatabaseUnavailable(err)
	}
	if len(roles) == 0 {
		return apperrors.ErrNotFound(errors.New("role not found")).
			WithDetails(map[string]string{"role": string(roleName)})
	}
	role := roles[0]
	if role.IsForShop && shopID == "" {
		return apperrors.NewBadRequestError("shop id is required for a shop-scoped role")
	}

	has, err := s.roleRepo.HasRole(ctx, userID, roleName, shopID)
	if err != nil {
		return apperrors.ErrDatabaseUnavailable(err)
	}
	if has {
		return nil
	}

	assignment := &models.ShopUserRole{
		RoleID: role.ID,
		ShopID: shopID,
		UserID: userID,
	}
	if err := s.roleRepo.AssignRole(ctx, assignment); err != nil {
		return apperrors.ErrDatabaseUnavailable(err)
	}
	return nil
}

func (s *roleService) CheckUserRole(ctx context.Context, userID string, roleName models.RoleName, shopID string) (bool, error) {
	has, err := s.roleRepo.HasRole(ctx, userID, roleName, shopID)
	if err != nil {
		return false, apperrors.ErrDatabaseUnavailable(err)
	}
	return has, nil
}

func (s *roleService) AllowedFileTypes(ctx context.Context, userID, shopID string) ([]models.FileType, error) {
	isAdmin, err := s.CheckUserRole(ctx, userID, models.RoleAdmin, "")
	if err != nil {
		return nil, err
	}
	if isAdmin {
		return nil, nil
	}

	isShopAdmin, err := s.CheckUserRole(ctx, userID, models.RoleAdminShop, shopID)
	if err != nil {
		return nil, err
	}
	if isShopAdmin {
		return shopAdminFileTypes, nil
	}
	return nil, apperrors.NewForbiddenError("you have no role in this shop")
}
