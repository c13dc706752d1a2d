package repositories

import (
	"context"

	"shophub_backend/internal/models"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByNames(ctx context.Context, names []models.RoleName) ([]models.Role, error)
	CreateBatch(ctx context.Context, roles []*models.Role) error
	AssignRole(ctx context.Context, assignment *models.ShopUserRole) error
	// HasRole проверяет назначение роли; для платформенных ролей shopID пустой
	HasRole(ctx context.Context, userID string, roleName models.RoleName, shopID string) (bool, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByNames(ctx context.Context, names []models.RoleName) ([]models.Role, error) {
	db := dbFromContext(ctx, r.db)

	var roles []models.Role
	if err := db.WithContext(ctx).Where("name IN ?", names).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) CreateBatch(ctx context.Context, roles []*models.Role) error {
	if len(roles) == 0 {
		return nil
	}
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Create(roles).Error
}

func (r *roleRepository) AssignRole(ctx context.Context, assignment *models.ShopUserRole) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Create(assignment).Error
}

func (r *roleRepository) HasRole(ctx context.Context, userID string, roleName models.RoleName, shopID string) (bool, error) {
	db := dbFromContext(ctx, r.db)

	query := db.WithContext(ctx).
		Model(&models.ShopUserRole{}).
		Joins("JOIN roles ON roles.id = shop_user_roles.role_id").
		Where("shop_user_roles.user_id = ? AND roles.name = ? AND roles.is_active = ?",
			userID, roleName, true)
	if shopID != "" {
		query = query.Where("shop_user_roles.shop_id = ?", shopID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
