package models

type Role struct {
	BaseModel
	Name     RoleName `gorm:"type:varchar(32);not null;uniqueIndex" json:"name"`
	IsActive bool     `gorm:"default:true" json:"isActive"`
	// Роль с привязкой к магазину требует shop_id при проверке прав
	IsForShop bool `gorm:"default:false" json:"isForShop"`
}

// ShopUserRole - назначение роли пользователю. Для платформенных ролей
// shop_id пустой, для ролей в рамках магазина - обязателен.
type ShopUserRole struct {
	BaseModel
	RoleID string `gorm:"not null;index" json:"roleId"`
	Role   *Role  `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	ShopID string `gorm:"index" json:"shopId,omitempty"`
	Shop   *Shop  `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	UserID string `gorm:"not null;index" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID" json:"-"`
}
