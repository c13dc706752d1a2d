package models

import (
	"time"
)

type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BaseModelWithDeleted добавляет явную отметку мягкого удаления.
// Сознательно НЕ используем gorm.DeletedAt: все выборки обязаны сами
// исключать удаленные строки условием deleted_at IS NULL, без скрытых
// фильтров ORM.
type BaseModelWithDeleted struct {
	BaseModel
	DeletedAt *time.Time `gorm:"index" json:"-"`
}

// IsDeleted сообщает, помечена ли строка как удаленная
func (m *BaseModelWithDeleted) IsDeleted() bool {
	return m.DeletedAt != nil
}
