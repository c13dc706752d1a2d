package models

import (
	"gorm.io/datatypes"
)

// ShopFile - один загруженный медиа-файл или документ магазина.
// Инварианты на пару (shop_id, file_type):
//   - число неудаленных строк не превышает maxTotal категории;
//   - число неудаленных строк с is_active=true не превышает maxActive.
// Оба лимита контролирует сервис файлов внутри транзакции.
type ShopFile struct {
	BaseModelWithDeleted
	ShopID   string   `gorm:"not null;index:idx_shop_files_shop_type" json:"shopId"`
	FileType FileType `gorm:"type:varchar(16);not null;index:idx_shop_files_shop_type" json:"fileType"`
	FileURL  string   `gorm:"not null" json:"fileUrl"`
	// Ключ объекта в хранилище; нужен пути обновления для удаления
	// вытесненного блоба. Мягкое удаление ключ не трогает.
	StorageKey string         `gorm:"not null" json:"-"`
	IsActive   bool           `gorm:"default:false" json:"isActive"`
	MimeType   string         `json:"mimeType,omitempty"`
	Size       int64          `json:"size,omitempty"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
}
