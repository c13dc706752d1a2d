package models

import "time"

// Profile - публичный профиль пользователя, одна строка на пользователя.
// Строка создается лениво при первом обращении; username до выбора
// пользователем генерируется автоматически.
type Profile struct {
	BaseModel
	UserID   string     `gorm:"not null;uniqueIndex" json:"userId"`
	Username string     `gorm:"not null;uniqueIndex" json:"username"`
	Bio      string     `json:"bio,omitempty"`
	Birthday *time.Time `gorm:"type:date" json:"birthday,omitempty"`
	// Ключ аватара нужен пути обновления: вытесненный блоб удаляется
	// из хранилища
	Avatar    string `json:"avatar,omitempty"`
	AvatarKey string `json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
