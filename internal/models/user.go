package models

import "time"

type User struct {
	BaseModel
	Mobile     string     `gorm:"not null;uniqueIndex" json:"mobile"`
	IsVerified bool       `gorm:"default:false" json:"isVerified"`
	RealName   string     `json:"realName,omitempty"`
	RealFamily string     `json:"realFamily,omitempty"`
	Status     UserStatus `gorm:"type:varchar(32);default:'registered'" json:"status"`
	// bcrypt-хеш последнего выданного refresh-токена
	RefreshToken string `json:"-"`

	Otp       *Otp           `gorm:"foreignKey:UserID" json:"-"`
	Documents []UserDocument `gorm:"foreignKey:UserID" json:"-"`
	ShopRoles []ShopUserRole `gorm:"foreignKey:UserID" json:"-"`
}

// Otp - одноразовый код входа; на пользователя хранится не более одной строки
type Otp struct {
	BaseModel
	UserID    string    `gorm:"not null;uniqueIndex" json:"userId"`
	Code      string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
}

// Expired сообщает, истек ли код
func (o *Otp) Expired(now time.Time) bool {
	return o.ExpiresAt.Before(now)
}

type UserDocumentType string

const (
	UserDocumentNationalCard UserDocumentType = "national_card"
)

// UserDocument - документ пользователя (скан удостоверения и т.п.)
type UserDocument struct {
	BaseModel
	UserID       string           `gorm:"not null;index" json:"userId"`
	FileURL      string           `gorm:"not null" json:"fileUrl"`
	DocumentType UserDocumentType `gorm:"type:varchar(32);not null" json:"documentType"`
	IsActive     bool             `gorm:"default:false" json:"isActive"`
}
