package dto

import (
	"time"

	"shophub_backend/internal/models"
)

// UpdateIdentityRequest - ввод настоящих имени и фамилии
type UpdateIdentityRequest struct {
	RealName   string `json:"realName" validate:"required,min=2,max=100"`
	RealFamily string `json:"realFamily" validate:"required,min=2,max=100"`
}

// UserResponse - пользователь в ответе API
type UserResponse struct {
	ID         string            `json:"id"`
	Mobile     string            `json:"mobile"`
	IsVerified bool              `json:"isVerified"`
	RealName   string            `json:"realName,omitempty"`
	RealFamily string            `json:"realFamily,omitempty"`
	Status     models.UserStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}
