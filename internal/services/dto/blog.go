package dto

import (
	"time"

	"shophub_backend/internal/models"
	"shophub_backend/pkg/pagination"
)

// CreateBlogRequest - создание записи блога; Image опционален
type CreateBlogRequest struct {
	Title       string            `json:"title" form:"title" validate:"required,min=3,max=200"`
	Description string            `json:"description,omitempty" form:"description" validate:"omitempty,max=500"`
	Content     string            `json:"content" form:"content" validate:"required"`
	Status      models.BlogStatus `json:"status" form:"status" validate:"omitempty,oneof=draft published"`
	CategoryIDs []string          `json:"categoryIds" form:"categoryIds" validate:"omitempty,dive,uuid"`
	Image       *UploadedFile     `json:"-" form:"-"`
}

// UpdateBlogRequest - частичное обновление записи
type UpdateBlogRequest struct {
	Title       *string            `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string            `json:"description,omitempty" validate:"omitempty,max=500"`
	Content     *string            `json:"content,omitempty"`
	Status      *models.BlogStatus `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	CategoryIDs []string           `json:"categoryIds,omitempty" validate:"omitempty,dive,uuid"`
	Image       *UploadedFile      `json:"-"`
}

// BlogResponse - запись блога в ответе API
type BlogResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Slug        string             `json:"slug"`
	Content     string             `json:"content"`
	Image       string             `json:"image,omitempty"`
	Status      models.BlogStatus  `json:"status"`
	AuthorID    string             `json:"authorId"`
	ShopID      string             `json:"shopId,omitempty"`
	Categories  []CategoryResponse `json:"categories,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// BlogListResponse - страница записей с метаданными пагинации
type BlogListResponse struct {
	Items      []BlogResponse  `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}
