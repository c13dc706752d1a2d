package dto

// CreateCategoryRequest - создание категории; ParentID задает вложенность
type CreateCategoryRequest struct {
	Name     string        `json:"name" form:"name" validate:"required,min=2,max=100"`
	Show     *bool         `json:"show,omitempty" form:"show"`
	ParentID string        `json:"parentId,omitempty" form:"parentId" validate:"omitempty,uuid"`
	Image    *UploadedFile `json:"-" form:"-"`
}

// UpdateCategoryRequest - частичное обновление категории
type UpdateCategoryRequest struct {
	Name  *string       `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Show  *bool         `json:"show,omitempty"`
	Image *UploadedFile `json:"-"`
}

// CategoryResponse - категория в ответе API
type CategoryResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Slug          string             `json:"slug"`
	Image         string             `json:"image,omitempty"`
	Show          bool               `json:"show"`
	ParentID      string             `json:"parentId,omitempty"`
	Subcategories []CategoryResponse `json:"subcategories,omitempty"`
}
