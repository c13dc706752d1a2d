package dto

import "time"

// UpdateProfileRequest - частичное обновление профиля; Avatar опционален
// и приходит multipart-полем avatar
type UpdateProfileRequest struct {
	Username *string       `json:"username,omitempty" form:"username" validate:"omitempty,min=3,max=32"`
	Bio      *string       `json:"bio,omitempty" form:"bio" validate:"omitempty,max=500"`
	Birthday *string       `json:"birthday,omitempty" form:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Avatar   *UploadedFile `json:"-" form:"-"`
}

// ProfileResponse - профиль в ответе API
type ProfileResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Username  string     `json:"username"`
	Bio       string     `json:"bio,omitempty"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
