package dto

import (
	"io"
	"time"

	"shophub_backend/internal/models"
)

// UploadedFile - один файл из multipart-запроса, уже открытый хендлером.
// Сервис не знает про multipart и работает с абстрактным ридером.
type UploadedFile struct {
	Filename string
	MimeType string
	Size     int64
	Reader   io.Reader
}

// UploadFilesResponse - результат пакетной загрузки
type UploadFilesResponse struct {
	StoredCount int             `json:"storedCount"`
	FileType    models.FileType `json:"fileType"`
}

// FileRejection - причина отказа по конкретному файлу
type FileRejection struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// ShopFileResponse - проекция строки shop_files для выдачи наружу
type ShopFileResponse struct {
	ID        string          `json:"id"`
	FileType  models.FileType `json:"fileType"`
	FileURL   string          `json:"fileUrl"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToggleActivationRequest - запрос переключения активности файлов
type ToggleActivationRequest struct {
	FileIDs []string `json:"fileIds" validate:"required,min=1,dive,uuid"`
}

// DeleteFilesRequest - запрос мягкого удаления файлов
type DeleteFilesRequest struct {
	FileIDs []string `json:"fileIds" validate:"required,min=1,dive,uuid"`
}
