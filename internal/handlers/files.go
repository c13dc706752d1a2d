package handlers

import (
	"mime/multipart"

	"shophub_backend/internal/services/dto"
	"shophub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// openFormFiles открывает все файлы multipart-поля и отдает их сервису
// как dto.UploadedFile. Возвращаемый closer обязателен к вызову.
func openFormFiles(c *gin.Context, field string) ([]dto.UploadedFile, func(), bool) {
	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
		return nil, nil, false
	}

	headers := form.File[field]
	if len(headers) == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("No files in field '"+field+"'"))
		return nil, nil, false
	}

	files := make([]dto.UploadedFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closer := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, header := range headers {
		src, err := header.Open()
		if err != nil {
			closer()
			apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to open uploaded file"))
			return nil, nil, false
		}
		opened = append(opened, src)
		files = append(files, dto.UploadedFile{
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Reader:   src,
		})
	}
	return files, closer, true
}

// singleFormFile - вариант для полей с одним файлом
func singleFormFile(c *gin.Context, field string) (dto.UploadedFile, func(), bool) {
	files, closer, ok := openFormFiles(c, field)
	if !ok {
		return dto.UploadedFile{}, nil, false
	}
	if len(files) > 1 {
		closer()
		apperrors.HandleError(c, apperrors.NewBadRequestError("Exactly one file is expected in field '"+field+"'"))
		return dto.UploadedFile{}, nil, false
	}
	return files[0], closer, true
}
