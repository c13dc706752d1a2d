package services

import (
	"shophub_backend/internal/models"
	"shophub_backend/pkg/apperrors"
)

// ============================================
// ПОЛИТИКА ФАЙЛОВ МАГАЗИНА
// ============================================

// FileValidationRules - допустимые MIME-типы и предельный размер
// одного файла для категории
type FileValidationRules struct {
	AllowedMimeTypes map[string]struct{}
	MaxSizeBytes     int64
}

// Allows проверяет MIME-тип по белому списку категории
func (r FileValidationRules) Allows(mimeType string) bool {
	_, ok := r.AllowedMimeTypes[mimeType]
	return ok
}

// filePolicy - лимиты одной категории файлов
type filePolicy struct {
	maxTotal  int
	maxActive int
	rules     FileValidationRules
}

var imageMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/jpg":  {},
}

var documentMimeTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/jpg":       {},
	"application/pdf": {},
}

// Лимиты категорий. Размеры в десятичных мегабайтах (1000*1000).
var filePolicies = map[models.FileType]filePolicy{
	models.FileTypeLogo: {
		maxTotal:  3,
		maxActive: 1,
		rules: FileValidationRules{
			AllowedMimeTypes: imageMimeTypes,
			MaxSizeBytes:     24 * 1000 * 1000,
		},
	},
	models.FileTypeBanner: {
		maxTotal:  6,
		maxActive: 2,
		rules: FileValidationRules{
			AllowedMimeTypes: imageMimeTypes,
			MaxSizeBytes:     24 * 1000 * 1000,
		},
	},
	models.FileTypeVideo: {
		maxTotal:  2,
		maxActive: 1,
		rules: FileValidationRules{
			AllowedMimeTypes: map[string]struct{}{"video/mp4": {}},
			MaxSizeBytes:     300 * 1000 * 1000,
		},
	},
	models.FileTypeDoc: {
		maxTotal:  1,
		maxActive: 1,
		rules: FileValidationRules{
			AllowedMimeTypes: documentMimeTypes,
			MaxSizeBytes:     10 * 1000 * 1000,
		},
	},
	models.FileTypeContract: {
		maxTotal:  1,
		maxActive: 1,
		rules: FileValidationRules{
			AllowedMimeTypes: documentMimeTypes,
			MaxSizeBytes:     10 * 1000 * 1000,
		},
	},
}

// FilePolicy отвечает на вопросы о лимитах категорий файлов магазина.
// Таблица закрытая: неизвестная категория - это всегда ошибка валидации.
type FilePolicy struct{}

func NewFilePolicy() *FilePolicy {
	return &FilePolicy{}
}

// MaxTotal - предел общего числа неудаленных файлов категории
func (p *FilePolicy) MaxTotal(fileType models.FileType) (int, error) {
	policy, ok := filePolicies[fileType]
	if !ok {
		return 0, apperrors.ErrInvalidFileType
	}
	return policy.maxTotal, nil
}

// MaxActive - предел одновременно активных файлов категории.
// Для неизвестной категории возвращает 1: путь активации всегда
// сначала резолвит строки, так что сюда попадают только известные типы.
func (p *FilePolicy) MaxActive(fileType models.FileType) int {
	policy, ok := filePolicies[fileType]
	if !ok {
		return 1
	}
	return policy.maxActive
}

// ValidationRules - MIME-типы и предельный размер файла категории
func (p *FilePolicy) ValidationRules(fileType models.FileType) (FileValidationRules, error) {
	policy, ok := filePolicies[fileType]
	if !ok {
		return FileValidationRules{}, apperrors.ErrInvalidFileType
	}
	return policy.rules, nil
}
