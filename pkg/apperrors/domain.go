package apperrors

import (
	"fmt"
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок
(магазины, файлы магазинов, верификация, блог, OTP).
*/

// =========================================================================
// Shops
// =========================================================================

// ErrShopNotFound - магазин с указанным id не существует (404)
func ErrShopNotFound(shopID string) *AppError {
	return New(CodeNotFound, "shop", "Shop not found", http.StatusNotFound).
		WithDetails(map[string]string{"shop_id": shopID})
}

// ErrShopAlreadyExists - магазин с таким именем уже есть (409)
var ErrShopAlreadyExists = New(
	CodeAlreadyExists,
	"shop",
	"Shop already exists",
	http.StatusConflict,
)

// ErrShopLocationNotFound - у магазина нет сохраненной локации
var ErrShopLocationNotFound = New(
	CodeNotFound,
	"shop",
	"Location not found for the specified shop",
	http.StatusNotFound,
)

// =========================================================================
// Shop files
// =========================================================================

// ErrInvalidFileType - тип файла вне закрытого перечня категорий (400)
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"shop_file",
	"Invalid file type",
	http.StatusBadRequest,
)

// ErrInvalidFile - MIME-тип или размер файла не проходят политику категории.
// details содержит список файлов с причинами отказа.
func ErrInvalidFile(details interface{}) *AppError {
	return New(CodeValidationFailed, "shop_file", "One or more files failed validation", http.StatusBadRequest).
		WithDetails(details)
}

// ErrFileCapacityExceeded - превышен лимит общего количества файлов категории (400)
func ErrFileCapacityExceeded(fileType string, limit, attempted int) *AppError {
	return New(CodeLimitExceeded, "shop_file",
		fmt.Sprintf("Cannot store more than %d %s files", limit, fileType),
		http.StatusBadRequest).
		WithDetails(map[string]int{"limit": limit, "attempted": attempted})
}

// ErrActiveCapacityExceeded - превышен лимит одновременно активных файлов (400)
func ErrActiveCapacityExceeded(fileType string, limit, attempted int) *AppError {
	return New(CodeLimitExceeded, "shop_file",
		fmt.Sprintf("Cannot activate more than %d %s files", limit, fileType),
		http.StatusBadRequest).
		WithDetails(map[string]int{"limit": limit, "attempted": attempted})
}

// ErrFilesNotFound - часть запрошенных файлов не найдена (чужой магазин,
// удалены или не существуют). details перечисляет отсутствующие id.
func ErrFilesNotFound(missingIDs []string) *AppError {
	return New(CodeNotFound, "shop_file", "One or more files not found", http.StatusNotFound).
		WithDetails(map[string][]string{"missing_ids": missingIDs})
}

// ErrFileTypeNotAllowed - у вызывающего нет прав на эту категорию файлов (401)
func ErrFileTypeNotAllowed(fileType string) *AppError {
	return New(CodeUnauthorized, "shop_file",
		"You do not have permission to manage files of this type",
		http.StatusUnauthorized).
		WithDetails(map[string]string{"file_type": fileType})
}

// =========================================================================
// Verification
// =========================================================================

// ErrInvalidVerificationTransition - загрузка DOC/CONTRACT в неподходящем
// статусе верификации. Статус магазина двигается только вперед.
func ErrInvalidVerificationTransition(current, required string) *AppError {
	return New(CodeInvalidStatus, "verification",
		"Shop verification status does not allow this upload",
		http.StatusBadRequest).
		WithDetails(map[string]string{"current": current, "required": required})
}

// =========================================================================
// Infrastructure (retryable)
// =========================================================================

// ErrStorageUnavailable - временный сбой объектного хранилища (503)
func ErrStorageUnavailable(err error) *AppError {
	return Wrap(err, CodeStorageError, "storage", "Object storage is temporarily unavailable", http.StatusServiceUnavailable)
}

// ErrDatabaseUnavailable - временный сбой БД (503)
func ErrDatabaseUnavailable(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "database", "Database is temporarily unavailable", http.StatusServiceUnavailable)
}

// =========================================================================
// Общие фабрики (используются вне ядра файлов)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404),
// когда ошибка репозитория (gorm.ErrRecordNotFound) должна стать AppError
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- OTP / Auth ---

// ErrOtpNotExpired - повторный запрос кода до истечения предыдущего
var ErrOtpNotExpired = New(
	CodeInvalidOperation,
	"auth",
	"The otp code has not expired yet",
	http.StatusBadRequest,
)

// ErrInvalidOtp - код не совпал или истек
var ErrInvalidOtp = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid or expired OTP",
	http.StatusUnauthorized,
)

// ErrInvalidRefreshToken - refresh-токен не прошел проверку
var ErrInvalidRefreshToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid refresh token",
	http.StatusUnauthorized,
)
