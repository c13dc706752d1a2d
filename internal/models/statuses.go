package models

type ShopStatus string
type VerificationStatus string
type FileType string
type UserStatus string
type BlogStatus string
type RoleName string

const (
	ShopStatusActive   ShopStatus = "active"
	ShopStatusInactive ShopStatus = "inactive"

	// Статусы верификации магазина. Порядок фиксированный, движение
	// только вперед (см. VerificationStatus.Rank).
	VerificationUnverified       VerificationStatus = "unverified"
	VerificationDocumentUploaded VerificationStatus = "shop_document_uploaded"
	VerificationContract         VerificationStatus = "contract"
	VerificationInProgress       VerificationStatus = "in_progress"
	VerificationVerified         VerificationStatus = "verified"

	// Категории файлов магазина
	FileTypeLogo     FileType = "logo"
	FileTypeBanner   FileType = "banner"
	FileTypeVideo    FileType = "video"
	FileTypeDoc      FileType = "doc"
	FileTypeContract FileType = "contract"

	// Статусы пользователя (цепочка загрузки документов)
	UserStatusRegistered           UserStatus = "registered"
	UserStatusUploadInformation    UserStatus = "upload_information"
	UserStatusUploadedNationalCard UserStatus = "uploaded_national_card"
	UserStatusUploadedAllDocuments UserStatus = "uploaded_all_documents"
	UserStatusVerified             UserStatus = "verified"

	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"

	// Роли: admin - платформенный администратор,
	// admin_shop - администратор в рамках конкретного магазина
	RoleAdmin     RoleName = "admin"
	RoleAdminShop RoleName = "admin_shop"
	RoleUser      RoleName = "user"
)

var verificationOrder = map[VerificationStatus]int{
	VerificationUnverified:       0,
	VerificationDocumentUploaded: 1,
	VerificationContract:         2,
	VerificationInProgress:       3,
	VerificationVerified:         4,
}

// Rank возвращает позицию статуса в цепочке верификации (-1 для неизвестного)
func (s VerificationStatus) Rank() int {
	rank, ok := verificationOrder[s]
	if !ok {
		return -1
	}
	return rank
}

// CanAdvanceTo проверяет, что next - это следующий шаг цепочки.
// Статус никогда не откатывается и не перепрыгивает через шаги.
func (s VerificationStatus) CanAdvanceTo(next VerificationStatus) bool {
	cur, nxt := s.Rank(), next.Rank()
	return cur >= 0 && nxt >= 0 && nxt == cur+1
}

// AllFileTypes - закрытый перечень категорий файлов магазина
var AllFileTypes = []FileType{
	FileTypeLogo,
	FileTypeBanner,
	FileTypeVideo,
	FileTypeDoc,
	FileTypeContract,
}

// Valid проверяет принадлежность категории закрытому перечню
func (t FileType) Valid() bool {
	switch t {
	case FileTypeLogo, FileTypeBanner, FileTypeVideo, FileTypeDoc, FileTypeContract:
		return true
	}
	return false
}

// IsVerificationDocument - категории, участвующие в верификации магазина
func (t FileType) IsVerificationDocument() bool {
	return t == FileTypeDoc || t == FileTypeContract
}
