package models

type Shop struct {
	BaseModel
	Name        string     `gorm:"not null;uniqueIndex" json:"name"`
	Address     string     `json:"address,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	Email       string     `json:"email,omitempty"`
	Status      ShopStatus `gorm:"type:varchar(16);default:'inactive'" json:"status"`
	// Движется только вперед по цепочке верификации;
	// путь загрузки файлов никогда не откатывает значение
	VerificationStatus VerificationStatus `gorm:"type:varchar(32);default:'unverified'" json:"verificationStatus"`

	Files     []ShopFile     `gorm:"foreignKey:ShopID" json:"files,omitempty"`
	UserRoles []ShopUserRole `gorm:"foreignKey:ShopID" json:"-"`
}

// ShopLocation - адресная точка магазина (одна на магазин)
type ShopLocation struct {
	BaseModel
	ShopID         string  `gorm:"not null;uniqueIndex" json:"shopId"`
	City           string  `json:"city"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	AddressDetails string  `json:"addressDetails,omitempty"`
}
