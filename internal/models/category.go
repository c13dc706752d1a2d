package models

type Category struct {
	BaseModel
	Name     string `gorm:"not null" json:"name"`
	Slug     string `gorm:"not null;uniqueIndex" json:"slug"`
	Image    string `json:"image,omitempty"`
	ImageKey string `json:"-"`
	Show     bool   `gorm:"default:true" json:"show"`
	ParentID *string `gorm:"index" json:"parentId,omitempty"`

	Subcategories []Category `gorm:"foreignKey:ParentID" json:"subcategories,omitempty"`
}
