package models

type Blog struct {
	BaseModelWithDeleted
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Slug        string     `gorm:"not null;uniqueIndex" json:"slug"`
	Content     string     `gorm:"type:text" json:"content,omitempty"`
	Image       string     `json:"image,omitempty"`
	ImageKey    string     `json:"-"`
	Status      BlogStatus `gorm:"type:varchar(16);default:'draft'" json:"status"`
	AuthorID    string     `gorm:"not null;index" json:"authorId"`
	Author      *User      `gorm:"foreignKey:AuthorID" json:"-"`
	// Пустой shop_id означает блог платформы, а не магазина
	ShopID string `gorm:"index" json:"shopId,omitempty"`
	Shop   *Shop  `gorm:"foreignKey:ShopID" json:"shop,omitempty"`

	Categories []BlogCategory `gorm:"foreignKey:BlogID" json:"categories,omitempty"`
}

// BlogCategory - связка блога с категорией; мягко удаляется вместе с блогом
type BlogCategory struct {
	BaseModelWithDeleted
	BlogID     string    `gorm:"not null;index" json:"blogId"`
	CategoryID string    `gorm:"not null;index" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
