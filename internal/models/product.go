package models

// Product represents a product in the store. Products are created by seeding
// and are read-only through the API.
type Product struct {
	ID          int     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string  `json:"title" gorm:"type:varchar(255);not null"`
	Description string  `json:"description" gorm:"type:text;not null"`
	Price       float64 `json:"price" gorm:"type:numeric(10,2);not null"`
}

func (Product) TableName() string { return "products" }
