package models

import (
	"math"
	"time"
)

// MaxID is the largest id the SERIAL/INTEGER id columns can hold.
const MaxID = math.MaxInt32

// ValidID reports whether id could name a stored row.
func ValidID(id int) bool {
	return id > 0 && id <= MaxID
}

// Order represents a customer order. It is owned by exactly one user.
type Order struct {
	ID     int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Date   time.Time `json:"date" gorm:"type:date;not null"`
	Note   *string   `json:"note" gorm:"type:text"`
	UserID int       `json:"user_id" gorm:"not null;index"`
	User   *User     `json:"-" gorm:"foreignKey:UserID"`
}

func (Order) TableName() string { return "orders" }

// OwnedBy reports whether the order belongs to the given user.
func (o *Order) OwnedBy(userID int) bool {
	return o.UserID == userID
}

// OrderProduct is a line item: a product and quantity attached to an order.
type OrderProduct struct {
	OrderID   int      `json:"order_id" gorm:"primaryKey;autoIncrement:false"`
	ProductID int      `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	Quantity  int      `json:"quantity" gorm:"not null"`
	Order     *Order   `json:"-" gorm:"foreignKey:OrderID"`
	Product   *Product `json:"-" gorm:"foreignKey:ProductID"`
}

func (OrderProduct) TableName() string { return "orders_products" }

// OrderedProduct is a product annotated with the quantity it has on an order.
type OrderedProduct struct {
	Product
	Quantity int `json:"quantity"`
}
