package models

// User represents a registered customer of the store.
type User struct {
	ID       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Password string `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
}

// TableName pins the table name used by the SQL schema.
func (User) TableName() string { return "users" }
