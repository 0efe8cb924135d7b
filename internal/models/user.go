package models

// User represents a registered user.
// Name and Email are nullable in the store, so a missing field round-trips as null.
type User struct {
	ID       int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     *string `json:"name" gorm:"type:varchar(100)"`
	Email    *string `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password string  `json:"password,omitempty" gorm:"type:varchar(255)"` // bcrypt hash, empty when the column is NULL
}
