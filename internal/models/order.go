package models

// Order represents a product purchase made by a user.
type Order struct {
	ID      int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID  int64   `json:"user_id" gorm:"index"`
	Product *string `json:"product" gorm:"type:varchar(100)"`
	Amount  *Money  `json:"amount" gorm:"type:decimal(10,2)"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// OrderSummary is an order joined with the name of the user who placed it.
type OrderSummary struct {
	ID      int64   `json:"id"`
	Name    *string `json:"name"`
	Product *string `json:"product"`
	Amount  *Money  `json:"amount"`
}
