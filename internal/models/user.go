package models

// DefaultSignupCredits is the starting balance granted to a new account.
const DefaultSignupCredits = 50

// UserModel represents an account that uploads menus and spends credits.
type UserModel struct {
	Base
	Email     string `json:"email"      gorm:"uniqueIndex;not null"`
	Password  string `json:"-"          gorm:"not null"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Birthday  string `json:"birthday"`
	Gender    string `json:"gender"`
	Credits   int    `json:"credits"    gorm:"not null;default:0"`
}

func (UserModel) TableName() string { return "users" }
