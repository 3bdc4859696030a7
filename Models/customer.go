package Models

import (
	"gorm.io/gorm"
)

type Customer struct {
	gorm.Model
	UserID *uint  `json:"user_id" gorm:"index"` // Nullable for walk-in customers without a login
	Name   string `json:"name" gorm:"not null"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Notes  string `json:"notes" gorm:"type:text"`

	Cats []Cat `json:"cats" gorm:"foreignKey:CustomerID"`
}
