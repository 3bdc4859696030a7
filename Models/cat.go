package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Cat struct {
	gorm.Model
	CustomerID uint   `json:"customer_id" gorm:"index;not null"`
	Name       string `json:"name" gorm:"not null"`
	Breed      string `json:"breed"`
	BirthDate  string `json:"birth_date"` // "2006-01-02"
	Gender     string `json:"gender"`
	Neutered   bool   `json:"neutered"`

	// Feeding schedule, allergies and medication notes kept as a JSON
	// document so the intake form can evolve without migrations.
	DietaryInfo datatypes.JSON `json:"dietary_info"`

	MedicalNotes  string `json:"medical_notes" gorm:"type:text"`
	PhotoPath     string `json:"photo_path"`
	ThumbnailPath string `json:"thumbnail_path"`
}
