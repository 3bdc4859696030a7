package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomType groups rooms with the same capacity and pricing. The
// overbooking limit is stored and served to clients; no arbitration
// logic runs against it here.
type RoomType struct {
	gorm.Model
	Name             string  `json:"name" gorm:"uniqueIndex;not null"`
	Description      string  `json:"description" gorm:"type:text"`
	BasePricePerDay  float64 `json:"base_price_per_day"`
	Capacity         int     `json:"capacity" gorm:"default:1"`
	OverbookingLimit int     `json:"overbooking_limit"`

	Rooms []Room `json:"rooms" gorm:"foreignKey:RoomTypeID"`
}

type Room struct {
	gorm.Model
	RoomTypeID  uint     `json:"room_type_id" gorm:"index;not null"`
	RoomType    RoomType `json:"room_type" gorm:"foreignKey:RoomTypeID"`
	Number      string   `json:"number" gorm:"uniqueIndex;not null"`
	Floor       int      `json:"floor"`
	AllowShared bool     `json:"allow_shared"`

	// Amenities as a JSON list, e.g. ["window perch", "cat tree"].
	Amenities datatypes.JSON `json:"amenities"`

	OutOfService bool   `json:"out_of_service"`
	Notes        string `json:"notes" gorm:"type:text"`
}
