package Models

import (
	"gorm.io/gorm"
)

// Reservation statuses.
const (
	ReservationPending    = "PENDING"
	ReservationConfirmed  = "CONFIRMED"
	ReservationCheckedIn  = "CHECKED_IN"
	ReservationCheckedOut = "CHECKED_OUT"
	ReservationCancelled  = "CANCELLED"
)

// Reservation represents a booked stay. Check-in and check-out are stored
// as calendar-date strings ("2006-01-02", optionally with a clock) so a
// reservation made for a day stays a day regardless of server timezone.
type Reservation struct {
	gorm.Model
	Code       string   `json:"code" gorm:"uniqueIndex;not null"`
	CustomerID uint     `json:"customer_id" gorm:"index;not null"`
	Customer   Customer `json:"customer" gorm:"foreignKey:CustomerID"`

	RoomTypeID uint     `json:"room_type_id" gorm:"index;not null"`
	RoomType   RoomType `json:"room_type" gorm:"foreignKey:RoomTypeID"`
	RoomID     *uint    `json:"room_id" gorm:"index"` // Assigned at check-in
	Room       *Room    `json:"room" gorm:"foreignKey:RoomID"`

	Cats []Cat `json:"cats" gorm:"many2many:reservation_cats"`

	CheckIn  string `json:"check_in" gorm:"not null"`
	CheckOut string `json:"check_out" gorm:"not null"`
	Status   string `json:"status" gorm:"type:varchar(20);index;default:PENDING"`

	SharedRoom bool   `json:"shared_room"`
	Notes      string `json:"notes" gorm:"type:text"`
}

// IsValidReservationStatus reports whether s is a known reservation status.
func IsValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn,
		ReservationCheckedOut, ReservationCancelled:
		return true
	}
	return false
}
