package Models

import (
	"time"

	"gorm.io/gorm"
)

// Care task types.
const (
	TaskFeeding    = "FEEDING"
	TaskCleaning   = "CLEANING"
	TaskMedication = "MEDICATION"
	TaskPlaytime   = "PLAYTIME"
	TaskCheckIn    = "CHECKIN"
	TaskCheckOut   = "CHECKOUT"
	TaskNote       = "NOTE"
)

// Care task statuses.
const (
	TaskOpen       = "OPEN"
	TaskInProgress = "IN_PROGRESS"
	TaskDone       = "DONE"
	TaskCancelled  = "CANCELLED"
)

// CareTask is a persisted unit of staff work, optionally tied to a cat,
// a reservation and an assigned staff member. CompletedAt is set when the
// task transitions into DONE and is never cleared afterwards.
type CareTask struct {
	gorm.Model
	Type   string `json:"type" gorm:"type:varchar(20);not null"`
	Status string `json:"status" gorm:"type:varchar(20);index;default:OPEN"`
	Notes  string `json:"notes" gorm:"type:text"`

	ScheduledAt *time.Time `json:"scheduled_at" gorm:"index"`
	CompletedAt *time.Time `json:"completed_at"`

	CatID *uint `json:"cat_id" gorm:"index"`
	Cat   *Cat  `json:"cat" gorm:"foreignKey:CatID"`

	ReservationID *uint        `json:"reservation_id" gorm:"index"`
	Reservation   *Reservation `json:"reservation" gorm:"foreignKey:ReservationID"`

	AssignedStaffID *uint        `json:"assigned_staff_id" gorm:"index"`
	AssignedStaff   *StaffMember `json:"assigned_staff" gorm:"foreignKey:AssignedStaffID"`
}

func (CareTask) TableName() string {
	return "care_tasks"
}

// IsValidTaskStatus reports whether s is a known task status.
func IsValidTaskStatus(s string) bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskDone, TaskCancelled:
		return true
	}
	return false
}

// IsValidTaskType reports whether s is a known task type.
func IsValidTaskType(s string) bool {
	switch s {
	case TaskFeeding, TaskCleaning, TaskMedication, TaskPlaytime,
		TaskCheckIn, TaskCheckOut, TaskNote:
		return true
	}
	return false
}
