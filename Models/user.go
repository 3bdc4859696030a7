package Models

import (
	"gorm.io/gorm"
)

// Permission levels gate the API. Customers hold no staff permission and
// can never reach the task or management routes.
const (
	PermissionCustomer = 0
	PermissionStaff    = 1
	PermissionManager  = 3
	PermissionAdmin    = 4
)

// Role names as exposed to clients and stored on the user row.
const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

type User struct {
	Id         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	Password   []byte `json:"-"`
	Role       string `json:"role" gorm:"type:varchar(20);default:CUSTOMER"`
	Permission int    `json:"permission"`
	IsApproved int    `json:"is_approved"`
}

// StaffMember is the staffing profile behind a User with the STAFF role.
// Care tasks are assigned to staff members, not directly to users.
type StaffMember struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"index;not null"`
	User     User   `json:"user" gorm:"foreignKey:UserID"`
	Position string `json:"position"`
	Phone    string `json:"phone"`
}

// PermissionForRole maps a role name to its permission level.
func PermissionForRole(role string) int {
	switch role {
	case RoleAdmin:
		return PermissionAdmin
	case RoleManager:
		return PermissionManager
	case RoleStaff:
		return PermissionStaff
	default:
		return PermissionCustomer
	}
}
