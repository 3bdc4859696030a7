package Models

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DeviceToken stores an FCM registration token for a staff user's phone so
// the care scheduler can push overdue-task reminders.
type DeviceToken struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index;not null"`
	Value  string `json:"value" gorm:"not null"`
}

type UpdateDeviceTokenRequest struct {
	Value string `json:"value" validate:"required"`
}

// UpdateDeviceToken registers or refreshes the FCM token for the logged-in
// user. One token per user; re-registering replaces the stored value.
func UpdateDeviceToken(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not Logged In.",
		})
	}

	var req UpdateDeviceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Value == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Token value is required",
		})
	}

	var token DeviceToken
	err := DB.Where("user_id = ?", user.Id).FirstOrCreate(&token, DeviceToken{
		UserID: user.Id,
		Value:  req.Value,
	}).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create/update token",
		})
	}

	if token.Value != req.Value {
		token.Value = req.Value
		if err := DB.Save(&token).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update token",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Token updated successfully",
	})
}

// StaffDeviceTokens returns the registered tokens for every user holding
// at least staff permission.
func StaffDeviceTokens(db *gorm.DB) ([]string, error) {
	var values []string
	err := db.Model(&DeviceToken{}).
		Joins("JOIN users ON users.id = device_tokens.user_id").
		Where("users.permission >= ?", PermissionStaff).
		Pluck("device_tokens.value", &values).Error
	return values, err
}
