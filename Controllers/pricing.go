package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Whiskers/Models"
)

// PricingController serves the pricing settings singleton. The values are
// configuration for the dashboard; no discount math happens here.
type PricingController struct {
	DB *gorm.DB
}

func NewPricingController(db *gorm.DB) *PricingController {
	return &PricingController{DB: db}
}

// GetPricingSettings returns the current settings, creating defaults on
// first access.
func (c *PricingController) GetPricingSettings(ctx *fiber.Ctx) error {
	settings, err := Models.GetPricingSettings(c.DB)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load pricing settings"})
	}
	return ctx.JSON(settings)
}

// UpdatePricingSettings replaces the singleton's values.
func (c *PricingController) UpdatePricingSettings(ctx *fiber.Ctx) error {
	settings, err := Models.GetPricingSettings(c.DB)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load pricing settings"})
	}

	var input Models.PricingSettings
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.MultiCatDiscountPct < 0 || input.MultiCatDiscountPct > 100 ||
		input.SharedRoomDiscountPct < 0 || input.SharedRoomDiscountPct > 100 ||
		input.LongStayDiscountPct < 0 || input.LongStayDiscountPct > 100 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Discount percentages must be between 0 and 100"})
	}
	if input.LongStayThresholdDays < 1 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Long stay threshold must be at least 1 day"})
	}

	err = c.DB.Model(&settings).Updates(map[string]interface{}{
		"multi_cat_discount_pct":    input.MultiCatDiscountPct,
		"shared_room_discount_pct":  input.SharedRoomDiscountPct,
		"long_stay_discount_pct":    input.LongStayDiscountPct,
		"long_stay_threshold_days":  input.LongStayThresholdDays,
		"default_overbooking":       input.DefaultOverbooking,
		"currency":                  input.Currency,
	}).Error
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update pricing settings"})
	}
	return ctx.JSON(settings)
}
