package Models

import (
	"gorm.io/gorm"
)

// PricingSettings is a singleton row (id 1). The percentages are stored
// and served to the dashboard; no discount computation happens server-side.
type PricingSettings struct {
	gorm.Model
	MultiCatDiscountPct   float64 `json:"multi_cat_discount_pct"`
	SharedRoomDiscountPct float64 `json:"shared_room_discount_pct"`
	LongStayDiscountPct   float64 `json:"long_stay_discount_pct"`
	LongStayThresholdDays int     `json:"long_stay_threshold_days" gorm:"default:14"`
	DefaultOverbooking    int     `json:"default_overbooking_limit"`
	Currency              string  `json:"currency" gorm:"type:varchar(8);default:USD"`
}

// GetPricingSettings returns the singleton settings row, creating it with
// defaults the first time it is requested.
func GetPricingSettings(db *gorm.DB) (PricingSettings, error) {
	var settings PricingSettings
	err := db.Where("id = ?", 1).FirstOrCreate(&settings, PricingSettings{
		Model:                 gorm.Model{ID: 1},
		LongStayThresholdDays: 14,
		Currency:              "USD",
	}).Error
	return settings, err
}
