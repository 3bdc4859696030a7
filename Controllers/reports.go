package Controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"Whiskers/Models"
)

// ReportController exports operational reports as Excel workbooks.
type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// ExportReservations writes all reservations in a date window to an xlsx
// workbook and streams it to the client.
// GET /api/reports/reservations?from=2025-01-01&to=2025-01-31
func (c *ReportController) ExportReservations(ctx *fiber.Ctx) error {
	from := ctx.Query("from")
	to := ctx.Query("to")
	if from == "" || to == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from and to query parameters are required"})
	}
	if _, err := time.Parse("2006-01-02", from); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be YYYY-MM-DD"})
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be YYYY-MM-DD"})
	}

	var reservations []Models.Reservation
	result := c.DB.
		Preload("Customer").
		Preload("RoomType").
		Preload("Cats").
		Where("check_in <= ? AND check_out >= ?", to, from).
		Order("check_in ASC").
		Find(&reservations)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve reservations"})
	}

	f := excelize.NewFile()
	sheet := "Reservations"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Code", "Customer", "Room Type", "Cats", "Check-in", "Check-out", "Status", "Shared"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIndex, r := range reservations {
		catNames := ""
		for i, cat := range r.Cats {
			if i > 0 {
				catNames += ", "
			}
			catNames += cat.Name
		}
		values := []interface{}{
			r.Code, r.Customer.Name, r.RoomType.Name, catNames,
			r.CheckIn, r.CheckOut, r.Status, r.SharedRoom,
		}
		for colIndex, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}

	filename := fmt.Sprintf("reservations_%s_%s.xlsx", from, to)
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", "attachment; filename="+filename)
	return ctx.Send(buf.Bytes())
}

// GetOccupancyStats returns per-room-type occupancy counts for a given
// date, for the dashboard widgets.
// GET /api/reports/occupancy?date=2025-01-10
func (c *ReportController) GetOccupancyStats(ctx *fiber.Ctx) error {
	date := ctx.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}

	var roomTypes []Models.RoomType
	if result := c.DB.Preload("Rooms").Find(&roomTypes); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve room types"})
	}

	type occupancyRow struct {
		RoomType     string `json:"room_type"`
		Rooms        int    `json:"rooms"`
		Occupied     int64  `json:"occupied"`
		Overbookable int    `json:"overbookable"`
	}

	rows := make([]occupancyRow, 0, len(roomTypes))
	for _, rt := range roomTypes {
		var occupied int64
		c.DB.Model(&Models.Reservation{}).
			Where("room_type_id = ? AND status = ? AND check_in <= ? AND check_out >= ?",
				rt.ID, Models.ReservationCheckedIn, date, date).
			Count(&occupied)
		rows = append(rows, occupancyRow{
			RoomType:     rt.Name,
			Rooms:        len(rt.Rooms),
			Occupied:     occupied,
			Overbookable: rt.OverbookingLimit,
		})
	}

	return ctx.JSON(fiber.Map{
		"date":      date,
		"occupancy": rows,
	})
}

// GetTaskStats summarizes the task board by status, for the widgets row.
func (c *ReportController) GetTaskStats(ctx *fiber.Ctx) error {
	stats := fiber.Map{}
	for _, status := range []string{Models.TaskOpen, Models.TaskInProgress, Models.TaskDone, Models.TaskCancelled} {
		var count int64
		c.DB.Model(&Models.CareTask{}).Where("status = ?", status).Count(&count)
		stats[status] = count
	}

	var overdue int64
	c.DB.Model(&Models.CareTask{}).
		Where("status IN ? AND scheduled_at < ?",
			[]string{Models.TaskOpen, Models.TaskInProgress}, time.Now()).
		Count(&overdue)
	stats["OVERDUE"] = overdue

	return ctx.JSON(stats)
}
