package Controllers

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/rand"
	"gorm.io/gorm"

	"Whiskers/Models"
	"Whiskers/Slack"
	"Whiskers/Tasks"
	"Whiskers/Validation"
	"Whiskers/email"
)

// ReservationController handles reservation endpoints and the
// check-in/check-out workflow.
type ReservationController struct {
	DB    *gorm.DB
	Tasks *Tasks.TaskService
}

func NewReservationController(db *gorm.DB) *ReservationController {
	return &ReservationController{DB: db, Tasks: Tasks.NewTaskService(db)}
}

type CreateReservationRequest struct {
	CustomerID uint   `json:"customer_id" validate:"required"`
	RoomTypeID uint   `json:"room_type_id" validate:"required"`
	CatIDs     []uint `json:"cat_ids" validate:"required,min=1"`
	CheckIn    string `json:"check_in" validate:"required"`
	CheckOut   string `json:"check_out" validate:"required"`
	SharedRoom bool   `json:"shared_room"`
	Notes      string `json:"notes"`
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func init() {
	rand.Seed(uint64(time.Now().UnixNano()))
}

func generateReservationCode() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return "RES-" + string(code)
}

// GetReservations lists reservations, optionally filtered by status or by
// a calendar date touching the stay.
func (c *ReservationController) GetReservations(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.Reservation{}).
		Preload("Customer").
		Preload("RoomType").
		Preload("Room").
		Preload("Cats").
		Order("check_in ASC")

	if status := ctx.Query("status"); status != "" {
		if !Models.IsValidReservationStatus(status) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown reservation status"})
		}
		query = query.Where("status = ?", status)
	}
	if date := ctx.Query("date"); date != "" {
		query = query.Where("check_in <= ? AND check_out >= ?", date, date)
	}

	var reservations []Models.Reservation
	if result := query.Find(&reservations); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve reservations"})
	}
	return ctx.JSON(reservations)
}

// GetReservation retrieves a single reservation by ID
func (c *ReservationController) GetReservation(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reservation ID"})
	}

	var reservation Models.Reservation
	result := c.DB.Preload("Customer").Preload("RoomType").Preload("Room").Preload("Cats").
		First(&reservation, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reservation not found"})
	}
	return ctx.JSON(reservation)
}

// CreateReservation books a new stay, emails the customer a confirmation
// and posts a Slack notification for the front desk.
func (c *ReservationController) CreateReservation(ctx *fiber.Ctx) error {
	var req CreateReservationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if errs := Validation.Struct(req); errs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	if _, err := time.Parse("2006-01-02", req.CheckIn); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "check_in must be YYYY-MM-DD"})
	}
	if _, err := time.Parse("2006-01-02", req.CheckOut); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "check_out must be YYYY-MM-DD"})
	}
	if req.CheckOut < req.CheckIn {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "check_out must not be before check_in"})
	}

	var customer Models.Customer
	if result := c.DB.First(&customer, req.CustomerID); result.Error != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Customer not found"})
	}
	var roomType Models.RoomType
	if result := c.DB.First(&roomType, req.RoomTypeID); result.Error != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Room type not found"})
	}

	var cats []Models.Cat
	if result := c.DB.Where("customer_id = ?", req.CustomerID).Find(&cats, req.CatIDs); result.Error != nil || len(cats) != len(req.CatIDs) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "One or more cats not found for this customer"})
	}

	reservation := Models.Reservation{
		Code:       generateReservationCode(),
		CustomerID: req.CustomerID,
		RoomTypeID: req.RoomTypeID,
		Cats:       cats,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Status:     Models.ReservationPending,
		SharedRoom: req.SharedRoom,
		Notes:      req.Notes,
	}
	if result := c.DB.Create(&reservation); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create reservation"})
	}

	go notifyNewReservation(reservation, customer, roomType)

	return ctx.Status(fiber.StatusCreated).JSON(reservation)
}

func notifyNewReservation(reservation Models.Reservation, customer Models.Customer, roomType Models.RoomType) {
	text := fmt.Sprintf("New reservation %s: %s, %s room, %s to %s",
		reservation.Code, customer.Name, roomType.Name, reservation.CheckIn, reservation.CheckOut)
	if err := Slack.NotifyBookings(text); err != nil {
		log.Printf("Slack notification failed for %s: %v", reservation.Code, err)
	}

	if customer.Email == "" {
		return
	}
	msg := Models.EmailMessage{
		To:      []string{customer.Email},
		Subject: fmt.Sprintf("Booking confirmation %s", reservation.Code),
		Body: fmt.Sprintf(
			"Dear %s,\r\n\r\nYour booking %s is confirmed pending review.\r\nRoom: %s\r\nCheck-in: %s\r\nCheck-out: %s\r\n\r\nSee you soon!",
			customer.Name, reservation.Code, roomType.Name, reservation.CheckIn, reservation.CheckOut),
	}
	if err := email.SendEmail(Models.EmailConfigFromEnv(), msg); err != nil {
		log.Printf("Confirmation email failed for %s: %v", reservation.Code, err)
	}
}

// UpdateReservationStatus moves a reservation between PENDING, CONFIRMED
// and CANCELLED. Check-in and check-out have their own endpoints because
// they carry task side effects.
func (c *ReservationController) UpdateReservationStatus(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reservation ID"})
	}

	var req UpdateReservationStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Status != Models.ReservationPending &&
		req.Status != Models.ReservationConfirmed &&
		req.Status != Models.ReservationCancelled {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Status must be PENDING, CONFIRMED or CANCELLED"})
	}

	var reservation Models.Reservation
	if result := c.DB.First(&reservation, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reservation not found"})
	}
	if reservation.Status == Models.ReservationCheckedIn || reservation.Status == Models.ReservationCheckedOut {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reservation already in progress, use the check-in/check-out endpoints"})
	}

	c.DB.Model(&reservation).Update("status", req.Status)
	return ctx.JSON(reservation)
}

// CheckIn transitions a PENDING or CONFIRMED reservation to CHECKED_IN,
// optionally assigns a room, and completes any open CHECKIN tasks.
func (c *ReservationController) CheckIn(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reservation ID"})
	}

	var reservation Models.Reservation
	if result := c.DB.First(&reservation, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reservation not found"})
	}
	if reservation.Status != Models.ReservationPending && reservation.Status != Models.ReservationConfirmed {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only pending or confirmed reservations can be checked in",
		})
	}

	updates := map[string]interface{}{"status": Models.ReservationCheckedIn}
	var body struct {
		RoomID *uint `json:"room_id"`
	}
	if err := ctx.BodyParser(&body); err == nil && body.RoomID != nil {
		var room Models.Room
		if result := c.DB.First(&room, *body.RoomID); result.Error != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Room not found"})
		}
		if room.RoomTypeID != reservation.RoomTypeID {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Room does not match the reserved room type"})
		}
		updates["room_id"] = *body.RoomID
	}

	if result := c.DB.Model(&reservation).Updates(updates); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check in"})
	}

	if err := c.Tasks.CompleteOpenTasks(reservation.ID, Models.TaskCheckIn); err != nil {
		log.Printf("Failed to complete check-in tasks for reservation %d: %v", reservation.ID, err)
	}

	return ctx.JSON(fiber.Map{"message": "Checked in successfully", "reservation": reservation})
}

// CheckOut transitions a CHECKED_IN reservation to CHECKED_OUT, completes
// open CHECKOUT tasks and queues a cleaning task for the vacated room.
func (c *ReservationController) CheckOut(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reservation ID"})
	}

	var reservation Models.Reservation
	if result := c.DB.First(&reservation, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reservation not found"})
	}
	if reservation.Status != Models.ReservationCheckedIn {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only checked-in reservations can be checked out",
		})
	}

	if result := c.DB.Model(&reservation).Update("status", Models.ReservationCheckedOut); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check out"})
	}

	if err := c.Tasks.CompleteOpenTasks(reservation.ID, Models.TaskCheckOut); err != nil {
		log.Printf("Failed to complete check-out tasks for reservation %d: %v", reservation.ID, err)
	}

	// Vacated rooms get cleaned before the next stay.
	now := time.Now()
	cleaning := Models.CareTask{
		Type:          Models.TaskCleaning,
		Status:        Models.TaskOpen,
		Notes:         fmt.Sprintf("Post-checkout cleaning for %s", reservation.Code),
		ScheduledAt:   &now,
		ReservationID: &reservation.ID,
	}
	if err := c.DB.Create(&cleaning).Error; err != nil {
		log.Printf("Failed to create cleaning task for reservation %d: %v", reservation.ID, err)
	}

	return ctx.JSON(fiber.Map{"message": "Checked out successfully", "reservation": reservation})
}

// DeleteReservation soft deletes a reservation that never started.
func (c *ReservationController) DeleteReservation(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reservation ID"})
	}

	var reservation Models.Reservation
	if result := c.DB.First(&reservation, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reservation not found"})
	}
	if reservation.Status == Models.ReservationCheckedIn {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot delete a reservation that is checked in"})
	}

	c.DB.Delete(&reservation)
	return ctx.JSON(fiber.Map{"message": "Reservation deleted successfully"})
}
