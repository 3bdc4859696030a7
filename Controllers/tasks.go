package Controllers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Whiskers/Models"
	"Whiskers/Tasks"
	"Whiskers/Validation"
	"Whiskers/middleware"
)

// TaskController exposes the care-task board: persisted tasks merged with
// virtual check-in/check-out reminders projected from live reservations.
type TaskController struct {
	DB      *gorm.DB
	Service *Tasks.TaskService
}

func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{DB: db, Service: Tasks.NewTaskService(db)}
}

type UpdateTaskStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}

type CreateTaskRequest struct {
	Type            string  `json:"type" validate:"required"`
	Notes           string  `json:"notes"`
	ScheduledAt     *string `json:"scheduled_at"` // RFC3339
	CatID           *uint   `json:"cat_id"`
	ReservationID   *uint   `json:"reservation_id"`
	AssignedStaffID *uint   `json:"assigned_staff_id"`
}

func actorFromContext(ctx *fiber.Ctx) (Tasks.Actor, bool) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return Tasks.Actor{}, false
	}
	return Tasks.Actor{UserID: user.Id, Role: user.Role}, true
}

// GetTasks returns the actor's persisted task list plus the virtual
// reminders derived from reservations that still need a check-in or
// check-out today. The two lists stay separate in the response; the
// dashboard interleaves them.
func (c *TaskController) GetTasks(ctx *fiber.Ctx) error {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not Logged In."})
	}

	tasks, err := c.Service.ListTasksForActor(actor)
	if err != nil {
		if errors.Is(err, Tasks.ErrForbidden) {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Tasks are staff-only"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve tasks"})
	}

	var reservations []Models.Reservation
	result := c.DB.
		Preload("Customer").
		Preload("RoomType").
		Preload("Room").
		Preload("Cats").
		Where("status IN ?", []string{
			Models.ReservationPending,
			Models.ReservationConfirmed,
			Models.ReservationCheckedIn,
		}).
		Find(&reservations)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve reservations"})
	}

	for _, r := range reservations {
		if _, _, ok := Tasks.ParseScheduled(r.CheckIn); !ok {
			log.Printf("Reservation %s has unparseable check_in %q", r.Code, r.CheckIn)
		}
		if r.Status == Models.ReservationCheckedIn {
			if _, _, ok := Tasks.ParseScheduled(r.CheckOut); !ok {
				log.Printf("Reservation %s has unparseable check_out %q", r.Code, r.CheckOut)
			}
		}
	}

	virtual := Tasks.ProjectReservationTasks(reservations, time.Now())

	return ctx.JSON(fiber.Map{
		"tasks":             tasks,
		"reservation_tasks": virtual,
	})
}

// UpdateTaskStatus applies a status transition on behalf of the actor.
func (c *TaskController) UpdateTaskStatus(ctx *fiber.Ctx) error {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not Logged In."})
	}

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var req UpdateTaskStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if errs := Validation.Struct(req); errs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	task, err := c.Service.UpdateTaskStatus(uint(id), actor, req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, Tasks.ErrTaskNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		case errors.Is(err, Tasks.ErrForbidden):
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only update tasks assigned to you"})
		case errors.Is(err, Tasks.ErrInvalidStatus):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown task status"})
		case errors.Is(err, Tasks.ErrConflict):
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Task was changed by someone else, reload and retry"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
	}

	return ctx.JSON(task)
}

// CreateTask lets managers and admins queue ad-hoc work for staff.
func (c *TaskController) CreateTask(ctx *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if errs := Validation.Struct(req); errs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}
	if !Models.IsValidTaskType(req.Type) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown task type"})
	}

	task := Models.CareTask{
		Type:            req.Type,
		Status:          Models.TaskOpen,
		Notes:           req.Notes,
		CatID:           req.CatID,
		ReservationID:   req.ReservationID,
		AssignedStaffID: req.AssignedStaffID,
	}
	if req.ScheduledAt != nil {
		scheduled, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_at must be RFC3339"})
		}
		task.ScheduledAt = &scheduled
	}
	if req.AssignedStaffID != nil {
		var staff Models.StaffMember
		if result := c.DB.First(&staff, *req.AssignedStaffID); result.Error != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Assigned staff member not found"})
		}
	}

	if err := c.DB.Create(&task).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(task)
}
