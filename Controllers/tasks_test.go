package Controllers

import (
	"bytes"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"Whiskers/Models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&Models.User{},
		&Models.Customer{},
		&Models.Cat{},
		&Models.RoomType{},
		&Models.Room{},
		&Models.StaffMember{},
		&Models.Reservation{},
		&Models.CareTask{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTaskBoardApp(db *gorm.DB, user Models.User) *fiber.App {
	controller := NewTaskController(db)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	})
	app.Get("/api/tasks", controller.GetTasks)
	return app
}

func TestGetTasks_LogsUnparseableReservationDates(t *testing.T) {
	db := newTestDB(t)

	badCheckIn := Models.Reservation{
		Code:       "RES-BADIN1",
		CustomerID: 1,
		RoomTypeID: 1,
		CheckIn:    "someday",
		CheckOut:   "2025-01-12",
		Status:     Models.ReservationConfirmed,
	}
	badCheckOut := Models.Reservation{
		Code:       "RES-BADOUT",
		CustomerID: 1,
		RoomTypeID: 1,
		CheckIn:    "2025-01-10",
		CheckOut:   "whenever",
		Status:     Models.ReservationCheckedIn,
	}
	for _, r := range []*Models.Reservation{&badCheckIn, &badCheckOut} {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("failed to create reservation: %v", err)
		}
	}

	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	manager := Models.User{Id: 1, Name: "manager", Role: Models.RoleManager, Permission: Models.PermissionManager}
	app := newTaskBoardApp(db, manager)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/tasks", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	logged := buf.String()
	if !strings.Contains(logged, "RES-BADIN1") || !strings.Contains(logged, "check_in") {
		t.Errorf("missing check_in warning for RES-BADIN1 in logs: %q", logged)
	}
	if !strings.Contains(logged, "RES-BADOUT") || !strings.Contains(logged, "check_out") {
		t.Errorf("missing check_out warning for RES-BADOUT in logs: %q", logged)
	}
}
