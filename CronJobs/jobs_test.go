package CronJobs

import (
	"testing"
	"time"

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

func mustCreateReservation(t *testing.T, db *gorm.DB, code, status string) Models.Reservation {
	t.Helper()

	reservation := Models.Reservation{
		Code:       code,
		CustomerID: 1,
		RoomTypeID: 1,
		CheckIn:    "2025-01-10",
		CheckOut:   "2025-01-20",
		Status:     status,
	}
	if err := db.Create(&reservation).Error; err != nil {
		t.Fatalf("failed to create reservation: %v", err)
	}
	return reservation
}

func TestGenerateDailyTasks(t *testing.T) {
	db := newTestDB(t)
	checkedIn := mustCreateReservation(t, db, "RES-CHKIN1", Models.ReservationCheckedIn)
	mustCreateReservation(t, db, "RES-PENDG1", Models.ReservationPending)

	day := time.Date(2025, 1, 12, 6, 0, 0, 0, time.UTC)
	created, err := GenerateDailyTasks(db, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != len(dailyRoutine) {
		t.Fatalf("expected %d tasks for the checked-in reservation, got %d", len(dailyRoutine), created)
	}

	var tasks []Models.CareTask
	if err := db.Order("scheduled_at ASC").Find(&tasks).Error; err != nil {
		t.Fatalf("failed to load tasks: %v", err)
	}
	if len(tasks) != len(dailyRoutine) {
		t.Fatalf("expected %d tasks in total, got %d", len(dailyRoutine), len(tasks))
	}
	for i, task := range tasks {
		if task.ReservationID == nil || *task.ReservationID != checkedIn.ID {
			t.Errorf("task %d not tied to the checked-in reservation", i)
		}
		if task.Status != Models.TaskOpen {
			t.Errorf("task %d: expected OPEN, got %q", i, task.Status)
		}
		if task.Type != dailyRoutine[i].taskType {
			t.Errorf("task %d: expected type %q, got %q", i, dailyRoutine[i].taskType, task.Type)
		}
		if task.ScheduledAt == nil || task.ScheduledAt.Hour() != dailyRoutine[i].hour {
			t.Errorf("task %d: unexpected scheduled time %v", i, task.ScheduledAt)
		}
	}
}

func TestGenerateDailyTasks_IdempotentPerDay(t *testing.T) {
	db := newTestDB(t)
	mustCreateReservation(t, db, "RES-CHKIN2", Models.ReservationCheckedIn)

	day := time.Date(2025, 1, 12, 6, 0, 0, 0, time.UTC)
	if _, err := GenerateDailyTasks(db, day); err != nil {
		t.Fatalf("unexpected error on first run: %v", err)
	}

	// Second run on the same day creates nothing.
	created, err := GenerateDailyTasks(db, day.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected second run to create 0 tasks, got %d", created)
	}

	// The next day generates a fresh routine.
	created, err = GenerateDailyTasks(db, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("unexpected error on next day: %v", err)
	}
	if created != len(dailyRoutine) {
		t.Fatalf("expected %d tasks on the next day, got %d", len(dailyRoutine), created)
	}
}

func TestGenerateDailyTasks_AssignsLeastLoadedStaff(t *testing.T) {
	db := newTestDB(t)
	mustCreateReservation(t, db, "RES-CHKIN3", Models.ReservationCheckedIn)

	busyUser := Models.User{Name: "busy", Email: "busy@example.com", Role: Models.RoleStaff, Permission: Models.PermissionStaff}
	idleUser := Models.User{Name: "idle", Email: "idle@example.com", Role: Models.RoleStaff, Permission: Models.PermissionStaff}
	for _, u := range []*Models.User{&busyUser, &idleUser} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}
	busy := Models.StaffMember{UserID: busyUser.Id}
	idle := Models.StaffMember{UserID: idleUser.Id}
	for _, s := range []*Models.StaffMember{&busy, &idle} {
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("failed to create staff member: %v", err)
		}
	}
	// Pre-load busy with open work so the generator prefers idle.
	for i := 0; i < 5; i++ {
		task := Models.CareTask{Type: Models.TaskFeeding, Status: Models.TaskOpen, AssignedStaffID: &busy.ID}
		if err := db.Create(&task).Error; err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
	}

	day := time.Date(2025, 1, 12, 6, 0, 0, 0, time.UTC)
	if _, err := GenerateDailyTasks(db, day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var generated []Models.CareTask
	if err := db.Where("reservation_id IS NOT NULL").Find(&generated).Error; err != nil {
		t.Fatalf("failed to load generated tasks: %v", err)
	}
	if len(generated) == 0 {
		t.Fatal("no tasks generated")
	}
	if generated[0].AssignedStaffID == nil || *generated[0].AssignedStaffID != idle.ID {
		t.Errorf("expected the first generated task to go to the idle staff member")
	}
}
