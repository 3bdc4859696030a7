package Tasks

import (
	"errors"
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

func mustCreateStaff(t *testing.T, db *gorm.DB, name string) Models.StaffMember {
	t.Helper()

	user := Models.User{
		Name:       name,
		Email:      name + "@example.com",
		Role:       Models.RoleStaff,
		Permission: Models.PermissionStaff,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	staff := Models.StaffMember{UserID: user.Id, Position: "carer"}
	if err := db.Create(&staff).Error; err != nil {
		t.Fatalf("failed to create staff member: %v", err)
	}
	return staff
}

func mustCreateTask(t *testing.T, db *gorm.DB, staffID *uint, status string, scheduledAt *time.Time) Models.CareTask {
	t.Helper()

	task := Models.CareTask{
		Type:            Models.TaskFeeding,
		Status:          status,
		AssignedStaffID: staffID,
		ScheduledAt:     scheduledAt,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func TestUpdateTaskStatus_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	_, err := svc.UpdateTaskStatus(999, Actor{UserID: 1, Role: Models.RoleAdmin}, Models.TaskDone, nil)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestUpdateTaskStatus_InvalidStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	staff := mustCreateStaff(t, db, "ines")
	task := mustCreateTask(t, db, &staff.ID, Models.TaskOpen, nil)

	_, err := svc.UpdateTaskStatus(task.ID, Actor{UserID: staff.UserID, Role: Models.RoleStaff}, "FINISHED", nil)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateTaskStatus_StaffCannotTouchOthersTask(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	owner := mustCreateStaff(t, db, "owner")
	other := mustCreateStaff(t, db, "other")
	task := mustCreateTask(t, db, &owner.ID, Models.TaskOpen, nil)

	_, err := svc.UpdateTaskStatus(task.ID, Actor{UserID: other.UserID, Role: Models.RoleStaff}, Models.TaskInProgress, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// No mutation happened.
	var stored Models.CareTask
	if err := db.First(&stored, task.ID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if stored.Status != Models.TaskOpen {
		t.Fatalf("task status changed to %q despite Forbidden", stored.Status)
	}
}

func TestUpdateTaskStatus_StaffCannotTouchUnassignedTask(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	staff := mustCreateStaff(t, db, "staff")
	task := mustCreateTask(t, db, nil, Models.TaskOpen, nil)

	_, err := svc.UpdateTaskStatus(task.ID, Actor{UserID: staff.UserID, Role: Models.RoleStaff}, Models.TaskDone, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateTaskStatus_CustomerAlwaysForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	staff := mustCreateStaff(t, db, "staff")
	task := mustCreateTask(t, db, &staff.ID, Models.TaskOpen, nil)

	_, err := svc.UpdateTaskStatus(task.ID, Actor{UserID: staff.UserID, Role: Models.RoleCustomer}, Models.TaskDone, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateTaskStatus_OwnTaskToDoneStampsCompletedAt(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	staff := mustCreateStaff(t, db, "ines")
	task := mustCreateTask(t, db, &staff.ID, Models.TaskOpen, nil)

	updated, err := svc.UpdateTaskStatus(task.ID, Actor{UserID: staff.UserID, Role: Models.RoleStaff}, Models.TaskDone, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != Models.TaskDone {
		t.Fatalf("expected status DONE, got %q", updated.Status)
	}
	if updated.CompletedAt == nil {
		t.Fatal("expected CompletedAt to be set on transition into DONE")
	}
}

func TestUpdateTaskStatus_ManagerBypassesAssignment(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	staff := mustCreateStaff(t, db, "staff")
	task := mustCreateTask(t, db, &staff.ID, Models.TaskOpen, nil)

	for _, role := range []string{Models.RoleManager, Models.RoleAdmin} {
		t.Run(role, func(t *testing.T) {
			_, err := svc.UpdateTaskStatus(task.ID, Actor{UserID: 9999, Role: role}, Models.TaskInProgress, nil)
			if err != nil {
				t.Fatalf("expected %s to bypass assignment check, got %v", role, err)
			}
		})
	}
}

func TestUpdateTaskStatus_CompletedAtIsSticky(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	staff := mustCreateStaff(t, db, "staff")
	task := mustCreateTask(t, db, &staff.ID, Models.TaskOpen, nil)
	actor := Actor{UserID: staff.UserID, Role: Models.RoleStaff}

	done, err := svc.UpdateTaskStatus(task.ID, actor, Models.TaskDone, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stamp := done.CompletedAt

	// Reopening is permitted and must not clear the completion stamp.
	reopened, err := svc.UpdateTaskStatus(task.ID, actor, Models.TaskOpen, nil)
	if err != nil {
		t.Fatalf("unexpected error reopening: %v", err)
	}
	if reopened.Status != Models.TaskOpen {
		t.Fatalf("expected status OPEN, got %q", reopened.Status)
	}
	if reopened.CompletedAt == nil {
		t.Fatal("CompletedAt was cleared by transitioning away from DONE")
	}
	if !reopened.CompletedAt.Equal(*stamp) {
		t.Fatalf("CompletedAt changed from %v to %v", stamp, reopened.CompletedAt)
	}
}

func TestUpdateTaskStatus_NotesHandling(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	staff := mustCreateStaff(t, db, "staff")
	actor := Actor{UserID: staff.UserID, Role: Models.RoleStaff}

	task := mustCreateTask(t, db, &staff.ID, Models.TaskOpen, nil)
	db.Model(&Models.CareTask{}).Where("id = ?", task.ID).Update("notes", "initial note")

	// Status-only update leaves notes alone.
	updated, err := svc.UpdateTaskStatus(task.ID, actor, Models.TaskInProgress, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Notes != "initial note" {
		t.Fatalf("notes changed by status-only update: %q", updated.Notes)
	}

	// Supplied notes replace the old value.
	newNotes := "fed half portion"
	updated, err = svc.UpdateTaskStatus(task.ID, actor, Models.TaskDone, &newNotes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Notes != newNotes {
		t.Fatalf("expected notes %q, got %q", newNotes, updated.Notes)
	}
}

func TestUpdateTaskStatus_ConflictOnConcurrentChange(t *testing.T) {
	db := newTestDB(t)
	staff := mustCreateStaff(t, db, "staff")
	task := mustCreateTask(t, db, &staff.ID, Models.TaskOpen, nil)

	// Simulate a racing writer by flipping the status between the
	// service's read and its guarded write. The racing UPDATE must go
	// through the callback's tx: with an in-memory sqlite database each
	// pooled connection is its own empty database, so a write on a fresh
	// session from the root handle would land nowhere.
	svc := NewTaskService(db)
	raced := false
	db.Callback().Update().Before("gorm:update").Register("test_race", func(tx *gorm.DB) {
		if !raced {
			raced = true
			tx.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
				Exec("UPDATE care_tasks SET status = ? WHERE id = ?", Models.TaskCancelled, task.ID)
		}
	})
	defer db.Callback().Update().Remove("test_race")

	_, err := svc.UpdateTaskStatus(task.ID, Actor{UserID: staff.UserID, Role: Models.RoleStaff}, Models.TaskDone, nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestListTasksForActor_StaffSeesOnlyOwnAssignments(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	alice := mustCreateStaff(t, db, "alice")
	bob := mustCreateStaff(t, db, "bob")

	mustCreateTask(t, db, &alice.ID, Models.TaskOpen, nil)
	mustCreateTask(t, db, &alice.ID, Models.TaskInProgress, nil)
	mustCreateTask(t, db, &bob.ID, Models.TaskOpen, nil)
	mustCreateTask(t, db, nil, Models.TaskOpen, nil)

	tasks, err := svc.ListTasksForActor(Actor{UserID: alice.UserID, Role: Models.RoleStaff})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks for alice, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.AssignedStaffID == nil || *task.AssignedStaffID != alice.ID {
			t.Fatalf("task %d not assigned to alice", task.ID)
		}
	}
}

func TestListTasksForActor_ManagerSeesEverything(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	alice := mustCreateStaff(t, db, "alice")

	mustCreateTask(t, db, &alice.ID, Models.TaskOpen, nil)
	mustCreateTask(t, db, nil, Models.TaskOpen, nil)

	tasks, err := svc.ListTasksForActor(Actor{UserID: 9999, Role: Models.RoleManager})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected manager to see 2 tasks, got %d", len(tasks))
	}
}

func TestListTasksForActor_CustomerRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	_, err := svc.ListTasksForActor(Actor{UserID: 1, Role: Models.RoleCustomer})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListTasksForActor_OrderingAndNullsLast(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	staff := mustCreateStaff(t, db, "staff")

	later := time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	unscheduled := mustCreateTask(t, db, &staff.ID, Models.TaskOpen, nil)
	second := mustCreateTask(t, db, &staff.ID, Models.TaskOpen, &later)
	first := mustCreateTask(t, db, &staff.ID, Models.TaskOpen, &earlier)

	tasks, err := svc.ListTasksForActor(Actor{UserID: staff.UserID, Role: Models.RoleStaff})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != first.ID || tasks[1].ID != second.ID || tasks[2].ID != unscheduled.ID {
		t.Fatalf("unexpected order: %d, %d, %d", tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}
}

func TestListTasksForActor_CapAt100(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)
	staff := mustCreateStaff(t, db, "staff")

	for i := 0; i < 105; i++ {
		at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
		mustCreateTask(t, db, &staff.ID, Models.TaskOpen, &at)
	}

	tasks, err := svc.ListTasksForActor(Actor{UserID: staff.UserID, Role: Models.RoleStaff})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 100 {
		t.Fatalf("expected the list to be capped at 100, got %d", len(tasks))
	}
}

func TestCompleteOpenTasks(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	reservation := Models.Reservation{
		Code:       "RES-TEST01",
		CustomerID: 1,
		RoomTypeID: 1,
		CheckIn:    "2025-01-10",
		CheckOut:   "2025-01-12",
		Status:     Models.ReservationConfirmed,
	}
	if err := db.Create(&reservation).Error; err != nil {
		t.Fatalf("failed to create reservation: %v", err)
	}

	open := Models.CareTask{Type: Models.TaskCheckIn, Status: Models.TaskOpen, ReservationID: &reservation.ID}
	cancelled := Models.CareTask{Type: Models.TaskCheckIn, Status: Models.TaskCancelled, ReservationID: &reservation.ID}
	otherType := Models.CareTask{Type: Models.TaskFeeding, Status: Models.TaskOpen, ReservationID: &reservation.ID}
	for _, task := range []*Models.CareTask{&open, &cancelled, &otherType} {
		if err := db.Create(task).Error; err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
	}

	if err := svc.CompleteOpenTasks(reservation.ID, Models.TaskCheckIn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Reload into a fresh struct each time: reusing one would carry the
	// previous primary key into the next query's conditions.
	reload := func(id uint) Models.CareTask {
		var task Models.CareTask
		if err := db.First(&task, id).Error; err != nil {
			t.Fatalf("failed to reload task %d: %v", id, err)
		}
		return task
	}

	if got := reload(open.ID); got.Status != Models.TaskDone || got.CompletedAt == nil {
		t.Fatalf("open check-in task not completed: status=%q", got.Status)
	}
	if got := reload(cancelled.ID); got.Status != Models.TaskCancelled {
		t.Fatalf("cancelled task should not be touched, got %q", got.Status)
	}
	if got := reload(otherType.ID); got.Status != Models.TaskOpen {
		t.Fatalf("other task types should not be touched, got %q", got.Status)
	}
}

func TestPolicy_CanMutateTask(t *testing.T) {
	staffID := uint(7)
	assigned := Models.CareTask{AssignedStaff: &Models.StaffMember{UserID: staffID}}

	tests := []struct {
		name  string
		actor Actor
		task  Models.CareTask
		want  bool
	}{
		{"staff own task", Actor{UserID: staffID, Role: Models.RoleStaff}, assigned, true},
		{"staff other task", Actor{UserID: 8, Role: Models.RoleStaff}, assigned, false},
		{"staff unassigned task", Actor{UserID: staffID, Role: Models.RoleStaff}, Models.CareTask{}, false},
		{"manager any task", Actor{UserID: 1, Role: Models.RoleManager}, assigned, true},
		{"admin any task", Actor{UserID: 1, Role: Models.RoleAdmin}, Models.CareTask{}, true},
		{"customer never", Actor{UserID: staffID, Role: Models.RoleCustomer}, assigned, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutateTask(tt.actor, tt.task); got != tt.want {
				t.Errorf("CanMutateTask() = %v, want %v", got, tt.want)
			}
		})
	}
}
