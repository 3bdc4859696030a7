package CronJobs

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"Whiskers/Models"
	"Whiskers/Notifications"
)

// CareScheduler materializes the daily routine care tasks (feeding,
// cleaning) for every checked-in reservation and reminds staff about
// overdue work.
type CareScheduler struct {
	cronScheduler  *cron.Cron
	db             *gorm.DB
	runImmediately bool
	jobID          cron.EntryID
}

// NewCareScheduler creates a new care scheduler with the given configuration
func NewCareScheduler(db *gorm.DB, runImmediately bool) *CareScheduler {
	return &CareScheduler{
		cronScheduler:  cron.New(cron.WithSeconds()),
		db:             db,
		runImmediately: runImmediately,
	}
}

// Start initiates the daily care task cron job
func (s *CareScheduler) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc("0 0 6 * * *", func() {
		log.Println("Running scheduled daily care task generation")
		s.runDailyGeneration()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	log.Println("Care scheduler started - will run daily at 6:00 AM")

	if s.runImmediately {
		log.Println("Running initial care task generation")
		s.runDailyGeneration()
	}
	return nil
}

// Stop terminates the care scheduler
func (s *CareScheduler) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Care scheduler stopped")
	}
}

func (s *CareScheduler) runDailyGeneration() {
	created, err := GenerateDailyTasks(s.db, time.Now())
	if err != nil {
		log.Printf("Daily care task generation failed: %v", err)
		return
	}
	log.Printf("Daily care task generation complete, %d tasks created", created)

	var overdue int64
	s.db.Model(&Models.CareTask{}).
		Where("status IN ? AND scheduled_at < ?",
			[]string{Models.TaskOpen, Models.TaskInProgress}, time.Now()).
		Count(&overdue)
	if err := Notifications.NotifyOverdueTasks(s.db, int(overdue)); err != nil {
		log.Printf("Overdue task notification failed: %v", err)
	}
}

// Routine tasks generated once per calendar day for every checked-in
// reservation, with their local time of day.
var dailyRoutine = []struct {
	taskType string
	hour     int
}{
	{Models.TaskFeeding, 8},
	{Models.TaskCleaning, 10},
	{Models.TaskFeeding, 17},
}

// GenerateDailyTasks creates the routine care tasks for the given day.
// Idempotent per day: a reservation that already has a task of the same
// type scheduled that day is skipped, so the job can run more than once.
func GenerateDailyTasks(db *gorm.DB, day time.Time) (int, error) {
	var reservations []Models.Reservation
	err := db.Preload("Cats").
		Where("status = ?", Models.ReservationCheckedIn).
		Find(&reservations).Error
	if err != nil {
		return 0, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	created := 0
	for _, reservation := range reservations {
		for _, routine := range dailyRoutine {
			scheduledAt := dayStart.Add(time.Duration(routine.hour) * time.Hour)

			var existing int64
			db.Model(&Models.CareTask{}).
				Where("reservation_id = ? AND type = ? AND scheduled_at = ?",
					reservation.ID, routine.taskType, scheduledAt).
				Count(&existing)
			if existing > 0 {
				continue
			}

			task := Models.CareTask{
				Type:          routine.taskType,
				Status:        Models.TaskOpen,
				ScheduledAt:   &scheduledAt,
				ReservationID: &reservation.ID,
			}
			if len(reservation.Cats) > 0 {
				task.CatID = &reservation.Cats[0].ID
			}
			if staffID, ok := leastLoadedStaff(db); ok {
				task.AssignedStaffID = &staffID
			}

			if err := db.Create(&task).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// leastLoadedStaff picks the staff member with the fewest open tasks.
func leastLoadedStaff(db *gorm.DB) (uint, bool) {
	var staff []Models.StaffMember
	if err := db.Find(&staff).Error; err != nil || len(staff) == 0 {
		return 0, false
	}

	bestID := uint(0)
	bestCount := int64(-1)
	for _, member := range staff {
		var count int64
		db.Model(&Models.CareTask{}).
			Where("assigned_staff_id = ? AND status IN ?",
				member.ID, []string{Models.TaskOpen, Models.TaskInProgress}).
			Count(&count)
		if bestCount == -1 || count < bestCount {
			bestID = member.ID
			bestCount = count
		}
	}
	return bestID, true
}
