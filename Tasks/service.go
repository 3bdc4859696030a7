package Tasks

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"Whiskers/Models"
)

// listLimit bounds the task list response. Not client-configurable.
const listLimit = 100

// TaskService owns persisted care tasks: it authorizes and applies status
// transitions and serves the role-filtered task list.
type TaskService struct {
	DB *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db}
}

// ListTasksForActor returns the task list visible to the actor, ascending
// by scheduled time with unscheduled tasks last, capped at 100 rows.
// Staff only see tasks assigned to themselves; managers and admins see
// everything. Relations are preloaded for display.
func (s *TaskService) ListTasksForActor(actor Actor) ([]Models.CareTask, error) {
	if !CanOperateOnTasks(actor) {
		return nil, ErrForbidden
	}

	query := s.DB.Model(&Models.CareTask{}).
		Preload("Cat").
		Preload("Reservation").
		Preload("Reservation.RoomType").
		Preload("Reservation.Customer").
		Preload("AssignedStaff").
		Preload("AssignedStaff.User").
		Order("scheduled_at IS NULL, scheduled_at ASC").
		Limit(listLimit)

	if !CanListAllTasks(actor) {
		query = query.
			Joins("JOIN staff_members ON staff_members.id = care_tasks.assigned_staff_id").
			Where("staff_members.user_id = ?", actor.UserID)
	}

	var tasks []Models.CareTask
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTaskStatus sets the task's status on behalf of the actor.
//
// Notes are replaced only when supplied; a status-only update never clears
// them. CompletedAt is stamped on the transition into DONE and is sticky:
// moving away from DONE later leaves the timestamp in place.
//
// The write is issued as a conditional update guarded on the status that
// was read, so two actors racing on the same task cannot silently clobber
// each other; the loser gets ErrConflict.
func (s *TaskService) UpdateTaskStatus(taskID uint, actor Actor, newStatus string, notes *string) (Models.CareTask, error) {
	if !Models.IsValidTaskStatus(newStatus) {
		return Models.CareTask{}, ErrInvalidStatus
	}

	var task Models.CareTask
	err := s.DB.Preload("AssignedStaff").First(&task, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Models.CareTask{}, ErrTaskNotFound
		}
		return Models.CareTask{}, err
	}

	if !CanMutateTask(actor, task) {
		return Models.CareTask{}, ErrForbidden
	}

	updates := map[string]interface{}{
		"status": newStatus,
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	if newStatus == Models.TaskDone {
		updates["completed_at"] = time.Now()
	}

	result := s.DB.Model(&Models.CareTask{}).
		Where("id = ? AND status = ?", task.ID, task.Status).
		Updates(updates)
	if result.Error != nil {
		return Models.CareTask{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Models.CareTask{}, ErrConflict
	}

	var updated Models.CareTask
	if err := s.DB.First(&updated, task.ID).Error; err != nil {
		return Models.CareTask{}, err
	}
	return updated, nil
}

// CompleteOpenTasks marks every OPEN or IN_PROGRESS task of the given type
// on a reservation as DONE. Used by the check-in/check-out workflow when
// the front desk completes the obligation implicitly.
func (s *TaskService) CompleteOpenTasks(reservationID uint, taskType string) error {
	now := time.Now()
	return s.DB.Model(&Models.CareTask{}).
		Where("reservation_id = ? AND type = ? AND status IN ?",
			reservationID, taskType, []string{Models.TaskOpen, Models.TaskInProgress}).
		Updates(map[string]interface{}{
			"status":       Models.TaskDone,
			"completed_at": now,
		}).Error
}
