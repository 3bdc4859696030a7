package Tasks

import "errors"

var (
	// ErrTaskNotFound is returned when the referenced task id does not
	// exist in storage.
	ErrTaskNotFound = errors.New("task not found")

	// ErrForbidden is returned when the actor is not allowed to mutate
	// the task (staff mutating another staff member's assignment, or a
	// caller without a staff role).
	ErrForbidden = errors.New("not allowed to modify this task")

	// ErrInvalidStatus is returned when the target status is not a known
	// task status.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrConflict is returned when the task changed underneath the
	// caller between read and write.
	ErrConflict = errors.New("task was modified concurrently")
)
