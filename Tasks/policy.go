package Tasks

import (
	"Whiskers/Models"
)

// Actor is the authenticated caller of a task operation.
type Actor struct {
	UserID uint
	Role   string
}

// CanListAllTasks reports whether the actor sees the whole task list or
// only their own assignments.
func CanListAllTasks(actor Actor) bool {
	return actor.Role == Models.RoleManager || actor.Role == Models.RoleAdmin
}

// CanOperateOnTasks reports whether the actor may call task operations at
// all. Customers never can.
func CanOperateOnTasks(actor Actor) bool {
	switch actor.Role {
	case Models.RoleStaff, Models.RoleManager, Models.RoleAdmin:
		return true
	}
	return false
}

// CanMutateTask decides whether the actor may change the given task.
// Managers and admins may mutate any task. Staff may only mutate tasks
// assigned to themselves; an unassigned task is off limits to staff.
func CanMutateTask(actor Actor, task Models.CareTask) bool {
	switch actor.Role {
	case Models.RoleManager, Models.RoleAdmin:
		return true
	case Models.RoleStaff:
		return task.AssignedStaff != nil && task.AssignedStaff.UserID == actor.UserID
	}
	return false
}
