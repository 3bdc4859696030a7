package Tasks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"Whiskers/Models"
)

// VirtualTask is an ephemeral check-in/check-out reminder derived from a
// reservation. It is never persisted; its id is synthesized from the
// reservation so repeated projections are stable for list diffing.
type VirtualTask struct {
	ID            string `json:"id"`
	ReservationID uint   `json:"reservation_id"`
	Type          string `json:"type"`
	ScheduledFor  string `json:"scheduled_for"`
	Title         string `json:"title"`
	Details       string `json:"details"`
}

// reservation date layouts accepted by the projector, most specific first.
var whenLayouts = []struct {
	layout   string
	hasClock bool
}{
	{time.RFC3339, true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", false},
}

// ProjectReservationTasks derives the virtual check-in/check-out reminders
// implied by the given reservations at the given time. Pure function: no
// I/O, no mutation of the input, identical output for identical input.
//
// A CHECKIN reminder appears once the check-in calendar day has arrived
// while the reservation is still PENDING or CONFIRMED; a CHECKOUT reminder
// once the check-out day has arrived while the reservation is CHECKED_IN.
// Comparison is at day granularity. A reservation whose date does not
// parse contributes nothing for that branch.
func ProjectReservationTasks(reservations []Models.Reservation, now time.Time) []VirtualTask {
	type entry struct {
		task VirtualTask
		at   time.Time
	}
	var entries []entry

	today := dayOf(now)
	for i := range reservations {
		r := &reservations[i]

		switch r.Status {
		case Models.ReservationPending, Models.ReservationConfirmed:
			if at, hasClock, ok := parseWhen(r.CheckIn); ok && !dayOf(at).After(today) {
				entries = append(entries, entry{
					task: buildVirtualTask(r, Models.TaskCheckIn, r.CheckIn, at, hasClock),
					at:   at,
				})
			}
		case Models.ReservationCheckedIn:
			if at, hasClock, ok := parseWhen(r.CheckOut); ok && !dayOf(at).After(today) {
				entries = append(entries, entry{
					task: buildVirtualTask(r, Models.TaskCheckOut, r.CheckOut, at, hasClock),
					at:   at,
				})
			}
		}
	}

	// Ascending by scheduled time; stable so same-instant reminders keep
	// their input order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].at.Before(entries[j].at)
	})

	tasks := make([]VirtualTask, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, e.task)
	}
	return tasks
}

func buildVirtualTask(r *Models.Reservation, taskType, scheduledFor string, at time.Time, hasClock bool) VirtualTask {
	suffix := "checkin"
	label := "Check-in"
	if taskType == Models.TaskCheckOut {
		suffix = "checkout"
		label = "Check-out"
	}

	catName := "No cat listed"
	if len(r.Cats) > 0 {
		catName = r.Cats[0].Name
	}

	roomName := r.RoomType.Name
	if r.Room != nil && r.Room.Number != "" {
		roomName = "Room " + r.Room.Number
	}

	details := []string{}
	if r.Customer.Name != "" {
		details = append(details, r.Customer.Name)
	}
	if r.Code != "" {
		details = append(details, r.Code)
	}
	if hasClock {
		details = append(details, at.Format("15:04"))
	}

	return VirtualTask{
		ID:            fmt.Sprintf("reservation-%d-%s", r.ID, suffix),
		ReservationID: r.ID,
		Type:          taskType,
		ScheduledFor:  scheduledFor,
		Title:         fmt.Sprintf("%s: %s (%s)", label, catName, roomName),
		Details:       strings.Join(details, " - "),
	}
}

// ParseScheduled parses a reservation date value, reporting whether the
// layout carried a clock and whether parsing succeeded at all. Exposed so
// callers can log unparseable dates as a data-quality signal.
func ParseScheduled(value string) (at time.Time, hasClock bool, ok bool) {
	return parseWhen(value)
}

func parseWhen(value string) (time.Time, bool, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, false
	}
	for _, l := range whenLayouts {
		if t, err := time.Parse(l.layout, value); err == nil {
			return t, l.hasClock, true
		}
	}
	return time.Time{}, false, false
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
