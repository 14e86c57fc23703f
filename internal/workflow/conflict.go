package workflow

import (
	"time"

	"github.com/traindesk/api-crm/internal/models"
)

// IsTrainerBusy reports whether the trainer already has a class whose date
// range overlaps [start, end]. Boundaries are inclusive: a class ending the
// day another starts still counts as a conflict.
//
// ignoreClassID skips one class, so a reschedule does not conflict with
// itself. Pass "" when scheduling a new class.
func IsTrainerBusy(trainerID string, start, end time.Time, classes []models.TrainingClass, ignoreClassID string) bool {
	for _, c := range classes {
		if c.TrainerID != trainerID || c.ID == ignoreClassID {
			continue
		}
		// [s1,e1] and [s2,e2] overlap iff s1 <= e2 && s2 <= e1.
		if !c.StartDate.After(end) && !start.After(c.EndDate) {
			return true
		}
	}
	return false
}

// MatchesAvailability reports whether every weekday in [start, end] is
// covered by one of the trainer's declared slots. A mismatch is advisory
// only: scheduling proceeds, the caller surfaces a warning.
func MatchesAvailability(profile models.TrainerProfile, start, end time.Time) bool {
	if len(profile.Slots) == 0 {
		return false
	}
	covered := map[time.Weekday]bool{}
	for _, slot := range profile.Slots {
		covered[slot.Day] = true
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !covered[d.Weekday()] {
			return false
		}
	}
	return true
}
