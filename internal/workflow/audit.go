package workflow

import (
	"fmt"
	"time"

	"github.com/traindesk/api-crm/internal/models"
)

// History entries are human-readable timestamped lines. They are only ever
// appended; nothing truncates or reorders a trail.

func historyLine(msg string, at time.Time) string {
	return fmt.Sprintf("%s at %s", msg, at.Format(time.RFC3339))
}

func appendLeadHistory(lead *models.Lead, msg string, at time.Time) {
	lead.History = append(lead.History, historyLine(msg, at))
}

func appendTrainerActivity(profile *models.TrainerProfile, msg string, at time.Time) {
	profile.ActivityLog = append(profile.ActivityLog, historyLine(msg, at))
}
