package services

import (
	"fmt"
	"time"

	"jobportal/tasks-service/models"

	"github.com/google/uuid"
)

// newActivityEntry builds one audit-trail entry. Every mutation appends
// exactly one of these to the owning task.
func newActivityEntry(taskID, actorID string, action models.ActivityAction, message string, at time.Time) models.ActivityLogEntry {
	return models.ActivityLogEntry{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		ActorID:   actorID,
		Action:    action,
		Message:   message,
		Timestamp: at,
	}
}

func statusChangeMessage(from, to models.TaskStatus) string {
	if to == models.StatusCompleted {
		return "marked complete"
	}
	switch {
	case from == models.StatusNotStarted && to == models.StatusInProgress:
		return "started working on the task"
	case from == models.StatusInProgress && to == models.StatusNotStarted:
		return "paused work on the task"
	case from == models.StatusInProgress && to == models.StatusReview:
		return "submitted the task for review"
	}
	return fmt.Sprintf("changed status from %s to %s", from, to)
}
