package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobportal/tasks-service/logging"
	"jobportal/tasks-service/models"

	"github.com/google/uuid"
)

// TaskStore is the persistence boundary for tasks. Update performs a
// compare-and-swap on the task version and returns models.ErrConflict when
// the stored version no longer matches, models.ErrNotFound when the task
// is gone. Comments and activity logs travel inside the task document, so
// Delete removes them atomically with the task.
type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	ListByParticipant(ctx context.Context, actorID string) ([]models.Task, error)
}

// Notifier pushes a per-user notification. Implementations decide how
// failures are handled; the workflow never fails a mutation because a
// notification could not be delivered.
type Notifier interface {
	Push(ctx context.Context, notification models.Notification) error
}

var (
	ErrStoreNil = errors.New("task store is nil")

	// errNoChange signals an idempotent mutation that should persist and
	// log nothing.
	errNoChange = errors.New("no change")
)

// maxMutationAttempts bounds the reload-and-retry loop after a version
// conflict. Requests that keep losing the race are rejected as conflicts.
const maxMutationAttempts = 3

type TaskService struct {
	store    TaskStore
	notifier Notifier
}

func NewTaskService(store TaskStore, notifier Notifier) (*TaskService, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	return &TaskService{store: store, notifier: notifier}, nil
}

// CreateTaskInput carries the caller-supplied fields for a new task.
type CreateTaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Notes       string              `json:"notes"`
	RelatedTo   models.Department   `json:"relatedTo"`
	AssignedTo  []string            `json:"assignedTo"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     time.Time           `json:"dueDate"`
}

func (s *TaskService) CreateTask(ctx context.Context, actorID string, input CreateTaskInput) (*models.Task, error) {
	now := time.Now()

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	task := &models.Task{
		ID:              uuid.New().String(),
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Notes:           input.Notes,
		RelatedTo:       input.RelatedTo,
		CreatedBy:       actorID,
		AssignedTo:      dedupeIDs(input.AssignedTo),
		Priority:        input.Priority,
		Status:          models.StatusNotStarted,
		CurrentProgress: 0,
		DueDate:         input.DueDate,
		Comments:        []models.Comment{},
		ActivityLogs:    []models.ActivityLogEntry{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := task.Validate(now); err != nil {
		return nil, err
	}

	task.ActivityLogs = append(task.ActivityLogs,
		newActivityEntry(task.ID, actorID, models.ActionTaskCreated, "created the task", now))

	if err := s.store.Insert(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notifyParticipants(ctx, task, actorID, fmt.Sprintf("You have been assigned a new task: %s", task.Title))

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by %s", task.ID, actorID)
	return task, nil
}

// Transition validates and applies a status change per the workflow table.
// The payload feedback is required for review -> in_progress and recorded
// in the activity log.
func (s *TaskService) Transition(ctx context.Context, actorID, taskID string, target models.TaskStatus, feedback string) (*models.Task, error) {
	if !target.Valid() {
		return nil, &models.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", target)}
	}

	task, err := s.mutate(ctx, taskID, func(t *models.Task, now time.Time) error {
		return applyTransition(t, actorID, target, feedback, now)
	})
	if err != nil {
		return nil, err
	}

	message := task.ActivityLogs[len(task.ActivityLogs)-1].Message
	s.notifyParticipants(ctx, task, actorID, fmt.Sprintf("Task %q: %s", task.Title, message))

	logging.Logger.Infof("Event ID: TASK_STATUS_CHANGED, Description: Task %s moved to %s by %s", task.ID, target, actorID)
	return task, nil
}

// applyTransition enforces the transition table over
// (currentStatus, requestedStatus, actorRole). Guard failures are
// unauthorized, missing table rows are invalid transitions; completed is
// terminal for everyone.
func applyTransition(t *models.Task, actorID string, target models.TaskStatus, feedback string, now time.Time) error {
	if t.Status == models.StatusCompleted {
		return models.ErrInvalidTransition
	}

	perms := EvaluatePermissions(actorID, t)
	from := t.Status

	action := models.ActionStatusChanged
	message := statusChangeMessage(from, target)

	switch {
	case from == models.StatusNotStarted && target == models.StatusInProgress,
		from == models.StatusInProgress && target == models.StatusNotStarted:
		if !perms.IsAssignee {
			return models.ErrUnauthorized
		}

	case from == models.StatusInProgress && target == models.StatusReview:
		if !perms.CanSubmitForReview {
			return models.ErrUnauthorized
		}

	case from == models.StatusReview && target == models.StatusInProgress:
		if !perms.CanApproveOrRequestChanges {
			return models.ErrUnauthorized
		}
		feedback = strings.TrimSpace(feedback)
		if feedback == "" {
			return &models.ValidationError{Field: "feedback", Reason: "feedback is required when requesting changes"}
		}
		action = models.ActionChangesRequested
		message = fmt.Sprintf("requested changes: %s", feedback)

	case target == models.StatusCompleted:
		// Either the creator approves delegated work out of review, or the
		// creator of a sole-owned task closes it directly, skipping review.
		approving := from == models.StatusReview && perms.CanApproveOrRequestChanges
		direct := perms.IsCreator && perms.IsSoleOwner
		if !approving && !direct {
			return models.ErrUnauthorized
		}
		if approving {
			action = models.ActionApproved
			message = "approved the task and marked complete"
		}
		completedAt := now
		t.CompletionDate = &completedAt

	default:
		return models.ErrInvalidTransition
	}

	t.Status = target
	t.UpdatedAt = now
	t.ActivityLogs = append(t.ActivityLogs, newActivityEntry(t.ID, actorID, action, message, now))
	return nil
}

// UpdateProgress sets the 0-100 progress counter. An unchanged value is a
// no-op with no activity entry; completed tasks are frozen.
func (s *TaskService) UpdateProgress(ctx context.Context, actorID, taskID string, value int) (*models.Task, error) {
	if value < 0 || value > 100 {
		return nil, &models.ValidationError{Field: "currentProgress", Reason: "progress must be between 0 and 100"}
	}

	task, err := s.mutate(ctx, taskID, func(t *models.Task, now time.Time) error {
		perms := EvaluatePermissions(actorID, t)
		if !perms.CanMutateProgressOrComment {
			return models.ErrUnauthorized
		}
		if t.Status == models.StatusCompleted {
			return &models.ValidationError{Field: "currentProgress", Reason: "progress cannot be updated on a completed task"}
		}
		if t.CurrentProgress == value {
			return errNoChange
		}
		t.CurrentProgress = value
		t.UpdatedAt = now
		t.ActivityLogs = append(t.ActivityLogs,
			newActivityEntry(t.ID, actorID, models.ActionProgressUpdated, fmt.Sprintf("updated progress to %d%%", value), now))
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_PROGRESS_UPDATED, Description: Task %s progress set to %d by %s", task.ID, value, actorID)
	return task, nil
}

// AddComment appends an immutable comment and its activity entry. The task
// status is not altered; commenting stays open after completion.
func (s *TaskService) AddComment(ctx context.Context, actorID, taskID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &models.ValidationError{Field: "text", Reason: "comment text is required"}
	}

	var comment models.Comment
	task, err := s.mutate(ctx, taskID, func(t *models.Task, now time.Time) error {
		perms := EvaluatePermissions(actorID, t)
		if !perms.CanMutateProgressOrComment {
			return models.ErrUnauthorized
		}
		comment = models.Comment{
			ID:        uuid.New().String(),
			TaskID:    t.ID,
			AuthorID:  actorID,
			Text:      text,
			CreatedAt: now,
		}
		t.Comments = append(t.Comments, comment)
		t.UpdatedAt = now
		t.ActivityLogs = append(t.ActivityLogs,
			newActivityEntry(t.ID, actorID, models.ActionCommentAdded, "commented on the task", now))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, task, actorID, fmt.Sprintf("New comment on task %q", task.Title))

	logging.Logger.Infof("Event ID: TASK_COMMENT_ADDED, Description: Comment %s added to task %s by %s", comment.ID, task.ID, actorID)
	return &comment, nil
}

// DeleteTask removes the task together with its comments and activity logs.
// Only the creator may delete.
func (s *TaskService) DeleteTask(ctx context.Context, actorID, taskID string) error {
	task, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	perms := EvaluatePermissions(actorID, task)
	if !perms.CanDelete {
		return models.ErrUnauthorized
	}

	if err := s.store.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", taskID, actorID)
	return nil
}

// GetTask returns a single task with its comments and activity trail for
// drill-down views.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	return s.store.GetByID(ctx, taskID)
}

// mutate runs the read-modify-write cycle for one task under the per-task
// serialization guarantee. On a version conflict the task is reloaded and
// the mutation re-validated against the post-mutation state; if it no
// longer holds, the request is rejected as a conflict.
func (s *TaskService) mutate(ctx context.Context, taskID string, apply func(t *models.Task, now time.Time) error) (*models.Task, error) {
	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		task, err := s.store.GetByID(ctx, taskID)
		if err != nil {
			return nil, err
		}

		if err := apply(task, time.Now()); err != nil {
			if errors.Is(err, errNoChange) {
				return task, nil
			}
			if attempt > 0 {
				return nil, fmt.Errorf("%w: %v", models.ErrConflict, err)
			}
			return nil, err
		}

		err = s.store.Update(ctx, task)
		if err == nil {
			return task, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}
	return nil, models.ErrConflict
}

// notifyParticipants pushes a notification to every participant except the
// acting user. Delivery is best effort.
func (s *TaskService) notifyParticipants(ctx context.Context, task *models.Task, actorID, message string) {
	if s.notifier == nil {
		return
	}

	recipients := map[string]bool{task.CreatedBy: true}
	for _, id := range task.AssignedTo {
		recipients[id] = true
	}
	delete(recipients, actorID)

	for userID := range recipients {
		notification := models.Notification{
			ID:        uuid.New().String(),
			UserID:    userID,
			TaskID:    task.ID,
			Message:   message,
			CreatedAt: time.Now(),
			IsRead:    false,
		}
		if err := s.notifier.Push(ctx, notification); err != nil {
			logging.Logger.Warnf("Event ID: NOTIFICATION_PUSH_FAILED, Description: Failed to notify user %s about task %s: %v", userID, task.ID, err)
		}
	}
}

func dedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
