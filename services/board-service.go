package services

import (
	"context"
	"fmt"
	"sort"

	"jobportal/tasks-service/models"
)

// BoardService derives the named board projections from the task set. It
// holds no state of its own; every call re-derives from the store so a
// task can never appear in two mutually exclusive status buckets.
type BoardService struct {
	store TaskStore
}

func NewBoardService(store TaskStore) (*BoardService, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	return &BoardService{store: store}, nil
}

// ListProjection returns one named subset of the tasks the actor
// participates in, ordered by due date ascending. Projections are not
// exclusive; a task may appear in several.
func (s *BoardService) ListProjection(ctx context.Context, actorID string, name models.ProjectionName) ([]models.Task, error) {
	if !name.Valid() {
		return nil, &models.ValidationError{Field: "projection", Reason: fmt.Sprintf("unknown projection %q", name)}
	}

	tasks, err := s.store.ListByParticipant(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var keep func(t *models.Task) bool
	switch name {
	case models.ProjectionNotStarted:
		keep = byStatus(models.StatusNotStarted)
	case models.ProjectionInProgress:
		keep = byStatus(models.StatusInProgress)
	case models.ProjectionReview:
		keep = byStatus(models.StatusReview)
	case models.ProjectionCompleted:
		keep = byStatus(models.StatusCompleted)
	case models.ProjectionCreatedByMe:
		keep = func(t *models.Task) bool { return t.CreatedBy == actorID }
	case models.ProjectionAssignedToMe:
		keep = func(t *models.Task) bool { return t.IsAssigned(actorID) }
	case models.ProjectionAssignedToOthers:
		keep = func(t *models.Task) bool { return createdAndDelegated(t, actorID) }
	}

	return filterByDueDate(tasks, keep), nil
}

// ViewActorBoard composes the read-only view of another actor's board:
// the status partition for tasks the target participates in, tasks others
// delegated to the target, and tasks the target delegated out. The
// requesting actor gets no mutation rights through this view.
func (s *BoardService) ViewActorBoard(ctx context.Context, requestingActorID, targetActorID string) (*models.ReadOnlyBoard, error) {
	tasks, err := s.store.ListByParticipant(ctx, targetActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	board := &models.ReadOnlyBoard{
		UserID:     targetActorID,
		NotStarted: filterByDueDate(tasks, byStatus(models.StatusNotStarted)),
		InProgress: filterByDueDate(tasks, byStatus(models.StatusInProgress)),
		Completed:  filterByDueDate(tasks, byStatus(models.StatusCompleted)),
		AssignedToUser: filterByDueDate(tasks, func(t *models.Task) bool {
			return t.CreatedBy != targetActorID && t.IsAssigned(targetActorID)
		}),
		AssignedToOthers: filterByDueDate(tasks, func(t *models.Task) bool {
			return createdAndDelegated(t, targetActorID)
		}),
	}
	return board, nil
}

func byStatus(status models.TaskStatus) func(t *models.Task) bool {
	return func(t *models.Task) bool { return t.Status == status }
}

// createdAndDelegated reports whether the actor created the task and
// handed it to at least one other assignee.
func createdAndDelegated(t *models.Task, actorID string) bool {
	if t.CreatedBy != actorID {
		return false
	}
	for _, id := range t.AssignedTo {
		if id != actorID {
			return true
		}
	}
	return false
}

// filterByDueDate keeps matching tasks ordered by due date ascending,
// preserving insertion order for equal due dates.
func filterByDueDate(tasks []models.Task, keep func(t *models.Task) bool) []models.Task {
	out := make([]models.Task, 0)
	for i := range tasks {
		if keep(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}
