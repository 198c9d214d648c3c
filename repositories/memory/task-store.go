package memory

import (
	"context"
	"sync"

	"jobportal/tasks-service/models"
)

// TaskStore is an in-memory task store with the same compare-and-swap
// update semantics as the Mongo repository. It backs the test suites and
// local runs without a database.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
}

func New() *TaskStore {
	return &TaskStore{tasks: make(map[string]models.Task)}
}

func (ts *TaskStore) Insert(_ context.Context, task *models.Task) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	task.Version = 1
	ts.tasks[task.ID] = clone(task)
	return nil
}

func (ts *TaskStore) GetByID(_ context.Context, id string) (*models.Task, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	task, ok := ts.tasks[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := clone(&task)
	return &out, nil
}

func (ts *TaskStore) Update(_ context.Context, task *models.Task) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	stored, ok := ts.tasks[task.ID]
	if !ok {
		return models.ErrNotFound
	}
	if stored.Version != task.Version {
		return models.ErrConflict
	}

	task.Version++
	ts.tasks[task.ID] = clone(task)
	return nil
}

func (ts *TaskStore) Delete(_ context.Context, id string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, ok := ts.tasks[id]; !ok {
		return models.ErrNotFound
	}
	delete(ts.tasks, id)
	return nil
}

func (ts *TaskStore) ListByParticipant(_ context.Context, actorID string) ([]models.Task, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	var tasks []models.Task
	for _, task := range ts.tasks {
		if task.CreatedBy == actorID || (&task).IsAssigned(actorID) {
			tasks = append(tasks, clone(&task))
		}
	}
	return tasks, nil
}

// clone copies the task and its embedded slices so callers never alias
// stored state.
func clone(task *models.Task) models.Task {
	out := *task
	out.AssignedTo = append([]string(nil), task.AssignedTo...)
	out.Comments = append([]models.Comment(nil), task.Comments...)
	out.ActivityLogs = append([]models.ActivityLogEntry(nil), task.ActivityLogs...)
	if task.CompletionDate != nil {
		completedAt := *task.CompletionDate
		out.CompletionDate = &completedAt
	}
	return out
}
