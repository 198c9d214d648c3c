package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobportal/tasks-service/middleware"
	"jobportal/tasks-service/models"
	"jobportal/tasks-service/repositories/memory"
	"jobportal/tasks-service/services"

	"github.com/gorilla/mux"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	store := memory.New()
	taskService, err := services.NewTaskService(store, nil)
	if err != nil {
		t.Fatalf("NewTaskService() err = %v, want nil", err)
	}
	boardService, err := services.NewBoardService(store)
	if err != nil {
		t.Fatalf("NewBoardService() err = %v, want nil", err)
	}

	taskHandler := NewTaskHandler(taskService)
	boardHandler := NewBoardHandler(boardService)

	r := mux.NewRouter()
	r.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/projections/{name}", boardHandler.ListProjection).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/board/{userID}", boardHandler.ViewActorBoard).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{taskID}/status", taskHandler.ChangeTaskStatus).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/progress", taskHandler.UpdateProgress).Methods(http.MethodPatch)
	r.HandleFunc("/api/tasks/{taskID}/comments", taskHandler.AddComment).Methods(http.MethodPost)
	return r
}

func doRequest(t *testing.T, r *mux.Router, actorID, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if actorID != "" {
		req.Header.Set(middleware.ActorHeader, actorID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createTaskRequest(assignees ...string) map[string]interface{} {
	return map[string]interface{}{
		"title":      "Review internship applications",
		"relatedTo":  models.DepartmentAdministration,
		"assignedTo": assignees,
		"dueDate":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	}
}

func TestCreateTask_HTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, "alice", http.MethodPost, "/api/tasks", createTaskRequest("bob"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var task models.Task
	if err := json.NewDecoder(rec.Body).Decode(&task); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if task.CreatedBy != "alice" || task.Status != models.StatusNotStarted {
		t.Fatalf("task = %+v, want created by alice in not_started", task)
	}
}

func TestCreateTask_HTTP_MissingActor(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, "", http.MethodPost, "/api/tasks", createTaskRequest())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestCreateTask_HTTP_Validation(t *testing.T) {
	r := newTestRouter(t)

	body := createTaskRequest()
	body["title"] = ""
	rec := doRequest(t, r, "alice", http.MethodPost, "/api/tasks", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestTaskLifecycle_HTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, "alice", http.MethodPost, "/api/tasks", createTaskRequest("bob"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", rec.Code, http.StatusCreated)
	}
	var task models.Task
	json.NewDecoder(rec.Body).Decode(&task)

	statusPath := fmt.Sprintf("/api/tasks/%s/status", task.ID)

	// A bystander is rejected.
	rec = doRequest(t, r, "mallory", http.MethodPost, statusPath, map[string]string{"status": "in_progress"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("bystander status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	rec = doRequest(t, r, "bob", http.MethodPost, statusPath, map[string]string{"status": "in_progress"})
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	rec = doRequest(t, r, "bob", http.MethodPatch, fmt.Sprintf("/api/tasks/%s/progress", task.ID), map[string]int{"value": 60})
	if rec.Code != http.StatusOK {
		t.Fatalf("progress status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	rec = doRequest(t, r, "bob", http.MethodPost, fmt.Sprintf("/api/tasks/%s/comments", task.ID), map[string]string{"text": "half done"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("comment status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	rec = doRequest(t, r, "bob", http.MethodPost, statusPath, map[string]string{"status": "review"})
	if rec.Code != http.StatusOK {
		t.Fatalf("review status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	rec = doRequest(t, r, "alice", http.MethodPost, statusPath, map[string]string{"status": "completed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	// Terminal state maps to 409.
	rec = doRequest(t, r, "bob", http.MethodPost, statusPath, map[string]string{"status": "in_progress"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("post-completion status = %d, want %d", rec.Code, http.StatusConflict)
	}

	rec = doRequest(t, r, "alice", http.MethodGet, "/api/tasks/"+task.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got models.Task
	json.NewDecoder(rec.Body).Decode(&got)
	if got.Status != models.StatusCompleted || got.CompletionDate == nil {
		t.Fatalf("task = status %s completionDate %v, want completed with date", got.Status, got.CompletionDate)
	}
	if len(got.Comments) != 1 {
		t.Fatalf("comments = %d, want 1", len(got.Comments))
	}
}

func TestProjections_HTTP(t *testing.T) {
	r := newTestRouter(t)

	doRequest(t, r, "alice", http.MethodPost, "/api/tasks", createTaskRequest("bob"))
	doRequest(t, r, "alice", http.MethodPost, "/api/tasks", createTaskRequest())

	rec := doRequest(t, r, "alice", http.MethodGet, "/api/tasks/projections/createdByMe", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var tasks []models.Task
	json.NewDecoder(rec.Body).Decode(&tasks)
	if len(tasks) != 2 {
		t.Fatalf("createdByMe len = %d, want 2", len(tasks))
	}

	rec = doRequest(t, r, "bob", http.MethodGet, "/api/tasks/projections/assignedToMe", nil)
	json.NewDecoder(rec.Body).Decode(&tasks)
	if len(tasks) != 1 {
		t.Fatalf("assignedToMe len = %d, want 1", len(tasks))
	}

	rec = doRequest(t, r, "alice", http.MethodGet, "/api/tasks/projections/backlog", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown projection status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestViewActorBoard_HTTP(t *testing.T) {
	r := newTestRouter(t)

	doRequest(t, r, "alice", http.MethodPost, "/api/tasks", createTaskRequest("bob"))

	rec := doRequest(t, r, "carol", http.MethodGet, "/api/tasks/board/bob", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var board models.ReadOnlyBoard
	json.NewDecoder(rec.Body).Decode(&board)
	if board.UserID != "bob" {
		t.Fatalf("UserID = %s, want bob", board.UserID)
	}
	if len(board.AssignedToUser) != 1 {
		t.Fatalf("AssignedToUser len = %d, want 1", len(board.AssignedToUser))
	}
}

func TestDeleteTask_HTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(t, r, "alice", http.MethodPost, "/api/tasks", createTaskRequest("bob"))
	var task models.Task
	json.NewDecoder(rec.Body).Decode(&task)

	rec = doRequest(t, r, "bob", http.MethodDelete, "/api/tasks/"+task.ID, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("delete by assignee status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	rec = doRequest(t, r, "alice", http.MethodDelete, "/api/tasks/"+task.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete by creator status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = doRequest(t, r, "alice", http.MethodGet, "/api/tasks/"+task.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
