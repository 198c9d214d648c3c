package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"jobportal/tasks-service/models"

	"github.com/gorilla/mux"
)

// NotificationFeed is the read side of the per-user notification store.
type NotificationFeed interface {
	GetByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID string, createdAt time.Time) error
}

type NotificationHandler struct {
	feed NotificationFeed
}

func NewNotificationHandler(feed NotificationFeed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	if h.feed == nil {
		http.Error(w, "Notifications are not configured", http.StatusServiceUnavailable)
		return
	}

	notifications, err := h.feed.GetByUser(r.Context(), actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	if h.feed == nil {
		http.Error(w, "Notifications are not configured", http.StatusServiceUnavailable)
		return
	}

	var request struct {
		CreatedAt time.Time `json:"createdAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.feed.MarkAsRead(r.Context(), actorID, mux.Vars(r)["id"], request.CreatedAt); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Notification marked as read"}`))
}
