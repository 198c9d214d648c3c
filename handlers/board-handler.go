package handlers

import (
	"encoding/json"
	"net/http"

	"jobportal/tasks-service/models"
	"jobportal/tasks-service/services"

	"github.com/gorilla/mux"
)

type BoardHandler struct {
	service *services.BoardService
}

func NewBoardHandler(service *services.BoardService) *BoardHandler {
	return &BoardHandler{service: service}
}

// ListProjection returns one named column of the actor's own board.
func (h *BoardHandler) ListProjection(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	name := models.ProjectionName(mux.Vars(r)["name"])
	tasks, err := h.service.ListProjection(r.Context(), actorID, name)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tasks)
}

// ViewActorBoard returns the read-only board of another user.
func (h *BoardHandler) ViewActorBoard(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	board, err := h.service.ViewActorBoard(r.Context(), actorID, mux.Vars(r)["userID"])
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(board)
}
