package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/oiloilo44/lupin/internal/entity"
	"github.com/oiloilo44/lupin/internal/usecase"
)

type Handler struct {
	logger    *slog.Logger
	directory *usecase.Directory
}

func NewHandler(logger *slog.Logger, directory *usecase.Directory) *Handler {
	return &Handler{
		logger:    logger.With("component", "rest"),
		directory: directory,
	}
}

type createRoomResponse struct {
	RoomID string `json:"room_id"`
	URL    string `json:"url"`
}

type roomStatusResponse struct {
	RoomID string           `json:"room_id"`
	Room   entity.RoomState `json:"room"`
}

// CreateOmokRoom - creates a room and returns its shareable id and path.
func (that *Handler) CreateOmokRoom(w http.ResponseWriter, _ *http.Request) {
	room := that.directory.Create(entity.GameTypeOmok)

	that.writeJSON(w, http.StatusOK, createRoomResponse{
		RoomID: room.ID(),
		URL:    "/omok/" + room.ID(),
	})
}

// GetRoom - reports a room's current state, used by the page before it
// opens the socket.
func (that *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("room_id")

	room, err := that.directory.Get(roomID)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	that.writeJSON(w, http.StatusOK, roomStatusResponse{
		RoomID: room.ID(),
		Room:   room.Snapshot(),
	})
}

func (that *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
