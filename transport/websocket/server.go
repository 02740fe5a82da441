package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oiloilo44/lupin/internal/apperror"
	"github.com/oiloilo44/lupin/internal/config"
	"github.com/oiloilo44/lupin/internal/repository"
	"github.com/oiloilo44/lupin/internal/usecase"
)

// Server - the connection gateway. It terminates the wire protocol,
// authenticates messages against sessions and dispatches to the owning
// room; it holds no game state of its own.
type Server struct {
	logger    *slog.Logger
	directory *usecase.Directory
	sessions  repository.SessionRepository
	conf      config.Room
	upgrader  websocket.Upgrader

	handlers map[string]func(ctx context.Context, cl *client, raw []byte) error
}

func New(logger *slog.Logger, directory *usecase.Directory, sessions repository.SessionRepository, conf config.Room) *Server {
	server := &Server{
		logger:    logger.With("component", "websocket"),
		directory: directory,
		sessions:  sessions,
		conf:      conf,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		handlers: make(map[string]func(context.Context, *client, []byte) error),
	}

	server.handlers["join"] = server.handleJoin
	server.handlers["reconnect"] = server.handleReconnect
	server.handlers["move"] = server.handleMove
	server.handlers["undo_request"] = server.handleUndoRequest
	server.handlers["undo_response"] = server.handleUndoResponse
	server.handlers["restart_request"] = server.handleRestartRequest
	server.handlers["restart_response"] = server.handleRestartResponse
	server.handlers["chat_message"] = server.handleChatMessage

	return server
}

// ServeWS - upgrades the connection and runs its read loop until the
// client goes away.
func (that *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeWS")

	roomID := r.PathValue("room_id")
	if roomID == "" {
		http.Error(w, "room id is required", http.StatusBadRequest)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	cl := newClient(conn, roomID)
	go cl.writePump()

	that.readLoop(r.Context(), cl)

	// The read loop is done; only now may the slot be marked free.
	if cl.isBound() {
		cl.room.HandleDisconnect(cl.subID)
	}
	close(cl.send)
}

// readLoop - processes inbound messages until the connection drops.
// Malformed messages get an error reply and never touch room state.
func (that *Server) readLoop(ctx context.Context, cl *client) {
	log := that.logger.With("method", "readLoop", "roomID", cl.roomID)

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		var message inboundMessage
		if err = json.Unmarshal(raw, &message); err != nil {
			that.sendError(cl, "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Type]
		if !ok {
			that.sendError(cl, "unknown message type")
			continue
		}

		if err = handler(ctx, cl, raw); err != nil {
			log.Warn("failed to handle message", "type", message.Type, "error", err)
			that.sendError(cl, errorText(err))
		}
	}
}

// sendError - replies on the originating connection only.
func (that *Server) sendError(cl *client, text string) {
	raw, err := json.Marshal(usecase.NewErrorMessage(text))
	if err != nil {
		return
	}

	select {
	case cl.send <- raw:
	default:
	}
}

// knownErrors - recoverable rejections whose text is safe to show the
// player as-is.
var knownErrors = []error{
	apperror.ErrRoomFull,
	apperror.ErrRoomNotFound,
	apperror.ErrInvalidSession,
	apperror.ErrNotYourTurn,
	apperror.ErrGameNotStarted,
	apperror.ErrIllegalMove,
	apperror.ErrGameEnded,
	apperror.ErrGameNotEnded,
	apperror.ErrNotEligible,
	apperror.ErrAlreadyPending,
}

func errorText(err error) string {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "failed to process message"
}
