package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oiloilo44/lupin/internal/apperror"
	"github.com/oiloilo44/lupin/internal/config"
	"github.com/oiloilo44/lupin/internal/repository"
)

// roomIDLength - rooms use the short uuid prefix form so ids stay
// copy-pasteable in URLs; sessions carry the actual credentials.
const roomIDLength = 8

// Directory - the process-wide registry of live rooms. Room lookups
// never take any room's own lock, so unrelated rooms stay independent.
type Directory struct {
	logger   *slog.Logger
	sessions repository.SessionRepository
	conf     config.Room

	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewDirectory(logger *slog.Logger, sessions repository.SessionRepository, conf config.Room) *Directory {
	return &Directory{
		logger:   logger.With("component", "directory"),
		sessions: sessions,
		conf:     conf,
		rooms:    make(map[string]*Room),
	}
}

// Create - makes a new empty room and registers it.
func (that *Directory) Create(gameType string) *Room {
	roomID := uuid.NewString()[:roomIDLength]
	room := NewRoom(that.logger, that.sessions, that.conf, roomID, gameType)

	that.mu.Lock()
	that.rooms[roomID] = room
	that.mu.Unlock()

	that.logger.Info("room created", "roomID", roomID, "gameType", gameType)

	return room
}

func (that *Directory) Get(roomID string) (*Room, error) {
	that.mu.RLock()
	room, ok := that.rooms[roomID]
	that.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	return room, nil
}

func (that *Directory) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

// Run - the idle sweep loop; blocks until the context is canceled.
func (that *Directory) Run(ctx context.Context) {
	ticker := time.NewTicker(that.conf.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.Sweep(ctx)
		}
	}
}

// Sweep - reclaims rooms that have had zero connected players for longer
// than the idle timeout, revoking their sessions.
func (that *Directory) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-that.conf.IdleTimeout)

	that.mu.RLock()
	candidates := make([]*Room, 0)
	for _, room := range that.rooms {
		if room.ConnectedCount() == 0 && room.LastActivity().Before(cutoff) {
			candidates = append(candidates, room)
		}
	}
	that.mu.RUnlock()

	for _, room := range candidates {
		room.Close(ctx)

		that.mu.Lock()
		delete(that.rooms, room.ID())
		that.mu.Unlock()

		that.logger.Info("idle room reclaimed", "roomID", room.ID())
	}
}
