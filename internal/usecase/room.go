package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oiloilo44/lupin/internal/apperror"
	"github.com/oiloilo44/lupin/internal/config"
	"github.com/oiloilo44/lupin/internal/entity"
	"github.com/oiloilo44/lupin/internal/omok"
	"github.com/oiloilo44/lupin/internal/repository"
)

const chatTimestampLayout = "15:04:05"

// subscriber - one attached connection. The send channel is owned by the
// transport's write pump; the room only ever enqueues into it.
type subscriber struct {
	id           int64
	playerNumber int
	send         chan<- []byte
}

// Room - the authoritative per-room state machine. Every mutating
// operation and every snapshot taken for broadcast runs under mu, and
// broadcasts are enqueued while mu is held, so each attached connection
// observes events in exactly the order mutations were applied.
type Room struct {
	id       string
	gameType string
	logger   *slog.Logger
	sessions repository.SessionRepository
	conf     config.Room

	mu          sync.Mutex
	players     []*entity.Player
	state       entity.GameState
	moveHistory []entity.MoveHistoryEntry
	chatHistory []entity.ChatMessage
	gameEnded   bool
	winner      *int
	gamesPlayed int
	pending     *pendingNegotiation
	pendingSeq  int

	lastActivity time.Time

	subscribers map[int64]*subscriber
	nextSubID   int64
}

func NewRoom(logger *slog.Logger, sessions repository.SessionRepository, conf config.Room, id, gameType string) *Room {
	return &Room{
		id:       id,
		gameType: gameType,
		logger:   logger.With("component", "room", "roomID", id),
		sessions: sessions,
		conf:     conf,

		state:        entity.NewGameState(),
		gamesPlayed:  1,
		lastActivity: time.Now(),
		subscribers:  make(map[int64]*subscriber),
	}
}

func (that *Room) ID() string {
	return that.id
}

// Join - adds a new player, issues a session token, attaches the
// connection and broadcasts the updated roster.
func (that *Room) Join(ctx context.Context, nickname string, send chan<- []byte) (int64, entity.Player, string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.players) >= 2 {
		return 0, entity.Player{}, "", fmt.Errorf("%w: room id %s", apperror.ErrRoomFull, that.id)
	}

	playerNumber := len(that.players) + 1

	token, err := that.sessions.Issue(ctx, that.id, playerNumber)
	if err != nil {
		return 0, entity.Player{}, "", fmt.Errorf("failed to issue session: %w", err)
	}

	player := &entity.Player{
		Nickname:     nickname,
		PlayerNumber: playerNumber,
		Color:        playerNumber,
		IsConnected:  true,
		SessionID:    token,
		LastSeen:     time.Now(),
	}
	that.players = append(that.players, player)

	sub := that.attachLocked(playerNumber, send)
	that.touchLocked()

	that.sendToSubLocked(sub, JoinSuccessMessage{
		Type:      MessageJoinSuccess,
		Player:    *player,
		SessionID: token,
	})
	that.broadcastLocked(that.roomUpdateLocked())

	that.logger.Info("player joined", "playerNumber", playerNumber)

	return sub.id, *player, token, nil
}

// Reconnect - re-binds a fresh connection to an existing player. The
// session token was already resolved by the gateway; reconnect never
// creates a new player.
func (that *Room) Reconnect(playerNumber int, send chan<- []byte) (int64, entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player := that.playerByNumberLocked(playerNumber)
	if player == nil {
		return 0, entity.Player{}, apperror.ErrInvalidSession
	}

	// A stale binding for the same player is superseded by the new one.
	for id, sub := range that.subscribers {
		if sub.playerNumber == playerNumber {
			delete(that.subscribers, id)
		}
	}

	player.IsConnected = true
	player.LastSeen = time.Now()

	sub := that.attachLocked(playerNumber, send)
	that.touchLocked()

	that.sendToSubLocked(sub, ReconnectSuccessMessage{
		Type:        MessageReconnectSuccess,
		Player:      *player,
		Room:        that.roomStateLocked(),
		MoveHistory: append([]entity.MoveHistoryEntry(nil), that.moveHistory...),
	})
	that.sendExceptLocked(playerNumber, PlayerPresenceMessage{
		Type:     MessagePlayerReconnected,
		Nickname: player.Nickname,
	})
	that.broadcastLocked(that.roomUpdateLocked())

	that.logger.Info("player reconnected", "playerNumber", playerNumber)

	return sub.id, *player, nil
}

// HandleDisconnect - detaches a connection. The player keeps their slot,
// number and color; only the connection state changes.
func (that *Room) HandleDisconnect(subID int64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sub, ok := that.subscribers[subID]
	if !ok {
		return
	}
	delete(that.subscribers, subID)

	that.touchLocked()

	if sub.playerNumber == 0 {
		return
	}

	// The player may already have a replacement connection attached.
	for _, other := range that.subscribers {
		if other.playerNumber == sub.playerNumber {
			return
		}
	}

	player := that.playerByNumberLocked(sub.playerNumber)
	if player == nil {
		return
	}

	player.IsConnected = false
	player.LastSeen = time.Now()

	that.broadcastLocked(PlayerPresenceMessage{
		Type:     MessagePlayerDisconnected,
		Nickname: player.Nickname,
	})

	that.logger.Info("player disconnected", "playerNumber", sub.playerNumber)
}

// SubmitMove - validates and applies a move. The inbound coordinates are
// a request, never a fact: legality, turn order and the win check are all
// recomputed here regardless of anything the client asserts.
func (that *Room) SubmitMove(playerNumber, x, y int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	player := that.playerByNumberLocked(playerNumber)
	if player == nil {
		return apperror.ErrInvalidSession
	}

	if that.gameEnded {
		return apperror.ErrGameEnded
	}

	if len(that.players) < 2 {
		return apperror.ErrGameNotStarted
	}

	if player.Color != that.state.CurrentPlayer {
		return apperror.ErrNotYourTurn
	}

	if err := omok.ApplyMove(&that.state, x, y, player.Color); err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	move := entity.Move{X: x, Y: y, Player: player.Color}
	that.moveHistory = append(that.moveHistory, entity.MoveHistoryEntry{
		Move:   move,
		Player: player.Color,
	})
	that.touchLocked()

	if line := omok.CheckWin(&that.state.Board, x, y, player.Color); line != nil {
		winner := player.PlayerNumber
		that.gameEnded = true
		that.winner = &winner

		// A negotiation pending at the moment of victory is moot.
		that.clearPendingLocked(true)

		that.broadcastLocked(GameEndMessage{
			Type:        MessageGameEnd,
			Winner:      winner,
			GameState:   that.state,
			LastMove:    &move,
			WinningLine: line,
		})

		that.logger.Info("game ended", "winner", winner)

		return nil
	}

	that.broadcastLocked(GameUpdateMessage{
		Type:      MessageGameUpdate,
		GameState: that.state,
		LastMove:  &move,
	})

	return nil
}

// PostChat - appends a chat message to the capped history and broadcasts
// it. The sender identity comes from the session, not the payload.
func (that *Room) PostChat(playerNumber int, message string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	player := that.playerByNumberLocked(playerNumber)
	if player == nil {
		return apperror.ErrInvalidSession
	}

	chatMessage := entity.ChatMessage{
		Nickname:     player.Nickname,
		Message:      message,
		Timestamp:    time.Now().Format(chatTimestampLayout),
		PlayerNumber: player.PlayerNumber,
	}

	that.chatHistory = append(that.chatHistory, chatMessage)
	if len(that.chatHistory) > that.conf.MaxChatHistory {
		that.chatHistory = that.chatHistory[len(that.chatHistory)-that.conf.MaxChatHistory:]
	}
	that.touchLocked()

	that.broadcastLocked(ChatBroadcastMessage{
		Type:         MessageChatBroadcast,
		Nickname:     chatMessage.Nickname,
		Message:      chatMessage.Message,
		Timestamp:    chatMessage.Timestamp,
		PlayerNumber: chatMessage.PlayerNumber,
	})

	return nil
}

// Snapshot - a consistent copy of the room state.
func (that *Room) Snapshot() entity.RoomState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.roomStateLocked()
}

// MoveCount - number of plies applied since the last reset.
func (that *Room) MoveCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.moveHistory)
}

func (that *Room) PlayerCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.players)
}

func (that *Room) ConnectedCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	count := 0
	for _, player := range that.players {
		if player.IsConnected {
			count++
		}
	}

	return count
}

func (that *Room) LastActivity() time.Time {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.lastActivity
}

// Close - releases everything the room owns: the negotiation timer and
// the sessions issued to its players.
func (that *Room) Close(ctx context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clearPendingLocked(false)

	for _, player := range that.players {
		if err := that.sessions.Revoke(ctx, player.SessionID); err != nil {
			that.logger.Error("failed to revoke session", "playerNumber", player.PlayerNumber, "error", err)
		}
	}

	that.subscribers = make(map[int64]*subscriber)
}

func (that *Room) attachLocked(playerNumber int, send chan<- []byte) *subscriber {
	that.nextSubID++
	sub := &subscriber{
		id:           that.nextSubID,
		playerNumber: playerNumber,
		send:         send,
	}
	that.subscribers[sub.id] = sub

	return sub
}

func (that *Room) playerByNumberLocked(playerNumber int) *entity.Player {
	for _, player := range that.players {
		if player.PlayerNumber == playerNumber {
			return player
		}
	}

	return nil
}

func (that *Room) touchLocked() {
	that.lastActivity = time.Now()
}

func (that *Room) statusLocked() string {
	switch {
	case that.gameEnded:
		return entity.StatusEnded
	case len(that.players) < 2:
		return entity.StatusWaiting
	default:
		return entity.StatusPlaying
	}
}

func (that *Room) roomStateLocked() entity.RoomState {
	players := make([]entity.Player, 0, len(that.players))
	for _, player := range that.players {
		players = append(players, *player)
	}

	return entity.RoomState{
		GameType:    that.gameType,
		Players:     players,
		GameState:   that.state,
		Status:      that.statusLocked(),
		GameEnded:   that.gameEnded,
		Winner:      that.winner,
		GamesPlayed: that.gamesPlayed,
		ChatHistory: append([]entity.ChatMessage(nil), that.chatHistory...),
	}
}

func (that *Room) roomUpdateLocked() RoomUpdateMessage {
	return RoomUpdateMessage{
		Type: MessageRoomUpdate,
		Room: that.roomStateLocked(),
	}
}

// broadcastLocked - enqueues a message to every attached connection. A
// connection whose buffer is full misses the message; its client will
// resync via reconnect.
func (that *Room) broadcastLocked(message any) {
	raw := mustMarshal(message)
	for _, sub := range that.subscribers {
		that.enqueueLocked(sub, raw)
	}
}

func (that *Room) sendToLocked(playerNumber int, message any) {
	raw := mustMarshal(message)
	for _, sub := range that.subscribers {
		if sub.playerNumber == playerNumber {
			that.enqueueLocked(sub, raw)
		}
	}
}

func (that *Room) sendExceptLocked(playerNumber int, message any) {
	raw := mustMarshal(message)
	for _, sub := range that.subscribers {
		if sub.playerNumber != playerNumber {
			that.enqueueLocked(sub, raw)
		}
	}
}

func (that *Room) sendToSubLocked(sub *subscriber, message any) {
	that.enqueueLocked(sub, mustMarshal(message))
}

func (that *Room) enqueueLocked(sub *subscriber, raw []byte) {
	select {
	case sub.send <- raw:
	default:
		that.logger.Warn("dropping message for slow connection", "playerNumber", sub.playerNumber)
	}
}

func mustMarshal(message any) []byte {
	raw, err := json.Marshal(message)
	if err != nil {
		panic(fmt.Errorf("failed to marshal message: %w", err))
	}

	return raw
}
