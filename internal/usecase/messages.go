package usecase

import "github.com/oiloilo44/lupin/internal/entity"

// Outbound message types. Envelopes are flat JSON objects carrying a
// "type" discriminator next to the payload fields.
const (
	MessageRoomUpdate         = "room_update"
	MessageJoinSuccess        = "join_success"
	MessageReconnectSuccess   = "reconnect_success"
	MessagePlayerDisconnected = "player_disconnected"
	MessagePlayerReconnected  = "player_reconnected"
	MessageGameUpdate         = "game_update"
	MessageGameEnd            = "game_end"
	MessageUndoRequest        = "undo_request"
	MessageUndoAccepted       = "undo_accepted"
	MessageUndoRejected       = "undo_rejected"
	MessageRestartRequest     = "restart_request"
	MessageRestartAccepted    = "restart_accepted"
	MessageRestartRejected    = "restart_rejected"
	MessageChatBroadcast      = "chat_broadcast"
	MessageError              = "error"
)

type RoomUpdateMessage struct {
	Type string           `json:"type"`
	Room entity.RoomState `json:"room"`
}

type JoinSuccessMessage struct {
	Type      string        `json:"type"`
	Player    entity.Player `json:"player"`
	SessionID string        `json:"session_id"`
}

type ReconnectSuccessMessage struct {
	Type        string                    `json:"type"`
	Player      entity.Player             `json:"player"`
	Room        entity.RoomState          `json:"room"`
	MoveHistory []entity.MoveHistoryEntry `json:"move_history"`
}

// PlayerPresenceMessage - player_disconnected / player_reconnected.
type PlayerPresenceMessage struct {
	Type     string `json:"type"`
	Nickname string `json:"nickname"`
}

type GameUpdateMessage struct {
	Type      string           `json:"type"`
	GameState entity.GameState `json:"game_state"`
	LastMove  *entity.Move     `json:"last_move"`
}

type GameEndMessage struct {
	Type        string           `json:"type"`
	Winner      int              `json:"winner"`
	GameState   entity.GameState `json:"game_state"`
	LastMove    *entity.Move     `json:"last_move"`
	WinningLine []entity.Point   `json:"winning_line"`
}

// NegotiationRequestMessage - undo_request / restart_request fan-out.
// The requester gets is_requester=true as the "waiting" notice, the
// opponent gets is_requester=false as the prompt.
type NegotiationRequestMessage struct {
	Type        string `json:"type"`
	From        int    `json:"from"`
	IsRequester bool   `json:"is_requester"`
}

// NegotiationRejectedMessage - undo_rejected / restart_rejected.
type NegotiationRejectedMessage struct {
	Type string `json:"type"`
}

type UndoAcceptedMessage struct {
	Type      string           `json:"type"`
	GameState entity.GameState `json:"game_state"`
}

type RestartAcceptedMessage struct {
	Type        string           `json:"type"`
	GameState   entity.GameState `json:"game_state"`
	Players     []entity.Player  `json:"players"`
	GamesPlayed int              `json:"games_played"`
}

type ChatBroadcastMessage struct {
	Type         string `json:"type"`
	Nickname     string `json:"nickname"`
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
	PlayerNumber int    `json:"player_number"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorMessage(message string) ErrorMessage {
	return ErrorMessage{
		Type:    MessageError,
		Message: message,
	}
}
