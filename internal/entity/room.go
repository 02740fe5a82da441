package entity

// Room lifecycle statuses as seen on the wire.
const (
	StatusWaiting = "waiting"
	StatusPlaying = "playing"
	StatusEnded   = "ended"
)

const GameTypeOmok = "omok"

// RoomState - a consistent snapshot of a room, built under the room's
// lock and safe to marshal after the lock is released.
type RoomState struct {
	GameType    string        `json:"game_type"`
	Players     []Player      `json:"players"`
	GameState   GameState     `json:"game_state"`
	Status      string        `json:"status"`
	GameEnded   bool          `json:"game_ended"`
	Winner      *int          `json:"winner"`
	GamesPlayed int           `json:"games_played"`
	ChatHistory []ChatMessage `json:"chat_history"`
}
