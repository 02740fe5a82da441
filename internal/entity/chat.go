package entity

type ChatMessage struct {
	Nickname     string `json:"nickname"`
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
	PlayerNumber int    `json:"player_number"`
}
