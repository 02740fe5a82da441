package entity

import "time"

type Player struct {
	Nickname     string    `json:"nickname"`
	PlayerNumber int       `json:"player_number"`
	Color        int       `json:"color"`
	IsConnected  bool      `json:"is_connected"`
	SessionID    string    `json:"-"`
	LastSeen     time.Time `json:"-"`
}
