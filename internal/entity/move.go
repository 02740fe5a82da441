package entity

// Move - a single placed stone.
type Move struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Player int `json:"player"`
}

// MoveHistoryEntry - one ply of the append-only move history.
type MoveHistoryEntry struct {
	Move   Move `json:"move"`
	Player int  `json:"player"`
}
