package apperror

import "errors"

var (
	ErrRoomFull       = errors.New("room is already full")
	ErrRoomNotFound   = errors.New("room not found")
	ErrInvalidSession = errors.New("session is unknown or expired")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrGameNotStarted = errors.New("game is not started")
	ErrIllegalMove    = errors.New("cell is occupied or out of bounds")
	ErrGameEnded      = errors.New("game is already ended")
	ErrGameNotEnded   = errors.New("game is not ended yet")
	ErrNotEligible    = errors.New("move cannot be taken back")
	ErrAlreadyPending = errors.New("another request is already pending")
)
