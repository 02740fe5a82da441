package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/oiloilo44/lupin/internal/apperror"
	"github.com/oiloilo44/lupin/internal/entity"
)

var (
	errAlreadyJoined = errors.New("connection is already bound to a player")
	errNotJoined     = errors.New("join or reconnect first")
	errEmptyNickname = errors.New("nickname is required")
	errEmptyMessage  = errors.New("message is empty")
	errWrongRoom     = errors.New("session belongs to another room")
)

func (that *Server) handleJoin(ctx context.Context, cl *client, raw []byte) error {
	var payload joinMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal join payload: %w", err)
	}

	if cl.isBound() {
		return errAlreadyJoined
	}

	room, err := that.directory.Get(cl.roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	// A join carrying a still-valid token for this room is a reattach,
	// not a new player.
	if payload.SessionID != "" {
		binding, resolveErr := that.sessions.Resolve(ctx, payload.SessionID)
		if resolveErr == nil && binding.RoomID == cl.roomID {
			subID, player, reconnectErr := room.Reconnect(binding.PlayerNumber, cl.send)
			if reconnectErr != nil {
				return fmt.Errorf("failed to reconnect: %w", reconnectErr)
			}

			cl.bind(room, subID, player.PlayerNumber)

			return nil
		}
	}

	nickname := sanitizeText(payload.Nickname, that.conf.MaxNicknameLength)
	if nickname == "" {
		return errEmptyNickname
	}

	subID, player, _, err := room.Join(ctx, nickname, cl.send)
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	cl.bind(room, subID, player.PlayerNumber)

	return nil
}

func (that *Server) handleReconnect(ctx context.Context, cl *client, raw []byte) error {
	var payload reconnectMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal reconnect payload: %w", err)
	}

	if cl.isBound() {
		return errAlreadyJoined
	}

	if payload.SessionID == "" {
		return apperror.ErrInvalidSession
	}

	binding, err := that.sessions.Resolve(ctx, payload.SessionID)
	if err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}

	if binding.RoomID != cl.roomID {
		return errWrongRoom
	}

	room, err := that.directory.Get(cl.roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	subID, player, err := room.Reconnect(binding.PlayerNumber, cl.send)
	if err != nil {
		return fmt.Errorf("failed to reconnect: %w", err)
	}

	cl.bind(room, subID, player.PlayerNumber)

	return nil
}

func (that *Server) handleMove(_ context.Context, cl *client, raw []byte) error {
	var payload moveMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal move payload: %w", err)
	}

	if !cl.isBound() {
		return errNotJoined
	}

	if err := cl.room.SubmitMove(cl.playerNumber, payload.X, payload.Y); err != nil {
		return fmt.Errorf("failed to submit move: %w", err)
	}

	return nil
}

func (that *Server) handleUndoRequest(_ context.Context, cl *client, _ []byte) error {
	if !cl.isBound() {
		return errNotJoined
	}

	if err := cl.room.RequestNegotiation(cl.playerNumber, entity.NegotiationUndo); err != nil {
		return fmt.Errorf("failed to request undo: %w", err)
	}

	return nil
}

func (that *Server) handleUndoResponse(_ context.Context, cl *client, raw []byte) error {
	var payload responseMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal undo response: %w", err)
	}

	if !cl.isBound() {
		return errNotJoined
	}

	if err := cl.room.RespondNegotiation(cl.playerNumber, payload.Accepted); err != nil {
		return fmt.Errorf("failed to respond to undo: %w", err)
	}

	return nil
}

func (that *Server) handleRestartRequest(_ context.Context, cl *client, _ []byte) error {
	if !cl.isBound() {
		return errNotJoined
	}

	if err := cl.room.RequestNegotiation(cl.playerNumber, entity.NegotiationRestart); err != nil {
		return fmt.Errorf("failed to request restart: %w", err)
	}

	return nil
}

func (that *Server) handleRestartResponse(_ context.Context, cl *client, raw []byte) error {
	var payload responseMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal restart response: %w", err)
	}

	if !cl.isBound() {
		return errNotJoined
	}

	if err := cl.room.RespondNegotiation(cl.playerNumber, payload.Accepted); err != nil {
		return fmt.Errorf("failed to respond to restart: %w", err)
	}

	return nil
}

func (that *Server) handleChatMessage(_ context.Context, cl *client, raw []byte) error {
	var payload chatMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal chat payload: %w", err)
	}

	if !cl.isBound() {
		return errNotJoined
	}

	message := sanitizeText(payload.Message, that.conf.MaxMessageLength)
	if message == "" {
		return errEmptyMessage
	}

	if err := cl.room.PostChat(cl.playerNumber, message); err != nil {
		return fmt.Errorf("failed to post chat message: %w", err)
	}

	return nil
}

// sanitizeText - trims, bounds and display-escapes client text. Nicknames
// and chat bodies are presentation data, never identity.
func sanitizeText(text string, maxLength int) string {
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > maxLength {
		text = string(runes[:maxLength])
	}

	return html.EscapeString(text)
}
