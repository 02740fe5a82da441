package usecase

import (
	"fmt"
	"time"

	"github.com/oiloilo44/lupin/internal/apperror"
	"github.com/oiloilo44/lupin/internal/entity"
	"github.com/oiloilo44/lupin/internal/omok"
)

// pendingNegotiation - the single outstanding two-party request of a
// room. seq guards the expiry timer against firing after a response or a
// later negotiation already settled the slot.
type pendingNegotiation struct {
	kind      string
	requester int
	status    string
	createdAt time.Time
	seq       int
	timer     *time.Timer
}

// RequestNegotiation - opens an undo or restart negotiation. At most one
// negotiation may be pending per room; eligibility rules differ by kind.
func (that *Room) RequestNegotiation(playerNumber int, kind string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	player := that.playerByNumberLocked(playerNumber)
	if player == nil {
		return apperror.ErrInvalidSession
	}

	if that.pending != nil {
		return apperror.ErrAlreadyPending
	}

	switch kind {
	case entity.NegotiationUndo:
		if that.gameEnded {
			return apperror.ErrGameEnded
		}
		if len(that.players) < 2 {
			return apperror.ErrGameNotStarted
		}
		if len(that.moveHistory) == 0 {
			return fmt.Errorf("%w: no moves played", apperror.ErrNotEligible)
		}
		// Only the player who is NOT to move may ask; they take back
		// their own most recent ply and get the turn again.
		if player.Color == that.state.CurrentPlayer {
			return fmt.Errorf("%w: opponent's move is last", apperror.ErrNotEligible)
		}
	case entity.NegotiationRestart:
		if !that.gameEnded {
			return apperror.ErrGameNotEnded
		}
	default:
		return fmt.Errorf("unknown negotiation kind: %q", kind)
	}

	that.pendingSeq++
	seq := that.pendingSeq
	that.pending = &pendingNegotiation{
		kind:      kind,
		requester: playerNumber,
		status:    entity.NegotiationPending,
		createdAt: time.Now(),
		seq:       seq,
		timer: time.AfterFunc(that.conf.NegotiationTimeout, func() {
			that.expireNegotiation(seq)
		}),
	}
	that.touchLocked()

	that.sendToLocked(playerNumber, NegotiationRequestMessage{
		Type:        requestMessageType(kind),
		From:        playerNumber,
		IsRequester: true,
	})
	that.sendExceptLocked(playerNumber, NegotiationRequestMessage{
		Type:        requestMessageType(kind),
		From:        playerNumber,
		IsRequester: false,
	})

	that.logger.Info("negotiation requested", "kind", kind, "playerNumber", playerNumber)

	return nil
}

// RespondNegotiation - settles the pending negotiation. A response from
// the requester themselves, or with nothing pending, is ignored.
func (that *Room) RespondNegotiation(playerNumber int, accepted bool) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.pending == nil || that.pending.requester == playerNumber {
		return nil
	}

	pending := that.pending
	pending.timer.Stop()
	that.pending = nil
	that.touchLocked()

	if !accepted {
		pending.status = entity.NegotiationRejected
		that.sendToLocked(pending.requester, NegotiationRejectedMessage{
			Type: rejectedMessageType(pending.kind),
		})

		that.logger.Info("negotiation rejected", "kind", pending.kind)

		return nil
	}

	pending.status = entity.NegotiationAccepted

	switch pending.kind {
	case entity.NegotiationUndo:
		that.acceptUndoLocked(pending)
	case entity.NegotiationRestart:
		that.acceptRestartLocked()
	}

	that.logger.Info("negotiation accepted", "kind", pending.kind)

	return nil
}

// acceptUndoLocked - reverses exactly one ply, the most recent one, and
// gives the turn back to the player who placed it.
func (that *Room) acceptUndoLocked(pending *pendingNegotiation) {
	if len(that.moveHistory) == 0 {
		that.sendToLocked(pending.requester, NegotiationRejectedMessage{
			Type: rejectedMessageType(pending.kind),
		})
		return
	}

	last := that.moveHistory[len(that.moveHistory)-1]
	that.moveHistory = that.moveHistory[:len(that.moveHistory)-1]

	omok.UndoMove(&that.state, last.Move.X, last.Move.Y, last.Move.Player)

	that.broadcastLocked(UndoAcceptedMessage{
		Type:      MessageUndoAccepted,
		GameState: that.state,
	})
}

// acceptRestartLocked - resets the board and counters for a fresh game
// while preserving player numbers and color assignment.
func (that *Room) acceptRestartLocked() {
	that.state = entity.NewGameState()
	that.moveHistory = nil
	that.gameEnded = false
	that.winner = nil
	that.gamesPlayed++

	players := make([]entity.Player, 0, len(that.players))
	for _, player := range that.players {
		players = append(players, *player)
	}

	that.broadcastLocked(RestartAcceptedMessage{
		Type:        MessageRestartAccepted,
		GameState:   that.state,
		Players:     players,
		GamesPlayed: that.gamesPlayed,
	})
}

// expireNegotiation - fired by the timer; releases the requester if the
// negotiation is still the pending one.
func (that *Room) expireNegotiation(seq int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.pending == nil || that.pending.seq != seq {
		return
	}

	pending := that.pending
	pending.status = entity.NegotiationExpired
	that.pending = nil

	that.sendToLocked(pending.requester, NegotiationRejectedMessage{
		Type: rejectedMessageType(pending.kind),
	})

	that.logger.Info("negotiation expired", "kind", pending.kind, "requester", pending.requester)
}

// clearPendingLocked - drops the pending negotiation, optionally telling
// the requester it is off.
func (that *Room) clearPendingLocked(notify bool) {
	if that.pending == nil {
		return
	}

	pending := that.pending
	pending.timer.Stop()
	that.pending = nil

	if notify {
		that.sendToLocked(pending.requester, NegotiationRejectedMessage{
			Type: rejectedMessageType(pending.kind),
		})
	}
}

func requestMessageType(kind string) string {
	if kind == entity.NegotiationUndo {
		return MessageUndoRequest
	}
	return MessageRestartRequest
}

func rejectedMessageType(kind string) string {
	if kind == entity.NegotiationUndo {
		return MessageUndoRejected
	}
	return MessageRestartRejected
}
