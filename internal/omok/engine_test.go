package omok

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiloilo44/lupin/internal/apperror"
	"github.com/oiloilo44/lupin/internal/entity"
)

func TestIsValidMove(t *testing.T) {
	t.Run("Returns true for an empty in-bounds cell", func(t *testing.T) {
		// Given: an empty board
		board := entity.Board{}

		// When: checking the center cell
		valid := IsValidMove(&board, 7, 7)

		// Then: the move is valid
		assert.True(t, valid)
	})

	t.Run("Returns false for an occupied cell", func(t *testing.T) {
		// Given: a board with a stone at (7,7)
		board := entity.Board{}
		board[7][7] = entity.ColorBlack

		// When: checking the same cell
		valid := IsValidMove(&board, 7, 7)

		// Then: the move is invalid
		assert.False(t, valid)
	})

	t.Run("Returns false outside the board", func(t *testing.T) {
		board := entity.Board{}

		assert.False(t, IsValidMove(&board, -1, 0))
		assert.False(t, IsValidMove(&board, 0, -1))
		assert.False(t, IsValidMove(&board, entity.BoardSize, 0))
		assert.False(t, IsValidMove(&board, 0, entity.BoardSize))
	})
}

func TestApplyMove(t *testing.T) {
	t.Run("Places the stone and passes the turn", func(t *testing.T) {
		// Given: a fresh game state, black to move
		state := entity.NewGameState()

		// When: black plays (7,7)
		err := ApplyMove(&state, 7, 7, entity.ColorBlack)

		// Then: the cell holds black and white is to move
		require.NoError(t, err)
		assert.Equal(t, entity.ColorBlack, state.Board[7][7])
		assert.Equal(t, entity.ColorWhite, state.CurrentPlayer)
	})

	t.Run("Rejects an occupied cell and leaves the board unchanged", func(t *testing.T) {
		// Given: a state where (7,7) is already black
		state := entity.NewGameState()
		require.NoError(t, ApplyMove(&state, 7, 7, entity.ColorBlack))
		before := state

		// When: white tries the same cell
		err := ApplyMove(&state, 7, 7, entity.ColorWhite)

		// Then: the move fails with ErrIllegalMove and nothing changed
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		assert.Equal(t, before, state)
	})

	t.Run("Rejects an out-of-bounds cell", func(t *testing.T) {
		state := entity.NewGameState()

		err := ApplyMove(&state, -1, 3, entity.ColorBlack)

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})
}

func TestUndoMove(t *testing.T) {
	t.Run("Clears the cell and returns the turn to the mover", func(t *testing.T) {
		// Given: black played (3,4)
		state := entity.NewGameState()
		require.NoError(t, ApplyMove(&state, 3, 4, entity.ColorBlack))

		// When: the move is taken back
		UndoMove(&state, 3, 4, entity.ColorBlack)

		// Then: the cell is empty and black is to move again
		assert.Equal(t, entity.EmptyCell, state.Board[4][3])
		assert.Equal(t, entity.ColorBlack, state.CurrentPlayer)
	})

	t.Run("Reapplying the undone move restores the prior state", func(t *testing.T) {
		// Given: a short game
		state := entity.NewGameState()
		require.NoError(t, ApplyMove(&state, 7, 7, entity.ColorBlack))
		require.NoError(t, ApplyMove(&state, 8, 8, entity.ColorWhite))
		before := state

		// When: white's move is undone and replayed
		UndoMove(&state, 8, 8, entity.ColorWhite)
		require.NoError(t, ApplyMove(&state, 8, 8, entity.ColorWhite))

		// Then: board and turn match the state before the undo
		assert.Equal(t, before, state)
	})
}

func TestCheckWin(t *testing.T) {
	t.Run("Detects a horizontal run of exactly five", func(t *testing.T) {
		// Given: black stones at (3..7, 7), last played at (5,7)
		board := entity.Board{}
		for x := 3; x <= 7; x++ {
			board[7][x] = entity.ColorBlack
		}

		// When: checking from the middle stone
		line := CheckWin(&board, 5, 7, entity.ColorBlack)

		// Then: the full five-coordinate line comes back in order
		require.Len(t, line, entity.WinLength)
		assert.Equal(t, entity.Point{X: 3, Y: 7}, line[0])
		assert.Equal(t, entity.Point{X: 7, Y: 7}, line[entity.WinLength-1])
	})

	t.Run("Detects a diagonal run of exactly five", func(t *testing.T) {
		// Given: black stones on the main diagonal from (2,2) to (6,6)
		board := entity.Board{}
		for i := 2; i <= 6; i++ {
			board[i][i] = entity.ColorBlack
		}

		// When: checking from the last stone
		line := CheckWin(&board, 6, 6, entity.ColorBlack)

		// Then: a 5-coordinate line is returned
		require.Len(t, line, entity.WinLength)
	})

	t.Run("Ignores the opponent's stones", func(t *testing.T) {
		// Given: four black stones and a white one closing the row
		board := entity.Board{}
		for x := 3; x <= 6; x++ {
			board[7][x] = entity.ColorBlack
		}
		board[7][7] = entity.ColorWhite

		// When: checking black's last stone
		line := CheckWin(&board, 6, 7, entity.ColorBlack)

		// Then: no win
		assert.Nil(t, line)
	})

	t.Run("A run of six filled through the middle is not a win", func(t *testing.T) {
		// Given: black at (0..3, 0) and (5,0); the gap at (4,0) is
		// filled last, creating six in a row at once
		board := entity.Board{}
		for x := 0; x <= 3; x++ {
			board[0][x] = entity.ColorBlack
		}
		board[0][5] = entity.ColorBlack
		board[0][4] = entity.ColorBlack

		// When: checking from the gap cell
		line := CheckWin(&board, 4, 0, entity.ColorBlack)

		// Then: the contiguous run is six, not five, so no win fires.
		// This pins the observed behavior of the win scan.
		assert.Nil(t, line)
	})

	t.Run("Four in a row is not a win", func(t *testing.T) {
		board := entity.Board{}
		for x := 3; x <= 6; x++ {
			board[7][x] = entity.ColorBlack
		}

		assert.Nil(t, CheckWin(&board, 6, 7, entity.ColorBlack))
	})
}
