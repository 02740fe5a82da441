package omok

import (
	"fmt"

	"github.com/oiloilo44/lupin/internal/apperror"
	"github.com/oiloilo44/lupin/internal/entity"
)

// lineDirections - the four scan axes through a played cell.
var lineDirections = [4][2]int{
	{0, 1},  // vertical
	{1, 0},  // horizontal
	{1, 1},  // diagonal
	{1, -1}, // anti-diagonal
}

// IsValidMove - checks that the cell is on the board and empty.
func IsValidMove(board *entity.Board, x, y int) bool {
	if x < 0 || x >= entity.BoardSize || y < 0 || y >= entity.BoardSize {
		return false
	}

	return board[y][x] == entity.EmptyCell
}

// ApplyMove - places a stone and passes the turn to the opponent.
func ApplyMove(state *entity.GameState, x, y, color int) error {
	if !IsValidMove(&state.Board, x, y) {
		return fmt.Errorf("%w: (%d,%d)", apperror.ErrIllegalMove, x, y)
	}

	state.Board[y][x] = color
	state.CurrentPlayer = entity.OpponentColor(color)

	return nil
}

// UndoMove - reverses a single stone and gives the turn back to the
// player who placed it. Only ever called for the most recent move.
func UndoMove(state *entity.GameState, x, y, color int) {
	state.Board[y][x] = entity.EmptyCell
	state.CurrentPlayer = color
}

// CheckWin - scans the four line directions through the just-played cell
// and returns the winning line, or nil.
//
// A run wins only when its contiguous length is exactly WinLength; longer
// runs are deliberately not detected. This pins the behavior of the
// original game, it is not standard omok overline handling.
func CheckWin(board *entity.Board, x, y, color int) []entity.Point {
	for _, dir := range lineDirections {
		dx, dy := dir[0], dir[1]

		count := 1
		line := []entity.Point{{X: x, Y: y}}

		for i := 1; i < entity.WinLength; i++ {
			nx, ny := x+dx*i, y+dy*i
			if !isColorAt(board, nx, ny, color) {
				break
			}
			count++
			line = append(line, entity.Point{X: nx, Y: ny})
		}

		for i := 1; i < entity.WinLength; i++ {
			nx, ny := x-dx*i, y-dy*i
			if !isColorAt(board, nx, ny, color) {
				break
			}
			count++
			line = append([]entity.Point{{X: nx, Y: ny}}, line...)
		}

		if count == entity.WinLength {
			return line
		}
	}

	return nil
}

func isColorAt(board *entity.Board, x, y, color int) bool {
	if x < 0 || x >= entity.BoardSize || y < 0 || y >= entity.BoardSize {
		return false
	}

	return board[y][x] == color
}
