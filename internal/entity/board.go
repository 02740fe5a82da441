package entity

const (
	BoardSize = 15
	WinLength = 5
)

// Cell colors. The first joiner plays black and moves first.
const (
	EmptyCell  = 0
	ColorBlack = 1
	ColorWhite = 2
)

// Board is a fixed grid of cells indexed as [y][x].
type Board [BoardSize][BoardSize]int

// Point - a single board coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameState - the board plus whose color moves next.
type GameState struct {
	Board         Board `json:"board"`
	CurrentPlayer int   `json:"currentPlayer"`
}

func NewGameState() GameState {
	return GameState{
		CurrentPlayer: ColorBlack,
	}
}

// StoneCount - number of non-empty cells on the board.
func (that *Board) StoneCount() int {
	count := 0

	for y := range that {
		for x := range that[y] {
			if that[y][x] != EmptyCell {
				count++
			}
		}
	}

	return count
}

func OpponentColor(color int) int {
	if color == ColorBlack {
		return ColorWhite
	}
	return ColorBlack
}
