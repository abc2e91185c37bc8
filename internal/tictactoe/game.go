package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/gamespace-core/internal/apperror"
)

// Mark is a player's symbol on the board. Empty marks a free cell.
type Mark string

const (
	Empty   Mark = ""
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	// playerTie is what checkGameStatus reports for a full board without a line.
	playerTie Mark = "-"

	// Human always plays X and moves first, the opponent plays O.
	Human    = PlayerX
	Opponent = PlayerO
)

type Status string

const (
	StatusOngoing Status = "ongoing"
	StatusWon     Status = "won"
	StatusDrawn   Status = "drawn"
)

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a 3x3 grid stored row-major.
type Board [9]Mark

// Scoreboard survives board resets for the lifetime of the session.
type Scoreboard struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

type Game struct {
	Board  Board      `json:"board"`
	Turn   Mark       `json:"turn"`
	Winner Mark       `json:"winner"`
	Status Status     `json:"status"`
	Scores Scoreboard `json:"scores"`
}

func NewGame() *Game {
	return &Game{
		Turn:   PlayerX,
		Status: StatusOngoing,
	}
}

// MakeTurn places mark on cell. On any violated precondition the game is left untouched.
func (that *Game) MakeTurn(mark Mark, cell int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if err := that.validateMove(mark, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.Board[cell] = mark
	that.updateGameStatus(mark)

	return nil
}

// validateMove - checks if the move is valid.
func (that *Game) validateMove(mark Mark, cell int) error {
	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if that.Board[cell] != Empty {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameStatus - checks lines first, then a full board, otherwise passes the turn.
func (that *Game) updateGameStatus(mark Mark) {
	switch winner := checkGameStatus(that.Board); winner {
	case PlayerX, PlayerO:
		that.Winner = winner
		that.Status = StatusWon
		that.Turn = Empty
		if winner == PlayerX {
			that.Scores.X++
		} else {
			that.Scores.O++
		}
	case playerTie:
		that.Status = StatusDrawn
		that.Turn = Empty
		that.Scores.Draws++
	default:
		that.Turn = toggleMark(mark)
	}
}

// Reset clears the board for a new round. Scores are kept.
func (that *Game) Reset() {
	that.Board = Board{}
	that.Turn = PlayerX
	that.Winner = Empty
	that.Status = StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDrawn
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// EmptyCells lists free cell indexes in board order.
func (that *Game) EmptyCells() []int {
	cells := make([]int, 0, len(that.Board))
	for i, cell := range that.Board {
		if cell == Empty {
			cells = append(cells, i)
		}
	}
	return cells
}

func toggleMark(currentMark Mark) Mark {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func checkGameStatus(board Board) Mark {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != Empty && a == b && b == c {
			return a
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range board {
		if cell == Empty {
			return Empty
		}
	}

	return playerTie
}
