package chess

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/gamespace-core/internal/apperror"
)

type Status string

// Only StatusPlaying is ever entered. Check, checkmate and draw are part of the model but not computed.
const (
	StatusPlaying   Status = "playing"
	StatusCheck     Status = "check"
	StatusCheckmate Status = "checkmate"
	StatusDraw      Status = "draw"
)

// Move records an applied move.
type Move struct {
	From     Square `json:"from"`
	To       Square `json:"to"`
	Piece    Piece  `json:"piece"`
	Captured Piece  `json:"captured"`
}

// Selection is the outcome of a click on a square.
type Selection int

const (
	Ignored Selection = iota
	Selected
	Deselected
	Moved
)

// Match owns its board exclusively. Legality is ownership and occupancy only:
// no movement geometry, path clearance or check detection.
type Match struct {
	Board    Board   `json:"board"`
	Turn     Color   `json:"turn"`
	Selected *Square `json:"selected"`
	Status   Status  `json:"status"`
	Clock    Clock   `json:"clock"`

	initialClock time.Duration
}

func NewMatch(initialClock time.Duration) *Match {
	match := &Match{initialClock: initialClock}
	match.Reset()
	return match
}

// Reset replaces the board wholesale and restores the starting state.
func (that *Match) Reset() {
	that.Board = NewBoard()
	that.Turn = White
	that.Selected = nil
	that.Status = StatusPlaying
	that.Clock = NewClock(that.initialClock)
}

func (that *Match) IsPlaying() bool {
	return that.Status == StatusPlaying
}

// SelectSquare handles a click. With nothing selected it selects a piece of the side to move.
// Clicking the selected square again deselects it; clicking another square attempts the move.
func (that *Match) SelectSquare(sq Square) (Selection, *Move, error) {
	if !that.IsPlaying() {
		return Ignored, nil, apperror.ErrGameFinished
	}

	if !sq.Valid() {
		return Ignored, nil, fmt.Errorf("%w: square %v", apperror.ErrInvalidCell, sq)
	}

	if that.Selected == nil {
		piece := that.Board.At(sq)
		if piece.IsZero() || piece.Color != that.Turn {
			return Ignored, nil, nil
		}

		selected := sq
		that.Selected = &selected

		return Selected, nil, nil
	}

	if *that.Selected == sq {
		that.Selected = nil
		return Deselected, nil, nil
	}

	move, err := that.MakeMove(*that.Selected, sq)
	if err != nil {
		return Ignored, nil, err
	}

	return Moved, &move, nil
}

// MakeMove relocates the piece on from to to, capturing by overwrite. The selection is cleared either way.
func (that *Match) MakeMove(from, to Square) (Move, error) {
	that.Selected = nil

	if err := that.validateMove(from, to); err != nil {
		return Move{}, err
	}

	move := Move{
		From:     from,
		To:       to,
		Piece:    that.Board.At(from),
		Captured: that.Board.At(to),
	}

	that.Board.set(to, move.Piece)
	that.Board.set(from, Piece{})
	that.Turn = that.Turn.Opposite()

	return move, nil
}

func (that *Match) validateMove(from, to Square) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: %v -> %v is off the board", apperror.ErrInvalidMove, from, to)
	}

	piece := that.Board.At(from)
	if piece.IsZero() {
		return fmt.Errorf("%w: no piece on %s", apperror.ErrInvalidMove, from)
	}

	if piece.Color != that.Turn {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrNotYourTurn)
	}

	if target := that.Board.At(to); !target.IsZero() && target.Color == piece.Color {
		return fmt.Errorf("%w: %s holds a %s piece", apperror.ErrInvalidMove, to, target.Color)
	}

	return nil
}

// Destinations lists every square the piece on from could move to right now, row by row.
func (that *Match) Destinations(from Square) []Square {
	squares := make([]Square, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			to := Square{Row: row, Col: col}
			if that.validateMove(from, to) == nil {
				squares = append(squares, to)
			}
		}
	}
	return squares
}
