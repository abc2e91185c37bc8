package chess

import (
	"fmt"

	"github.com/rocketscienceinc/gamespace-core/internal/apperror"
)

// Rand is the random source the opponent draws from. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// OpponentMove picks one of side's pieces uniformly, then one of its destinations uniformly, and plays it.
// When the chosen piece has nowhere to go no move is made and the turn stays with side.
func OpponentMove(match *Match, side Color, rnd Rand) (Move, error) {
	if !match.IsPlaying() {
		return Move{}, apperror.ErrGameFinished
	}

	if match.Turn != side {
		return Move{}, apperror.ErrNotYourTurn
	}

	pieces := match.Board.Squares(side)
	if len(pieces) == 0 {
		return Move{}, fmt.Errorf("%w: %s has no pieces", apperror.ErrNoAvailableMoves, side)
	}

	from := pieces[rnd.IntN(len(pieces))]

	destinations := match.Destinations(from)
	if len(destinations) == 0 {
		return Move{}, fmt.Errorf("%w: piece on %s is stuck", apperror.ErrNoAvailableMoves, from)
	}

	to := destinations[rnd.IntN(len(destinations))]

	move, err := match.MakeMove(from, to)
	if err != nil {
		return Move{}, fmt.Errorf("opponent failed to make move: %w", err)
	}

	return move, nil
}
