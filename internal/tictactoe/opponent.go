package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/gamespace-core/internal/apperror"
)

// Rand is the random source the opponent draws from. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// OpponentTurn plays the opponent's mark on a uniformly chosen empty cell and returns that cell.
func OpponentTurn(game *Game, rnd Rand) (int, error) {
	if !game.IsOngoing() {
		return -1, apperror.ErrGameFinished
	}

	if game.Turn != Opponent {
		return -1, apperror.ErrNotYourTurn
	}

	availableCells := game.EmptyCells()
	if len(availableCells) == 0 {
		return -1, apperror.ErrNoAvailableMoves
	}

	chosenCell := availableCells[rnd.IntN(len(availableCells))]

	if err := game.MakeTurn(Opponent, chosenCell); err != nil {
		return -1, fmt.Errorf("opponent failed to make turn: %w", err)
	}

	return chosenCell, nil
}
