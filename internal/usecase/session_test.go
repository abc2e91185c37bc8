package usecase

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gamespace-core/internal/apperror"
	"github.com/rocketscienceinc/gamespace-core/internal/chess"
	"github.com/rocketscienceinc/gamespace-core/internal/entity"
	"github.com/rocketscienceinc/gamespace-core/internal/notify"
	"github.com/rocketscienceinc/gamespace-core/internal/scheduler"
	"github.com/rocketscienceinc/gamespace-core/internal/tictactoe"
)

const testDelay = 1500 * time.Millisecond

// scriptedRand returns the scripted picks in order, modulo n, and records every n it was asked for.
type scriptedRand struct {
	picks []int
	calls []int
}

func (that *scriptedRand) IntN(n int) int {
	that.calls = append(that.calls, n)
	if len(that.picks) == 0 {
		return 0
	}

	pick := that.picks[0]
	that.picks = that.picks[1:]

	return pick % n
}

type recordingListener struct {
	notify.Recorder

	mu              sync.Mutex
	ticTacToeStates []TicTacToeState
	chessStates     []ChessState
	detached        int
}

func (that *recordingListener) TicTacToeChanged(state TicTacToeState) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.ticTacToeStates = append(that.ticTacToeStates, state)
}

func (that *recordingListener) ChessChanged(state ChessState) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.chessStates = append(that.chessStates, state)
}

func (that *recordingListener) Detached() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.detached++
}

func (that *recordingListener) lastTicTacToe() TicTacToeState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.ticTacToeStates[len(that.ticTacToeStates)-1]
}

func (that *recordingListener) lastChess() ChessState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.chessStates[len(that.chessStates)-1]
}

// stubbornScheduler never cancels, so stale tasks still fire.
type stubbornScheduler struct {
	*scheduler.Manual
}

func (stubbornScheduler) Cancel(scheduler.TaskID) bool {
	return false
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, sched scheduler.Scheduler, picks ...int) (*Session, *recordingListener, *scriptedRand) {
	t.Helper()

	rnd := &scriptedRand{picks: picks}
	player := &entity.Player{ID: "player-1", Name: "Jane Doe", Email: "jane@example.com"}

	session := NewSession(discardLogger(), player, sched, Options{
		OpponentDelay: testDelay,
		Rand:          rnd,
	})

	listener := &recordingListener{}
	session.setListener(listener)

	return session, listener, rnd
}

func TestSession_ClickCell(t *testing.T) {
	t.Run("Human move schedules the opponent", func(t *testing.T) {
		// Given: a fresh session
		sched := scheduler.NewManual()
		session, listener, _ := newTestSession(t, sched, 0)

		// When: the human plays the center
		err := session.ClickCell(4)

		// Then: X is placed and the opponent is thinking
		require.NoError(t, err)
		assert.Equal(t, []time.Duration{testDelay}, sched.Delays())

		state := listener.lastTicTacToe()
		assert.Equal(t, tictactoe.PlayerX, state.Board[4])
		assert.Equal(t, tictactoe.PlayerO, state.Turn)
		assert.True(t, state.OpponentThinking)
		assert.Equal(t, "Alex Johnson's Turn", state.Headline)

		// When: the opponent task fires
		require.Equal(t, 1, sched.RunPending())

		// Then: O is placed on the first empty cell and the turn is back to the human
		state = listener.lastTicTacToe()
		assert.Equal(t, tictactoe.PlayerO, state.Board[0])
		assert.Equal(t, tictactoe.PlayerX, state.Turn)
		assert.False(t, state.OpponentThinking)
		assert.Equal(t, "Jane Doe's Turn", state.Headline)
		assert.Empty(t, listener.Messages())
	})

	t.Run("Clicks during the opponent's turn are ignored", func(t *testing.T) {
		// Given: the opponent is thinking
		sched := scheduler.NewManual()
		session, listener, _ := newTestSession(t, sched)
		require.NoError(t, session.ClickCell(0))
		updates := len(listener.ticTacToeStates)

		// When: the human clicks again
		err := session.ClickCell(1)

		// Then: nothing changes and nothing is shown
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Len(t, listener.ticTacToeStates, updates)
		assert.Equal(t, tictactoe.Empty, session.TicTacToe().Board[1])
		assert.Empty(t, listener.Messages())
		assert.Equal(t, 1, sched.Pending())
	})

	t.Run("Occupied and out of range cells are ignored", func(t *testing.T) {
		// Given: a board where X and O have moved
		sched := scheduler.NewManual()
		session, listener, _ := newTestSession(t, sched, 0)
		require.NoError(t, session.ClickCell(4))
		sched.RunPending()

		// When: the human clicks an occupied cell and a cell off the board
		occupiedErr := session.ClickCell(0)
		rangeErr := session.ClickCell(9)

		// Then: both are rejected without notifications
		require.ErrorIs(t, occupiedErr, apperror.ErrCellOccupied)
		require.ErrorIs(t, rangeErr, apperror.ErrInvalidCell)
		assert.Empty(t, listener.Messages())
		assert.Equal(t, tictactoe.PlayerX, session.TicTacToe().Turn)
	})

	t.Run("Human wins the top row", func(t *testing.T) {
		// Given: the opponent answers on cells 3 and 4
		sched := scheduler.NewManual()
		session, listener, _ := newTestSession(t, sched, 2, 1)

		// When: the human plays 0, 1, 2
		require.NoError(t, session.ClickCell(0))
		sched.RunPending()
		require.NoError(t, session.ClickCell(1))
		sched.RunPending()
		require.NoError(t, session.ClickCell(2))

		// Then: the human wins and nothing more is scheduled
		state := listener.lastTicTacToe()
		assert.Equal(t, tictactoe.StatusWon, state.Status)
		assert.Equal(t, tictactoe.PlayerX, state.Winner)
		assert.True(t, state.GameOver)
		assert.Equal(t, 1, state.Scores.X)
		assert.Equal(t, "Jane Doe Wins!", state.Headline)
		assert.Equal(t, []string{"success: Jane Doe wins!"}, listener.Messages())
		assert.Zero(t, sched.Pending())

		// And: the finished game ignores further clicks
		require.ErrorIs(t, session.ClickCell(5), apperror.ErrGameFinished)
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: the opponent answers on cells 4, 2, 3 and 7
		sched := scheduler.NewManual()
		session, listener, _ := newTestSession(t, sched, 3, 1, 1, 1)

		// When: the human plays 0, 8, 6, 5, 1
		for _, cell := range []int{0, 8, 6, 5} {
			require.NoError(t, session.ClickCell(cell))
			require.Equal(t, 1, sched.RunPending())
		}
		require.NoError(t, session.ClickCell(1))

		// Then: the game is drawn
		state := listener.lastTicTacToe()
		assert.Equal(t, tictactoe.StatusDrawn, state.Status)
		assert.Equal(t, tictactoe.Empty, state.Winner)
		assert.Equal(t, 1, state.Scores.Draws)
		assert.Equal(t, "It's a Draw!", state.Headline)
		assert.Equal(t, []string{"info: It's a draw!"}, listener.Messages())

		n := listener.All()[0]
		assert.Equal(t, notify.DefaultDuration.Milliseconds(), n.Duration)
		assert.NotEmpty(t, n.ID)
	})
}

func TestSession_ResetTicTacToe(t *testing.T) {
	t.Run("Reset cancels the pending opponent turn", func(t *testing.T) {
		// Given: the opponent is thinking
		sched := scheduler.NewManual()
		session, listener, _ := newTestSession(t, sched)
		require.NoError(t, session.ClickCell(0))

		// When: the board is reset
		session.ResetTicTacToe()

		// Then: the task is gone and the board is fresh
		assert.Zero(t, sched.Pending())

		state := listener.lastTicTacToe()
		assert.Equal(t, tictactoe.Board{}, state.Board)
		assert.Equal(t, tictactoe.PlayerX, state.Turn)
		assert.False(t, state.OpponentThinking)
	})

	t.Run("Stale opponent turn after reset is dropped", func(t *testing.T) {
		// Given: a scheduler that cannot cancel
		sched := stubbornScheduler{Manual: scheduler.NewManual()}
		session, _, rnd := newTestSession(t, sched)
		require.NoError(t, session.ClickCell(0))
		session.ResetTicTacToe()

		// When: the old task fires anyway
		require.Equal(t, 1, sched.RunPending())

		// Then: the fresh board is untouched and no pick was drawn
		state := session.TicTacToe()
		assert.Equal(t, tictactoe.Board{}, state.Board)
		assert.Equal(t, tictactoe.PlayerX, state.Turn)
		assert.Empty(t, rnd.calls)
	})

	t.Run("Scores survive reset", func(t *testing.T) {
		// Given: the human has won once
		sched := scheduler.NewManual()
		session, _, _ := newTestSession(t, sched, 2, 1)
		require.NoError(t, session.ClickCell(0))
		sched.RunPending()
		require.NoError(t, session.ClickCell(1))
		sched.RunPending()
		require.NoError(t, session.ClickCell(2))

		// When: the board is reset
		session.ResetTicTacToe()

		// Then: the score is kept and a new game is ongoing
		state := session.TicTacToe()
		assert.Equal(t, tictactoe.Scoreboard{X: 1}, state.Scores)
		assert.Equal(t, tictactoe.StatusOngoing, state.Status)
		assert.False(t, state.GameOver)
	})
}

func TestSession_ClickSquare(t *testing.T) {
	e2 := chess.Square{Row: 6, Col: 4}
	e4 := chess.Square{Row: 4, Col: 4}

	t.Run("Select then move schedules the opponent", func(t *testing.T) {
		// Given: a fresh match
		sched := scheduler.NewManual()
		session, listener, rnd := newTestSession(t, sched, 8, 0)

		// When: the human selects e2
		require.NoError(t, session.ClickSquare(e2))

		// Then: the square is highlighted
		state := listener.lastChess()
		require.NotNil(t, state.Selected)
		assert.Equal(t, e2, *state.Selected)

		// When: the human clicks e4
		require.NoError(t, session.ClickSquare(e4))

		// Then: the pawn moved and the opponent is thinking
		state = listener.lastChess()
		assert.Nil(t, state.Selected)
		assert.Equal(t, chess.Black, state.Turn)
		assert.True(t, state.OpponentThinking)
		assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR", state.FEN)
		require.NotNil(t, state.Board[4][4])
		assert.Equal(t, "♙", state.Board[4][4].Symbol)
		assert.Nil(t, state.Board[6][4])

		// When: the opponent task fires
		require.Equal(t, 1, sched.RunPending())

		// Then: the a7 pawn went to a6 and it is white's turn again
		state = listener.lastChess()
		assert.Equal(t, chess.White, state.Turn)
		require.NotNil(t, state.Board[2][0])
		assert.Equal(t, chess.Black, state.Board[2][0].Color)
		assert.Nil(t, state.Board[1][0])
		assert.Equal(t, []int{16, 48}, rnd.calls)
		assert.Empty(t, listener.Messages())
	})

	t.Run("Clicks during black's turn are ignored", func(t *testing.T) {
		// Given: the human has moved
		sched := scheduler.NewManual()
		session, listener, _ := newTestSession(t, sched)
		require.NoError(t, session.ClickSquare(e2))
		require.NoError(t, session.ClickSquare(e4))
		updates := len(listener.chessStates)

		// When: the human clicks a black pawn
		err := session.ClickSquare(chess.Square{Row: 1, Col: 0})

		// Then: nothing changes
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Len(t, listener.chessStates, updates)
		assert.Nil(t, session.Chess().Selected)
	})

	t.Run("Move onto own piece raises invalid move", func(t *testing.T) {
		// Given: e2 is selected
		sched := scheduler.NewManual()
		session, listener, _ := newTestSession(t, sched)
		require.NoError(t, session.ClickSquare(e2))

		// When: the human clicks the white queen
		err := session.ClickSquare(chess.Square{Row: 7, Col: 3})

		// Then: the move fails, selection is cleared and the player is told
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Equal(t, []string{"error: Invalid move!"}, listener.Messages())

		state := listener.lastChess()
		assert.Nil(t, state.Selected)
		assert.Equal(t, chess.White, state.Turn)
		assert.Zero(t, sched.Pending())
	})

	t.Run("Empty square with nothing selected is ignored", func(t *testing.T) {
		// Given: a fresh match
		sched := scheduler.NewManual()
		session, listener, _ := newTestSession(t, sched)

		// When: the human clicks an empty square
		err := session.ClickSquare(chess.Square{Row: 4, Col: 4})

		// Then: nothing happens
		require.NoError(t, err)
		assert.Empty(t, listener.chessStates)
		assert.Empty(t, listener.Messages())
	})
}

func TestSession_ResetChess(t *testing.T) {
	// Given: the opponent is thinking after e4
	sched := scheduler.NewManual()
	session, listener, _ := newTestSession(t, sched)
	require.NoError(t, session.ClickSquare(chess.Square{Row: 6, Col: 4}))
	require.NoError(t, session.ClickSquare(chess.Square{Row: 4, Col: 4}))

	// When: the match is reset
	session.ResetChess()

	// Then: the task is cancelled and the position is the starting one
	assert.Zero(t, sched.Pending())

	state := listener.lastChess()
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR", state.FEN)
	assert.Equal(t, chess.White, state.Turn)
	assert.Equal(t, chess.StatusPlaying, state.Status)
	assert.Equal(t, "10:00", state.Clock.White)
	assert.Equal(t, 600, state.Clock.BlackSeconds)
}

func TestSession_Snapshots(t *testing.T) {
	// Given: a fresh session
	session, _, _ := newTestSession(t, scheduler.NewManual())

	// When: both snapshots are taken
	ttt := session.TicTacToe()
	match := session.Chess()

	// Then: the players panel names both sides
	require.Len(t, ttt.Players, 2)
	assert.Equal(t, Seat{Name: "Jane Doe", Initials: "JD", Side: "X", You: true, ToMove: true}, ttt.Players[0])
	assert.Equal(t, Seat{Name: "Alex Johnson", Initials: "AJ", Side: "O"}, ttt.Players[1])

	require.Len(t, match.Players, 2)
	assert.Equal(t, string(chess.White), match.Players[0].Side)
	assert.True(t, match.Players[0].ToMove)
	assert.Equal(t, "Jane Doe's Turn", match.Headline)
	assert.Equal(t, "10:00", match.Clock.Black)
}

func TestSession_ChessOpponentStall(t *testing.T) {
	// Given: black has no pieces left when its turn comes
	sched := scheduler.NewManual()
	session, listener, _ := newTestSession(t, sched)
	require.NoError(t, session.ClickSquare(chess.Square{Row: 6, Col: 4}))
	require.NoError(t, session.ClickSquare(chess.Square{Row: 4, Col: 4}))
	for row := 0; row < 2; row++ {
		for col := 0; col < chess.Size; col++ {
			session.chess.Board[row][col] = chess.Piece{}
		}
	}

	// When: the opponent task fires
	require.Equal(t, 1, sched.RunPending())

	// Then: the player is warned and the turn stays with black
	assert.Equal(t, []string{"warning: " + msgOpponentStuck}, listener.Messages())

	state := listener.lastChess()
	assert.Equal(t, chess.Black, state.Turn)
	assert.False(t, state.OpponentThinking)
}

func TestSession_Attach(t *testing.T) {
	t.Run("New listener receives both boards", func(t *testing.T) {
		// Given: a session with a move on the tic-tac-toe board
		sched := scheduler.NewManual()
		session, _, _ := newTestSession(t, sched)
		require.NoError(t, session.ClickCell(4))

		// When: a new listener is attached
		next := &recordingListener{}
		session.Attach(next)

		// Then: it gets the current state of both games at once
		require.Len(t, next.ticTacToeStates, 1)
		require.Len(t, next.chessStates, 1)
		assert.Equal(t, tictactoe.PlayerX, next.lastTicTacToe().Board[4])
		assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR", next.lastChess().FEN)
	})

	t.Run("Previous listener is detached and hears nothing more", func(t *testing.T) {
		// Given: a session with an attached listener
		sched := scheduler.NewManual()
		session, first, _ := newTestSession(t, sched)
		next := &recordingListener{}

		// When: another listener takes over and the human plays
		session.Attach(next)
		require.NoError(t, session.ClickCell(0))

		// Then: only the new listener sees the move
		assert.Equal(t, 1, first.detached)
		assert.Empty(t, first.ticTacToeStates)
		assert.Len(t, next.ticTacToeStates, 2)

		// And: releasing the old listener does not detach the new one
		assert.False(t, session.ReleaseListener(first))
		assert.Zero(t, next.detached)
		assert.True(t, session.ReleaseListener(next))
	})

	t.Run("Attaching the same listener twice keeps it attached", func(t *testing.T) {
		session, listener, _ := newTestSession(t, scheduler.NewManual())

		session.Attach(listener)

		assert.Zero(t, listener.detached)
		assert.Len(t, listener.chessStates, 1)
	})
}

func TestSession_Close(t *testing.T) {
	// Given: both opponents are thinking
	sched := scheduler.NewManual()
	session, listener, _ := newTestSession(t, sched)
	require.NoError(t, session.ClickCell(0))
	require.NoError(t, session.ClickSquare(chess.Square{Row: 6, Col: 4}))
	require.NoError(t, session.ClickSquare(chess.Square{Row: 4, Col: 4}))
	updates := len(listener.ticTacToeStates) + len(listener.chessStates)

	// When: the session is closed
	session.Close()

	// Then: no task is left and the listener is detached and hears nothing more
	assert.Zero(t, sched.Pending())
	assert.Equal(t, 1, listener.detached)
	session.ResetTicTacToe()
	assert.Equal(t, updates, len(listener.ticTacToeStates)+len(listener.chessStates))
}
