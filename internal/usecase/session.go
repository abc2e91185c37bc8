package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/gamespace-core/internal/apperror"
	"github.com/rocketscienceinc/gamespace-core/internal/chess"
	"github.com/rocketscienceinc/gamespace-core/internal/entity"
	"github.com/rocketscienceinc/gamespace-core/internal/notify"
	"github.com/rocketscienceinc/gamespace-core/internal/scheduler"
	"github.com/rocketscienceinc/gamespace-core/internal/tictactoe"
)

const (
	humanColor    = chess.White
	opponentColor = chess.Black

	msgInvalidMove   = "Invalid move!"
	msgDraw          = "It's a draw!"
	msgOpponentStuck = "Opponent has no moves, reset the board to play again"
)

// Listener receives everything the view renders: notifications and fresh state after each change.
// It is called with the session lock held and must not call back into the session.
type Listener interface {
	notify.Notifier
	TicTacToeChanged(state TicTacToeState)
	ChessChanged(state ChessState)
	// Detached is called once another listener takes the session over or the session is closed.
	Detached()
}

type nopListener struct{}

func (nopListener) Notify(notify.Notification) {}

func (nopListener) TicTacToeChanged(TicTacToeState) {}

func (nopListener) ChessChanged(ChessState) {}

func (nopListener) Detached() {}

// Session is one player's game space: a tic-tac-toe game with its scoreboard and a chess match,
// both played against a random opponent. All transitions are serialized by mu.
type Session struct {
	logger    *slog.Logger
	player    *entity.Player
	opts      Options
	scheduler scheduler.Scheduler
	rnd       Rand

	mu       sync.Mutex
	listener Listener

	ticTacToe           *tictactoe.Game
	ticTacToeTask       scheduler.TaskID
	ticTacToeGeneration uint64

	chess           *chess.Match
	chessTask       scheduler.TaskID
	chessGeneration uint64
}

func NewSession(logger *slog.Logger, player *entity.Player, sched scheduler.Scheduler, opts Options) *Session {
	opts = opts.withDefaults()

	return &Session{
		logger:    logger.With("component", "session", "playerID", player.ID),
		player:    player,
		opts:      opts,
		scheduler: sched,
		rnd:       opts.Rand,
		listener:  nopListener{},
		ticTacToe: tictactoe.NewGame(),
		chess:     chess.NewMatch(opts.ChessClock),
	}
}

func (that *Session) Player() *entity.Player {
	return that.player
}

// Attach makes listener the session's view and sends it both current states.
// A previously attached listener is detached.
func (that *Session) Attach(listener Listener) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.setListener(listener)

	listener.TicTacToeChanged(that.ticTacToeStateLocked())
	listener.ChessChanged(that.chessStateLocked())
}

// ReleaseListener detaches listener if it is still the attached one and reports whether it was.
func (that *Session) ReleaseListener(listener Listener) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.listener != listener {
		return false
	}

	that.listener = nopListener{}
	return true
}

func (that *Session) setListener(listener Listener) {
	if that.listener != listener {
		that.listener.Detached()
	}
	that.listener = listener
}

func (that *Session) TicTacToe() TicTacToeState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.ticTacToeStateLocked()
}

func (that *Session) Chess() ChessState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.chessStateLocked()
}

// ClickCell plays the human's mark. Invalid clicks are ignored: the error is returned for the caller's
// logs but nothing is shown to the player.
func (that *Session) ClickCell(cell int) error {
	log := that.logger.With("method", "ClickCell", "cell", cell)

	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.ticTacToe.MakeTurn(tictactoe.Human, cell); err != nil {
		log.Debug("move ignored", "error", err)
		return fmt.Errorf("failed to make turn: %w", err)
	}

	that.afterTicTacToeTurn()

	return nil
}

func (that *Session) ResetTicTacToe() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelTicTacToeTask()
	that.ticTacToeGeneration++
	that.ticTacToe.Reset()

	that.logger.Debug("tic-tac-toe reset", "scores", that.ticTacToe.Scores)
	that.listener.TicTacToeChanged(that.ticTacToeStateLocked())
}

func (that *Session) afterTicTacToeTurn() {
	game := that.ticTacToe

	switch {
	case game.Status == tictactoe.StatusWon:
		that.notify(notify.KindSuccess, that.displayName(game.Winner == tictactoe.Human)+" wins!")
	case game.Status == tictactoe.StatusDrawn:
		that.notify(notify.KindInfo, msgDraw)
	case game.Turn == tictactoe.Opponent:
		generation := that.ticTacToeGeneration
		that.ticTacToeTask = that.scheduler.Schedule(that.opts.OpponentDelay, func() {
			that.ticTacToeOpponentTurn(generation)
		})
	}

	that.listener.TicTacToeChanged(that.ticTacToeStateLocked())
}

func (that *Session) ticTacToeOpponentTurn(generation uint64) {
	log := that.logger.With("method", "ticTacToeOpponentTurn")

	that.mu.Lock()
	defer that.mu.Unlock()

	// a reset happened after this task was scheduled
	if generation != that.ticTacToeGeneration {
		log.Debug("stale opponent turn dropped")
		return
	}
	that.ticTacToeTask = ""

	cell, err := tictactoe.OpponentTurn(that.ticTacToe, that.rnd)
	if err != nil {
		log.Warn("opponent could not move", "error", err)
		that.listener.TicTacToeChanged(that.ticTacToeStateLocked())
		return
	}

	log.Debug("opponent moved", "cell", cell)

	that.afterTicTacToeTurn()
}

func (that *Session) cancelTicTacToeTask() {
	if that.ticTacToeTask == "" {
		return
	}

	that.scheduler.Cancel(that.ticTacToeTask)
	that.ticTacToeTask = ""
}

// ClickSquare forwards a click to the chess match on the human's turn. A failed move attempt clears the
// selection and raises "Invalid move!".
func (that *Session) ClickSquare(sq chess.Square) error {
	log := that.logger.With("method", "ClickSquare", "square", sq.String())

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.chess.Turn != humanColor {
		log.Debug("click ignored, opponent to move")
		return apperror.ErrNotYourTurn
	}

	result, move, err := that.chess.SelectSquare(sq)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidMove) {
			that.notify(notify.KindError, msgInvalidMove)
		}

		log.Debug("click rejected", "error", err)
		that.listener.ChessChanged(that.chessStateLocked())

		return fmt.Errorf("failed to select square: %w", err)
	}

	if result == chess.Moved {
		log.Debug("human moved", "from", move.From.String(), "to", move.To.String())

		generation := that.chessGeneration
		that.chessTask = that.scheduler.Schedule(that.opts.OpponentDelay, func() {
			that.chessOpponentMove(generation)
		})
	}

	if result != chess.Ignored {
		that.listener.ChessChanged(that.chessStateLocked())
	}

	return nil
}

func (that *Session) ResetChess() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelChessTask()
	that.chessGeneration++
	that.chess.Reset()

	that.logger.Debug("chess reset")
	that.listener.ChessChanged(that.chessStateLocked())
}

func (that *Session) chessOpponentMove(generation uint64) {
	log := that.logger.With("method", "chessOpponentMove")

	that.mu.Lock()
	defer that.mu.Unlock()

	if generation != that.chessGeneration {
		log.Debug("stale opponent move dropped")
		return
	}
	that.chessTask = ""

	move, err := chess.OpponentMove(that.chess, opponentColor, that.rnd)
	if err != nil {
		// the opponent keeps the turn, so the match stalls until reset
		log.Warn("opponent could not move", "error", err)
		that.notify(notify.KindWarning, msgOpponentStuck)
	} else {
		log.Debug("opponent moved", "from", move.From.String(), "to", move.To.String())
	}

	that.listener.ChessChanged(that.chessStateLocked())
}

func (that *Session) cancelChessTask() {
	if that.chessTask == "" {
		return
	}

	that.scheduler.Cancel(that.chessTask)
	that.chessTask = ""
}

// Close cancels pending opponent moves and detaches the listener.
func (that *Session) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelTicTacToeTask()
	that.cancelChessTask()
	that.ticTacToeGeneration++
	that.chessGeneration++
	that.setListener(nopListener{})
}

func (that *Session) notify(kind notify.Kind, message string) {
	that.listener.Notify(notify.New(kind, message, that.opts.NotificationTTL))
}

// Options tunes a session. Zero values fall back to defaults.
type Options struct {
	OpponentDelay   time.Duration
	OpponentName    string
	ChessClock      time.Duration
	NotificationTTL time.Duration
	Rand            Rand
}

const defaultOpponentName = "Alex Johnson"

func (that Options) withDefaults() Options {
	if that.OpponentDelay < 0 {
		that.OpponentDelay = 0
	}
	if that.OpponentName == "" {
		that.OpponentName = defaultOpponentName
	}
	if that.ChessClock <= 0 {
		that.ChessClock = chess.DefaultClock
	}
	if that.NotificationTTL <= 0 {
		that.NotificationTTL = notify.DefaultDuration
	}
	if that.Rand == nil {
		that.Rand = globalRand{}
	}
	return that
}
