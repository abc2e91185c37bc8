package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/rocketscienceinc/gamespace-core/internal/entity"
	"github.com/rocketscienceinc/gamespace-core/internal/scheduler"
)

// Rand picks the opponent's moves.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameSpace owns the players' sessions. A session lives from the first connection until EndSession.
type GameSpace struct {
	logger     *slog.Logger
	playerRepo playerRepo
	scheduler  scheduler.Scheduler
	opts       Options

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewGameSpace(logger *slog.Logger, playerRepo playerRepo, sched scheduler.Scheduler, opts Options) *GameSpace {
	return &GameSpace{
		logger:     logger.With("component", "gamespace"),
		playerRepo: playerRepo,
		scheduler:  sched,
		opts:       opts.withDefaults(),
		sessions:   make(map[string]*Session),
	}
}

// Login registers the mocked identity and stores it for later lookups.
func (that *GameSpace) Login(ctx context.Context, name, email string) (*entity.Player, error) {
	log := that.logger.With("method", "Login")

	player, err := entity.NewPlayer(name, email)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to save player: %w", err)
	}

	log.Info("player logged in", "playerID", player.ID)

	return player, nil
}

func (that *GameSpace) GetPlayer(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// Logout ends the player's session and forgets the player.
func (that *GameSpace) Logout(ctx context.Context, id string) error {
	that.EndSession(id)

	if err := that.playerRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	that.logger.Info("player logged out", "playerID", id)

	return nil
}

// Lookup returns the player's live session without starting one.
func (that *GameSpace) Lookup(playerID string) (*Session, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[playerID]
	return session, ok
}

// Preview returns the player's live session, or fresh unregistered games when the player has none.
// Nothing is scheduled on a preview, so it needs no cleanup.
func (that *GameSpace) Preview(ctx context.Context, playerID string) (*Session, error) {
	if session, ok := that.Lookup(playerID); ok {
		return session, nil
	}

	player, err := that.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return NewSession(that.logger, player, that.scheduler, that.opts), nil
}

// Session returns the player's session, starting fresh games when there is none.
func (that *GameSpace) Session(ctx context.Context, playerID string) (*Session, error) {
	that.mu.Lock()
	session, ok := that.sessions[playerID]
	that.mu.Unlock()

	if ok {
		return session, nil
	}

	player, err := that.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	// another connection may have won the race
	if session, ok = that.sessions[playerID]; ok {
		return session, nil
	}

	session = NewSession(that.logger, player, that.scheduler, that.opts)
	that.sessions[playerID] = session

	that.logger.Debug("session started", "playerID", playerID)

	return session, nil
}

// EndSession drops the player's games, like reloading the page.
func (that *GameSpace) EndSession(playerID string) {
	that.mu.Lock()
	session, ok := that.sessions[playerID]
	delete(that.sessions, playerID)
	that.mu.Unlock()

	if !ok {
		return
	}

	session.Close()
	that.logger.Debug("session ended", "playerID", playerID)
}

func (that *GameSpace) Close() {
	that.mu.Lock()
	sessions := that.sessions
	that.sessions = make(map[string]*Session)
	that.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
