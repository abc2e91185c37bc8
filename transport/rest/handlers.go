package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/gamespace-core/internal/apperror"
	"github.com/rocketscienceinc/gamespace-core/internal/entity"
	"github.com/rocketscienceinc/gamespace-core/internal/usecase"
)

type gameSpace interface {
	Login(ctx context.Context, name, email string) (*entity.Player, error)
	GetPlayer(ctx context.Context, id string) (*entity.Player, error)
	Logout(ctx context.Context, id string) error
	Preview(ctx context.Context, playerID string) (*usecase.Session, error)
}

type Handlers struct {
	logger    *slog.Logger
	gameSpace gameSpace
}

func NewHandlers(logger *slog.Logger, gameSpace gameSpace) *Handlers {
	return &Handlers{
		logger:    logger.With("component", "rest"),
		gameSpace: gameSpace,
	}
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login is the mocked sign-in: any name and email pair is accepted and gets a fresh player id.
func (that *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	player, err := that.gameSpace.Login(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		that.fail(c, "Login", err)
		return
	}

	c.JSON(http.StatusCreated, player)
}

func (that *Handlers) GetPlayer(c *gin.Context) {
	player, err := that.gameSpace.GetPlayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.fail(c, "GetPlayer", err)
		return
	}

	c.JSON(http.StatusOK, player)
}

// Logout forgets the player and drops any games in progress.
func (that *Handlers) Logout(c *gin.Context) {
	if err := that.gameSpace.Logout(c.Request.Context(), c.Param("id")); err != nil {
		that.fail(c, "Logout", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// TicTacToe returns the live board, or a fresh one when the player is not connected.
func (that *Handlers) TicTacToe(c *gin.Context) {
	session, err := that.gameSpace.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.fail(c, "TicTacToe", err)
		return
	}

	c.JSON(http.StatusOK, session.TicTacToe())
}

func (that *Handlers) Chess(c *gin.Context) {
	session, err := that.gameSpace.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.fail(c, "Chess", err)
		return
	}

	c.JSON(http.StatusOK, session.Chess())
}

func (that *Handlers) fail(c *gin.Context, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
