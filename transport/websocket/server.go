package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gamespace-core/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type gameSpace interface {
	Session(ctx context.Context, playerID string) (*usecase.Session, error)
	EndSession(playerID string)
}

type Server struct {
	logger    *slog.Logger
	gameSpace gameSpace
	upgrader  websocket.Upgrader

	handlers map[string]func(ctx context.Context, client *client, message *Message) error
}

func New(logger *slog.Logger, gameSpace gameSpace) *Server {
	server := &Server{
		logger:    logger.With("component", "websocket"),
		gameSpace: gameSpace,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionTicTacToeClick] = server.handleTicTacToeClick
	server.handlers[actionTicTacToeReset] = server.handleTicTacToeReset
	server.handlers[actionChessClick] = server.handleChessClick
	server.handlers[actionChessReset] = server.handleChessReset

	return server
}

func (that *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/ws", that.HandleWS)

	return router
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Router(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// HandleWS upgrades the request and serves the connection until the client goes away.
func (that *Server) HandleWS(c *gin.Context) {
	log := that.logger.With("method", "HandleWS")

	conn, err := that.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(that.logger, conn)
	go client.writePump()

	log.Info("WebSocket connection established")

	defer func() {
		that.detach(client)
		client.close()
		log.Info("WebSocket connection closed")
	}()

	that.handleMessages(c.Request.Context(), client)
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, client *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("error reading message", "error", err)
			}
			return
		}

		// a frame that does not decode is answered, not fatal
		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			client.sendError("", "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			client.sendError(message.Action, "unknown action")
			continue
		}

		if err := handler(ctx, client, &message); err != nil {
			log.Debug("error processing message", "action", message.Action, "error", err)
		}
	}
}

// detach ends the session unless a newer connection has taken it over.
func (that *Server) detach(client *client) {
	if client.session == nil {
		return
	}

	if client.session.ReleaseListener(client) {
		that.gameSpace.EndSession(client.session.Player().ID)
	}
}
