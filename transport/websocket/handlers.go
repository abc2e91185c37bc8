package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gamespace-core/internal/apperror"
)

var (
	errNotConnected = errors.New("not connected")
	errDetached     = errors.New("session detached")
	errBadPayload   = errors.New("bad payload")
)

func (that *Server) handleConnect(ctx context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	var payload ConnectPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Player == nil || payload.Player.ID == "" {
		client.sendError(msg.Action, "player is required")
		return errBadPayload
	}

	if client.session != nil && !client.detached.Load() {
		client.sendError(msg.Action, "already connected")
		return fmt.Errorf("player %s already connected", client.session.Player().ID)
	}

	session, err := that.gameSpace.Session(ctx, payload.Player.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			client.sendError(msg.Action, "player not found")
		} else {
			client.sendError(msg.Action, "failed to start session")
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	client.session = session
	client.detached.Store(false)

	// the reply goes first, Attach then pushes both boards and every later change
	client.enqueue(msg.Action, ConnectResponse{Player: session.Player()})
	session.Attach(client)

	log.Info("player connected", "playerID", payload.Player.ID)

	return nil
}

// Rejected clicks get no error message: the board simply does not change.
func (that *Server) handleTicTacToeClick(_ context.Context, client *client, msg *Message) error {
	if err := that.requireSession(client, msg); err != nil {
		return err
	}

	var payload CellPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Cell == nil {
		client.sendError(msg.Action, "cell is required")
		return errBadPayload
	}

	return client.session.ClickCell(*payload.Cell)
}

func (that *Server) handleTicTacToeReset(_ context.Context, client *client, msg *Message) error {
	if err := that.requireSession(client, msg); err != nil {
		return err
	}

	client.session.ResetTicTacToe()

	return nil
}

func (that *Server) handleChessClick(_ context.Context, client *client, msg *Message) error {
	if err := that.requireSession(client, msg); err != nil {
		return err
	}

	var payload SquarePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Square == nil {
		client.sendError(msg.Action, "square is required")
		return errBadPayload
	}

	return client.session.ClickSquare(*payload.Square)
}

func (that *Server) handleChessReset(_ context.Context, client *client, msg *Message) error {
	if err := that.requireSession(client, msg); err != nil {
		return err
	}

	client.session.ResetChess()

	return nil
}

func (that *Server) requireSession(client *client, msg *Message) error {
	if client.session == nil {
		client.sendError(msg.Action, "connect first")
		return errNotConnected
	}

	if client.detached.Load() {
		client.sendError(msg.Action, "session ended")
		return errDetached
	}

	return nil
}
