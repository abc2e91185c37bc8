package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gamespace-core/internal/notify"
	"github.com/rocketscienceinc/gamespace-core/internal/usecase"
)

const (
	sendBufferSize = 32
	writeWait      = 10 * time.Second
)

// client is one browser connection. All writes go through send so that gorilla's single-writer rule holds.
type client struct {
	logger *slog.Logger
	conn   *websocket.Conn

	send      chan Message
	done      chan struct{}
	closeOnce sync.Once

	session  *usecase.Session
	detached atomic.Bool
}

func newClient(logger *slog.Logger, conn *websocket.Conn) *client {
	return &client{
		logger: logger,
		conn:   conn,
		send:   make(chan Message, sendBufferSize),
		done:   make(chan struct{}),
	}
}

func (that *client) Notify(n notify.Notification) {
	that.enqueue(actionNotification, n)
}

func (that *client) TicTacToeChanged(state usecase.TicTacToeState) {
	that.enqueue(actionTicTacToeState, state)
}

func (that *client) ChessChanged(state usecase.ChessState) {
	that.enqueue(actionChessState, state)
}

// Detached marks the client as no longer driving its session: another connection took it over or it ended.
func (that *client) Detached() {
	that.detached.Store(true)
}

func (that *client) sendError(action, message string) {
	that.enqueue(actionError, ErrorPayload{Action: action, Error: message})
}

// enqueue never blocks: it runs under the session lock.
func (that *client) enqueue(action string, payload any) {
	log := that.logger.With("method", "enqueue", "action", action)

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to marshal payload", "error", err)
		return
	}

	select {
	case <-that.done:
		return
	default:
	}

	select {
	case that.send <- Message{Action: action, Payload: data}:
	default:
		log.Warn("send buffer full, message dropped")
	}
}

func (that *client) writePump() {
	log := that.logger.With("method", "writePump")

	for {
		select {
		case <-that.done:
			return
		case msg := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteJSON(msg); err != nil {
				log.Error("failed to write message", "error", err)
				that.close()
				return
			}
		}
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.done)
		_ = that.conn.Close()
	})
}
