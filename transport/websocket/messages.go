package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gamespace-core/internal/chess"
	"github.com/rocketscienceinc/gamespace-core/internal/entity"
)

const (
	actionConnect        = "connect"
	actionTicTacToeClick = "tictactoe:click"
	actionTicTacToeReset = "tictactoe:reset"
	actionChessClick     = "chess:click"
	actionChessReset     = "chess:reset"

	actionTicTacToeState = "tictactoe:state"
	actionChessState     = "chess:state"
	actionNotification   = "notification"
	actionError          = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ConnectPayload struct {
	Player *struct {
		ID string `json:"id"`
	} `json:"player"`
}

type ConnectResponse struct {
	Player *entity.Player `json:"player"`
}

type CellPayload struct {
	Cell *int `json:"cell"`
}

type SquarePayload struct {
	Square *chess.Square `json:"square"`
}

type ErrorPayload struct {
	Action string `json:"action"`
	Error  string `json:"error"`
}
