package usecase

import (
	"github.com/rocketscienceinc/gamespace-core/internal/chess"
	"github.com/rocketscienceinc/gamespace-core/internal/entity"
	"github.com/rocketscienceinc/gamespace-core/internal/tictactoe"
)

// Seat describes one side of a game for the players panel.
type Seat struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Side     string `json:"side"`
	You      bool   `json:"you"`
	ToMove   bool   `json:"toMove"`
}

type TicTacToeState struct {
	Board            tictactoe.Board      `json:"board"`
	Turn             tictactoe.Mark       `json:"turn"`
	Winner           tictactoe.Mark       `json:"winner"`
	Status           tictactoe.Status     `json:"status"`
	Scores           tictactoe.Scoreboard `json:"scores"`
	GameOver         bool                 `json:"gameOver"`
	OpponentThinking bool                 `json:"opponentThinking"`
	Headline         string               `json:"headline"`
	Players          []Seat               `json:"players"`
}

type PieceView struct {
	Kind   chess.Kind  `json:"kind"`
	Color  chess.Color `json:"color"`
	Symbol string      `json:"symbol"`
}

type ClockView struct {
	White        string `json:"white"`
	Black        string `json:"black"`
	WhiteSeconds int    `json:"whiteSeconds"`
	BlackSeconds int    `json:"blackSeconds"`
}

type ChessState struct {
	Board            [chess.Size][chess.Size]*PieceView `json:"board"`
	FEN              string                             `json:"fen"`
	Turn             chess.Color                        `json:"turn"`
	Selected         *chess.Square                      `json:"selected"`
	Status           chess.Status                       `json:"status"`
	Clock            ClockView                          `json:"clock"`
	OpponentThinking bool                               `json:"opponentThinking"`
	Headline         string                             `json:"headline"`
	Players          []Seat                             `json:"players"`
}

func (that *Session) displayName(human bool) string {
	if human {
		return that.player.Name
	}
	return that.opts.OpponentName
}

func (that *Session) ticTacToeStateLocked() TicTacToeState {
	game := that.ticTacToe

	var headline string
	switch game.Status {
	case tictactoe.StatusWon:
		headline = that.displayName(game.Winner == tictactoe.Human) + " Wins!"
	case tictactoe.StatusDrawn:
		headline = "It's a Draw!"
	default:
		headline = that.displayName(game.Turn == tictactoe.Human) + "'s Turn"
	}

	return TicTacToeState{
		Board:            game.Board,
		Turn:             game.Turn,
		Winner:           game.Winner,
		Status:           game.Status,
		Scores:           game.Scores,
		GameOver:         game.IsFinished(),
		OpponentThinking: that.ticTacToeTask != "",
		Headline:         headline,
		Players: []Seat{
			that.seat(true, string(tictactoe.Human), game.Turn == tictactoe.Human),
			that.seat(false, string(tictactoe.Opponent), game.Turn == tictactoe.Opponent),
		},
	}
}

func (that *Session) chessStateLocked() ChessState {
	match := that.chess

	white, black := match.Clock.Left(chess.White), match.Clock.Left(chess.Black)

	state := ChessState{
		FEN:              match.Board.FEN(),
		Turn:             match.Turn,
		Status:           match.Status,
		OpponentThinking: that.chessTask != "",
		Clock: ClockView{
			White:        chess.FormatClock(white),
			Black:        chess.FormatClock(black),
			WhiteSeconds: int(white.Seconds()),
			BlackSeconds: int(black.Seconds()),
		},
		Headline: that.displayName(match.Turn == humanColor) + "'s Turn",
		Players: []Seat{
			that.seat(true, string(humanColor), match.Turn == humanColor),
			that.seat(false, string(opponentColor), match.Turn == opponentColor),
		},
	}

	if match.Selected != nil {
		selected := *match.Selected
		state.Selected = &selected
	}

	for row := 0; row < chess.Size; row++ {
		for col := 0; col < chess.Size; col++ {
			piece := match.Board[row][col]
			if piece.IsZero() {
				continue
			}
			state.Board[row][col] = &PieceView{Kind: piece.Kind, Color: piece.Color, Symbol: piece.Symbol()}
		}
	}

	return state
}

func (that *Session) seat(human bool, side string, toMove bool) Seat {
	name := that.displayName(human)
	return Seat{
		Name:     name,
		Initials: entity.Initials(name),
		Side:     side,
		You:      human,
		ToMove:   toMove,
	}
}
