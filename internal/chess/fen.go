package chess

import (
	chesslib "github.com/corentings/chess/v2"
)

var libPieces = map[Color]map[Kind]chesslib.Piece{
	White: {
		King:   chesslib.WhiteKing,
		Queen:  chesslib.WhiteQueen,
		Rook:   chesslib.WhiteRook,
		Bishop: chesslib.WhiteBishop,
		Knight: chesslib.WhiteKnight,
		Pawn:   chesslib.WhitePawn,
	},
	Black: {
		King:   chesslib.BlackKing,
		Queen:  chesslib.BlackQueen,
		Rook:   chesslib.BlackRook,
		Bishop: chesslib.BlackBishop,
		Knight: chesslib.BlackKnight,
		Pawn:   chesslib.BlackPawn,
	},
}

// FEN renders the piece-placement field of a FEN record for the board.
// The board is not required to be a legal chess position.
func (b *Board) FEN() string {
	placement := make(map[chesslib.Square]chesslib.Piece, 4*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			piece := b[row][col]
			if piece.IsZero() {
				continue
			}
			rank := Size - 1 - row
			placement[chesslib.Square(rank*Size+col)] = libPieces[piece.Color][piece.Kind]
		}
	}

	return chesslib.NewBoard(placement).String()
}
