package chess

import "fmt"

const Size = 8

// Square addresses the board by row and column. Row 0 is rank 8, column 0 is file a.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

// String renders the square in algebraic notation, e.g. {6,4} -> "e2".
func (s Square) String() string {
	return fmt.Sprintf("%c%d", 'a'+s.Col, Size-s.Row)
}

// Board holds at most one piece per square.
type Board [Size][Size]Piece

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting layout with black on rows 0-1 and white on rows 6-7.
func NewBoard() Board {
	var board Board
	for col := 0; col < Size; col++ {
		board[0][col] = Piece{Kind: backRank[col], Color: Black}
		board[1][col] = Piece{Kind: Pawn, Color: Black}
		board[6][col] = Piece{Kind: Pawn, Color: White}
		board[7][col] = Piece{Kind: backRank[col], Color: White}
	}
	return board
}

func (b *Board) At(sq Square) Piece {
	return b[sq.Row][sq.Col]
}

func (b *Board) set(sq Square, piece Piece) {
	b[sq.Row][sq.Col] = piece
}

// Squares lists the squares holding pieces of color, scanning row by row.
func (b *Board) Squares(color Color) []Square {
	squares := make([]Square, 0, 2*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if piece := b[row][col]; !piece.IsZero() && piece.Color == color {
				squares = append(squares, Square{Row: row, Col: col})
			}
		}
	}
	return squares
}

// Count returns how many pieces of color and kind are on the board.
func (b *Board) Count(color Color, kind Kind) int {
	n := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if piece := b[row][col]; piece.Color == color && piece.Kind == kind {
				n++
			}
		}
	}
	return n
}
