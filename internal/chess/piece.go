package chess

type Kind string

const (
	King   Kind = "king"
	Queen  Kind = "queen"
	Rook   Kind = "rook"
	Bishop Kind = "bishop"
	Knight Kind = "knight"
	Pawn   Kind = "pawn"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// Piece is an immutable value. The zero Piece marks an empty square.
type Piece struct {
	Kind  Kind  `json:"kind"`
	Color Color `json:"color"`
}

func (p Piece) IsZero() bool {
	return p.Kind == ""
}

var symbols = map[Color]map[Kind]string{
	White: {King: "♔", Queen: "♕", Rook: "♖", Bishop: "♗", Knight: "♘", Pawn: "♙"},
	Black: {King: "♚", Queen: "♛", Rook: "♜", Bishop: "♝", Knight: "♞", Pawn: "♟"},
}

// Symbol returns the Unicode glyph for the piece, or "" for an empty square.
func (p Piece) Symbol() string {
	if p.IsZero() {
		return ""
	}
	return symbols[p.Color][p.Kind]
}
