/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package types

// Piece packs a color bit and a piece type into a single byte: bit 7 is
// the color (0 White, 1 Black), bits 0-2 are the PieceType. PieceNone (0)
// represents an empty square.
type Piece uint8

//noinspection GoVarAndConstTypeMayBeOmitted
const (
	pieceColorShift = 7

	PieceNone   Piece = 0
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)
	BlackPawn   Piece = Piece(Pawn) | 1<<pieceColorShift
	BlackKnight Piece = Piece(Knight) | 1<<pieceColorShift
	BlackBishop Piece = Piece(Bishop) | 1<<pieceColorShift
	BlackRook   Piece = Piece(Rook) | 1<<pieceColorShift
	BlackQueen  Piece = Piece(Queen) | 1<<pieceColorShift
	BlackKing   Piece = Piece(King) | 1<<pieceColorShift

	PieceLength = 1<<pieceColorShift | int(PtLength)
)

var pieceToChar = map[Piece]string{
	PieceNone:   "-",
	WhitePawn:   "P",
	WhiteKnight: "N",
	WhiteBishop: "B",
	WhiteRook:   "R",
	WhiteQueen:  "Q",
	WhiteKing:   "K",
	BlackPawn:   "p",
	BlackKnight: "n",
	BlackBishop: "b",
	BlackRook:   "r",
	BlackQueen:  "q",
	BlackKing:   "k",
}

// String returns a single character representation of the piece, upper
// case for White and lower case for Black, "-" for PieceNone.
func (p Piece) String() string {
	if s, ok := pieceToChar[p]; ok {
		return s
	}
	return "-"
}

// MakePiece creates the piece given by color and piece type.
func MakePiece(c Color, pt PieceType) Piece {
	return Piece(int(c)<<pieceColorShift | int(pt))
}

// ColorOf returns the color of the given piece.
func (p Piece) ColorOf() Color {
	return Color(p >> pieceColorShift)
}

// TypeOf returns the piece type of the given piece.
func (p Piece) TypeOf() PieceType {
	return PieceType(p & 0x7)
}

// ValueOf returns the material value of the given piece.
func (p Piece) ValueOf() int {
	return pieceTypeValue[p.TypeOf()]
}

// IsValid reports whether p is a non-empty piece with a valid type.
func (p Piece) IsValid() bool {
	return p.TypeOf().IsValid()
}
