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

package movegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidchess/engine/movearray"
	"github.com/corvidchess/engine/position"
	. "github.com/corvidchess/engine/types"
)

func TestGenerateStartposMoveCount(t *testing.T) {
	b, err := position.NewFromFEN(position.StartFen)
	assert.NoError(t, err)

	g := New()
	moves := g.GenerateLegal(b, GenAll)
	assert.Equal(t, 20, moves.Len())

	captures := g.GenerateLegal(b, GenCap)
	assert.Equal(t, 0, captures.Len())
}

func TestGenerateCapturesFirst(t *testing.T) {
	b, err := position.NewFromFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2")
	assert.NoError(t, err)

	g := New()
	moves := g.GenerateLegal(b, GenAll)
	assert.True(t, moves.Len() > 0)

	seenQuiet := false
	for i := 0; i < moves.Len(); i++ {
		m := moves.At(i)
		if !m.IsCapture() {
			seenQuiet = true
			continue
		}
		assert.False(t, seenQuiet, "a capture appeared after a quiet move at index %d", i)
	}
}

func TestGenerateEnPassantCapture(t *testing.T) {
	b, err := position.NewFromFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	assert.NoError(t, err)

	g := New()
	moves := g.GenerateLegal(b, GenCap)
	found := false
	for i := 0; i < moves.Len(); i++ {
		m := moves.At(i)
		if m.IsEnPassant() && m.From() == SqE5 && m.To() == SqD6 {
			found = true
		}
	}
	assert.True(t, found, "expected an en passant capture e5xd6 in the capture list")
}

func TestGeneratePromotionsEmitAllFourPieces(t *testing.T) {
	b, err := position.NewFromFEN("8/4P1k1/8/8/8/8/8/4K3 w - - 0 1")
	assert.NoError(t, err)

	g := New()
	moves := g.GenerateLegal(b, GenAll)
	promoTypes := map[PieceType]bool{}
	for i := 0; i < moves.Len(); i++ {
		m := moves.At(i)
		if m.IsPromotion() && m.From() == SqE7 && m.To() == SqE8 {
			promoTypes[m.PromotionType()] = true
		}
	}
	assert.True(t, promoTypes[Queen])
	assert.True(t, promoTypes[Rook])
	assert.True(t, promoTypes[Bishop])
	assert.True(t, promoTypes[Knight])
}

func TestGenerateCastlingRequiresEmptyAndSafeSquares(t *testing.T) {
	// Kingside path is empty and safe: castling is offered.
	b, err := position.NewFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	assert.NoError(t, err)
	g := New()
	moves := g.GenerateLegal(b, GenAll)
	assert.True(t, hasCastleTo(moves, SqG1))
	assert.True(t, hasCastleTo(moves, SqC1))

	// A black rook on f2 attacks the kingside transit square: no kingside
	// castle should be offered, but queenside remains legal.
	b2, err := position.NewFromFEN("4k3/8/8/8/8/8/5r2/R3K2R w KQ - 0 1")
	assert.NoError(t, err)
	moves2 := g.GenerateLegal(b2, GenAll)
	assert.False(t, hasCastleTo(moves2, SqG1))
	assert.True(t, hasCastleTo(moves2, SqC1))
}

func hasCastleTo(moves *movearray.MoveArray, to Square) bool {
	for i := 0; i < moves.Len(); i++ {
		m := moves.At(i)
		if m.IsCastle() && m.To() == to {
			return true
		}
	}
	return false
}

func TestGenerateNoCastleWhileInCheck(t *testing.T) {
	b, err := position.NewFromFEN("4k3/8/8/8/8/8/4r3/R3K2R w KQ - 0 1")
	assert.NoError(t, err)
	g := New()
	moves := g.GenerateLegal(b, GenAll)
	for i := 0; i < moves.Len(); i++ {
		assert.False(t, moves.At(i).IsCastle(), "no castle may be generated while the king is in check")
	}
}

func TestIsSquareAttackedBySlidingPiece(t *testing.T) {
	b, err := position.NewFromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	assert.NoError(t, err)
	assert.True(t, IsSquareAttacked(b, SqA8, White))
	assert.False(t, IsSquareAttacked(b, SqB8, White))
}

func TestIsSquareAttackedByPawn(t *testing.T) {
	b, err := position.NewFromFEN("4k3/8/8/3p4/8/8/8/4K3 b - - 0 1")
	assert.NoError(t, err)
	assert.True(t, IsSquareAttacked(b, SqC4, Black))
	assert.True(t, IsSquareAttacked(b, SqE4, Black))
	assert.False(t, IsSquareAttacked(b, SqD4, Black))
}

func TestIsLegalFiltersKingMovesStillInCheck(t *testing.T) {
	// White king on e1 stands in check from the black rook on e8: any king
	// move that stays on the e-file is still in check and must not appear
	// among the legal moves.
	b, err := position.NewFromFEN("4r1k1/8/8/8/8/8/8/4K3 w - - 0 1")
	assert.NoError(t, err)
	g := New()
	moves := g.GenerateLegal(b, GenAll)
	for i := 0; i < moves.Len(); i++ {
		m := moves.At(i)
		if m.From() == SqE1 {
			assert.NotEqual(t, SqE2, m.To(), "king may not step onto a square still on the checking rook's file")
		}
	}
}

func TestGenerateLeavesBoardUnchanged(t *testing.T) {
	b, err := position.NewFromFEN(position.StartFen)
	assert.NoError(t, err)
	before := *b

	g := New()
	g.GenerateLegal(b, GenAll)

	assert.Equal(t, before.Fen(), b.Fen())
}
