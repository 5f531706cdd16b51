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

package position

import . "github.com/corvidchess/engine/types"

// NullUndo carries the scalar state a null move overwrites: the en passant
// target and the halfmove clock. The side to move is not stored, since
// UnmakeNull simply flips it back. Material, hashes (other than
// the side/ep-square XORs Make already open-codes) and piece placement
// are untouched by a null move, so there is nothing else to restore.
type NullUndo struct {
	PrevEpSquare Square
	PrevHalfmove int
}

// MakeNull passes the turn without moving a piece: flips the side to
// move, clears any en passant target and advances the halfmove clock,
// exactly the subset of Make's bookkeeping that doesn't depend on a
// piece actually moving. Used by null-move pruning (search must never
// call this while in check).
func (b *Board) MakeNull() NullUndo {
	u := NullUndo{
		PrevEpSquare: b.epSquare,
		PrevHalfmove: b.halfmove,
	}
	b.setEpSquare(SqNone)
	if b.halfmove < 255 {
		b.halfmove++
	}
	b.side = b.side.Flip()
	b.hash ^= Key(zobristBase.side)
	b.lock ^= lockBase.side
	return u
}

// UnmakeNull reverses MakeNull.
func (b *Board) UnmakeNull(u NullUndo) {
	b.side = b.side.Flip()
	b.hash ^= Key(zobristBase.side)
	b.lock ^= lockBase.side
	b.halfmove = u.PrevHalfmove
	b.setEpSquare(u.PrevEpSquare)
}

// NonPawnMaterialCount returns how many non-pawn, non-king pieces color c
// has on the board. Null-move pruning skips itself when this is zero, to
// avoid the zugzwang-prone king-and-pawn endgames where "always better to
// move" breaks down.
func (b *Board) NonPawnMaterialCount(c Color) int {
	count := 0
	for _, sq := range b.PieceList(c) {
		switch b.PieceOn(sq).TypeOf() {
		case Pawn, King:
		default:
			count++
		}
	}
	return count
}
