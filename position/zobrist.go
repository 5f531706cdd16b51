/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
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

import (
	. "github.com/corvidchess/engine/types"
)

// Key is a Zobrist hash key. The primary key only needs to be wide enough
// to index the transposition table; a narrower type is intentional here
// since the independent 16-bit lock is what actually bounds the collision
// probability, not the width of Key.
type Key uint32

// Lock is the independent 16-bit verification key XORed over the same
// events as Key but drawn from an unrelated random table. It is what lets
// the primary key stay narrow without raising collisions: using the high
// bits of a single wide hash as a "lock" would not be independent of the
// low bits used to index the table.
type Lock uint16

// zobristTables holds one full shape of keys: 12 pieces x 64 squares,
// 16 castling-rights combinations, 8 en-passant files, and one side key.
type zobristTables struct {
	pieces   [PieceLength][SqLength]Key
	castling [CastlingLength]Key
	epFile   [FileLength]Key
	side     Key
}

type lockTables struct {
	pieces   [PieceLength][SqLength]Lock
	castling [CastlingLength]Lock
	epFile   [FileLength]Lock
	side     Lock
}

var zobristBase zobristTables
var lockBase lockTables
var zobristInitialized = false

// xorshift32 is a small, fast PRNG used to seed the Zobrist/lock tables.
// Public-domain algorithm (George Marsaglia, 2003).
type xorshift32 struct {
	state uint32
}

func newXorshift32(seed uint32) *xorshift32 {
	if seed == 0 {
		seed = 1
	}
	return &xorshift32{state: seed}
}

func (x *xorshift32) next() uint32 {
	x.state ^= x.state << 13
	x.state ^= x.state >> 17
	x.state ^= x.state << 5
	return x.state
}

// initZobrist (re)initializes the two parallel Zobrist key tables from
// independent seeds. Any Board hash computed before a re-initialization is
// invalid afterwards.
func initZobrist() {
	keyGen := newXorshift32(1070372)
	lockGen := newXorshift32(104729)

	for pc := Piece(0); int(pc) < PieceLength; pc++ {
		for sq := 0; sq < SqLength; sq++ {
			zobristBase.pieces[pc][sq] = Key(keyGen.next())
			lockBase.pieces[pc][sq] = Lock(lockGen.next())
		}
	}
	for cr := CastlingRights(0); cr <= CastlingAny; cr++ {
		zobristBase.castling[cr] = Key(keyGen.next())
		lockBase.castling[cr] = Lock(lockGen.next())
	}
	for f := FileA; f <= FileH; f++ {
		zobristBase.epFile[f] = Key(keyGen.next())
		lockBase.epFile[f] = Lock(lockGen.next())
	}
	zobristBase.side = Key(keyGen.next())
	lockBase.side = Lock(lockGen.next())

	zobristInitialized = true
}
