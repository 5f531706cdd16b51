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

	"github.com/corvidchess/engine/position"
)

// startposNodes holds perft(depth) from the standard starting position,
// depth 0..5.
var startposNodes = [6]uint64{1, 20, 400, 8_902, 197_281, 4_865_609}

func TestPerftStartposExact(t *testing.T) {
	b, err := position.NewFromFEN(position.StartFen)
	assert.NoError(t, err)
	before := *b

	for depth, want := range startposNodes {
		got := Perft(b, depth)
		assert.Equal(t, want, got, "perft(%d) from startpos", depth)
		assert.Equal(t, before.Fen(), b.Fen(), "board must be unchanged after perft(%d)", depth)
	}
}

func TestPerftStartposDepthFiveLong(t *testing.T) {
	if testing.Short() {
		t.Skip("perft(5) from startpos is multi-second; skipped with -short")
	}
	b, err := position.NewFromFEN(position.StartFen)
	assert.NoError(t, err)
	assert.Equal(t, uint64(4_865_609), Perft(b, 5))
}

// kiwipeteFen is the standard "Kiwipete" stress position exercising
// castling, en passant, and promotions together.
const kiwipeteFen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestPerftKiwipete(t *testing.T) {
	b, err := position.NewFromFEN(kiwipeteFen)
	assert.NoError(t, err)

	assert.Equal(t, uint64(48), Perft(b, 1))
	assert.Equal(t, uint64(2_039), Perft(b, 2))
	assert.Equal(t, uint64(97_862), Perft(b, 3))
}

func TestPerftKiwipeteDepthFourLong(t *testing.T) {
	if testing.Short() {
		t.Skip("perft(4) from Kiwipete is multi-second; skipped with -short")
	}
	b, err := position.NewFromFEN(kiwipeteFen)
	assert.NoError(t, err)
	assert.Equal(t, uint64(4_085_603), Perft(b, 4))
}
