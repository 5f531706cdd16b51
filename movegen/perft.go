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
	"github.com/corvidchess/engine/position"
)

// Perft counts the leaf nodes of the legal move tree rooted at b to the
// given depth — the standard move-generator correctness check. The board
// is left unchanged on return (every Make is matched by an Unmake).
func Perft(b *position.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	g := New()
	moves := g.GenerateLegal(b, GenAll)
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	moves.ForEach(func(i int) {
		u := b.Make(moves.At(i))
		nodes += Perft(b, depth-1)
		b.Unmake(u)
	})
	return nodes
}

// PerftDivide returns, for each legal root move, the perft count of the
// subtree beneath it at depth-1 — useful for diffing against a reference
// engine to localize a move-generation bug to a single root move.
func PerftDivide(b *position.Board, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth < 1 {
		return result
	}
	g := New()
	moves := g.GenerateLegal(b, GenAll)
	moves.ForEach(func(i int) {
		m := moves.At(i)
		u := b.Make(m)
		result[m.StringUci()] = Perft(b, depth-1)
		b.Unmake(u)
	})
	return result
}
