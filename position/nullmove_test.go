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

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/corvidchess/engine/types"
)

func TestMakeNullFlipsSideAndClearsEpSquare(t *testing.T) {
	b, err := NewFromFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	assert.NoError(t, err)
	assert.Equal(t, SqD6, b.EpSquare())

	u := b.MakeNull()
	assert.Equal(t, Black, b.Side())
	assert.Equal(t, SqNone, b.EpSquare())

	b.UnmakeNull(u)
	assert.Equal(t, White, b.Side())
	assert.Equal(t, SqD6, b.EpSquare())
}

func TestMakeUnmakeNullRestoresHashAndLockExactly(t *testing.T) {
	b, err := NewFromFEN(StartFen)
	assert.NoError(t, err)
	hash, lock := b.Hash(), b.Lock()

	u := b.MakeNull()
	assert.NotEqual(t, hash, b.Hash())
	b.UnmakeNull(u)

	assert.Equal(t, hash, b.Hash())
	assert.Equal(t, lock, b.Lock())
}

func TestMakeNullAdvancesHalfmoveClock(t *testing.T) {
	b, err := NewFromFEN(StartFen)
	assert.NoError(t, err)
	before := b.HalfmoveClock()

	u := b.MakeNull()
	assert.Equal(t, before+1, b.HalfmoveClock())

	b.UnmakeNull(u)
	assert.Equal(t, before, b.HalfmoveClock())
}

func TestNonPawnMaterialCountExcludesPawnsAndKing(t *testing.T) {
	b, err := NewFromFEN(StartFen)
	assert.NoError(t, err)
	// 2 knights, 2 bishops, 2 rooks, 1 queen = 7 per side.
	assert.Equal(t, 7, b.NonPawnMaterialCount(White))
	assert.Equal(t, 7, b.NonPawnMaterialCount(Black))

	kp, err := NewFromFEN("4k3/4p3/8/8/8/8/4P3/4K3 w - - 0 1")
	assert.NoError(t, err)
	assert.Equal(t, 0, kp.NonPawnMaterialCount(White))
	assert.Equal(t, 0, kp.NonPawnMaterialCount(Black))
}
