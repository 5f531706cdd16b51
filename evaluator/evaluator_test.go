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

package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidchess/engine/config"
	"github.com/corvidchess/engine/position"
	. "github.com/corvidchess/engine/types"
)

func TestStartposIsZeroNetOfTempo(t *testing.T) {
	b := position.New()
	e := NewEvaluator()
	assert.EqualValues(t, config.Settings.Eval.Tempo, e.Evaluate(b))
}

func TestMirroredPositionIsZeroNetOfTempo(t *testing.T) {
	fen := "r1bq1rk1/pppp1pp1/2n2n1p/1B2p3/1b2P3/2N2N1P/PPPP1PP1/R1BQ1RK1 w - - 0 1"
	b, err := position.NewFromFEN(fen)
	assert.NoError(t, err)
	e := NewEvaluator()
	assert.EqualValues(t, config.Settings.Eval.Tempo, e.Evaluate(b))
}

func TestEvaluationIsSideRelative(t *testing.T) {
	// An extra white queen should score positively for White to move and,
	// in the same position loaded from a FEN with Black to move,
	// negatively for Black to move.
	b, err := position.NewFromFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	assert.NoError(t, err)
	e := NewEvaluator()
	whiteToMove := e.Evaluate(b)
	assert.True(t, whiteToMove > 0)

	b2, err := position.NewFromFEN("4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	assert.NoError(t, err)
	blackToMove := e.Evaluate(b2)
	assert.True(t, blackToMove < 0)
}

func TestBishopPairBonus(t *testing.T) {
	withPair, err := position.NewFromFEN("4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	assert.NoError(t, err)
	withoutPair, err := position.NewFromFEN("4k3/8/8/8/8/8/8/4KB2 w - - 0 1")
	assert.NoError(t, err)

	e := NewEvaluator()
	assert.True(t, e.Evaluate(withPair) > e.Evaluate(withoutPair))
}

func TestDoubledPawnsArePenalized(t *testing.T) {
	doubled, err := position.NewFromFEN("4k3/8/8/8/8/4P3/4P3/4K3 w - - 0 1")
	assert.NoError(t, err)
	spread, err := position.NewFromFEN("4k3/8/8/8/8/3P4/4P3/4K3 w - - 0 1")
	assert.NoError(t, err)

	e := NewEvaluator()
	assert.True(t, e.Evaluate(doubled) < e.Evaluate(spread))
}

func TestIsolatedPawnIsPenalized(t *testing.T) {
	isolated, err := position.NewFromFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	assert.NoError(t, err)
	supported, err := position.NewFromFEN("4k3/8/8/8/8/3P4/4P3/4K3 w - - 0 1")
	assert.NoError(t, err)

	e := NewEvaluator()
	assert.True(t, e.Evaluate(isolated) < e.Evaluate(supported))
}

func TestPassedPawnOutscoresBlockedPawn(t *testing.T) {
	passed, err := position.NewFromFEN("4k3/8/8/4P3/8/8/8/4K3 w - - 0 1")
	assert.NoError(t, err)
	blocked, err := position.NewFromFEN("4k3/4p3/8/4P3/8/8/8/4K3 w - - 0 1")
	assert.NoError(t, err)

	e := NewEvaluator()
	assert.True(t, e.Evaluate(passed) > e.Evaluate(blocked))
}

func TestRookOnOpenFileOutscoresRookOnClosedFile(t *testing.T) {
	open, err := position.NewFromFEN("4k3/8/8/8/8/8/8/3RK3 w - - 0 1")
	assert.NoError(t, err)
	closed, err := position.NewFromFEN("4k3/3p4/8/8/8/8/3P4/3RK3 w - - 0 1")
	assert.NoError(t, err)

	e := NewEvaluator()
	assert.True(t, e.Evaluate(open) > e.Evaluate(closed))
}

func TestKingShieldRewardsPawnsInFront(t *testing.T) {
	shielded, err := position.NewFromFEN("q3k3/8/8/8/8/7Q/1PPP4/2K5 w - - 0 1")
	assert.NoError(t, err)
	exposed, err := position.NewFromFEN("q3k3/8/8/8/8/7Q/1PPP4/5K2 w - - 0 1")
	assert.NoError(t, err)

	e := NewEvaluator()
	assert.True(t, e.Evaluate(shielded) > e.Evaluate(exposed))
}
