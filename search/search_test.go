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

package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/corvidchess/engine/logging"
	"github.com/corvidchess/engine/position"
	. "github.com/corvidchess/engine/types"
)

var logTest = logging.GetTestLog()

func TestSearch_IsReady(t *testing.T) {
	search := NewSearch()
	search.IsReady()
}

func TestSetupTimeControl(t *testing.T) {
	s := NewSearch()

	b := position.New()
	sl := &Limits{
		TimeControl: true,
		WhiteTime:   60 * time.Second,
		BlackTime:   60 * time.Second,
		WhiteInc:    2 * time.Second,
		BlackInc:    2 * time.Second,
		MovesToGo:   20,
	}
	timeLimit := s.setupTimeControl(b, sl)
	assert.EqualValues(t, 4500, timeLimit.Milliseconds())

	b = position.New()
	sl = &Limits{
		TimeControl: true,
		WhiteTime:   60 * time.Second,
		BlackTime:   60 * time.Second,
		WhiteInc:    2 * time.Second,
		BlackInc:    2 * time.Second,
	}
	timeLimit = s.setupTimeControl(b, sl)
	assert.EqualValues(t, 3150, timeLimit.Milliseconds())

	// no non-pawn material left: game phase 0
	b, err := position.NewFromFEN("8/2P1P1P1/3PkP2/8/4K3/8/8/8 w - - 0 1")
	assert.NoError(t, err)
	sl = &Limits{
		TimeControl: true,
		WhiteTime:   60 * time.Second,
		BlackTime:   60 * time.Second,
	}
	timeLimit = s.setupTimeControl(b, sl)
	assert.EqualValues(t, 5400, timeLimit.Milliseconds())
}

func TestStartSearchDepthLimited(t *testing.T) {
	search := NewSearch()
	b := position.New()
	sl := &Limits{Depth: 3}

	search.StartSearch(*b, *sl)
	logTest.Debug("Search started...waiting to finish")
	search.WaitWhileSearching()
	logTest.Debug("Search finished")

	result := search.LastSearchResult()
	assert.NotEqual(t, MoveNone, result.BestMove)
	assert.Equal(t, 3, result.SearchDepth)
}

func TestStopSearch(t *testing.T) {
	search := NewSearch()
	b := position.New()
	sl := &Limits{Infinite: true}

	search.StartSearch(*b, *sl)
	assert.True(t, search.IsSearching())
	time.Sleep(50 * time.Millisecond)
	search.StopSearch()
	assert.False(t, search.IsSearching())

	result := search.LastSearchResult()
	assert.NotEqual(t, MoveNone, result.BestMove)
}

func TestNewGameClearsTranspositionTable(t *testing.T) {
	search := NewSearch()
	b := position.New()
	sl := &Limits{Depth: 4}

	search.StartSearch(*b, *sl)
	search.WaitWhileSearching()
	assert.Greater(t, search.tt.Len(), uint64(0))

	search.NewGame()
	assert.EqualValues(t, 0, search.tt.Len())
}
