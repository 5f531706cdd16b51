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

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitStartingPosition(t *testing.T) {
	e := NewEngine()
	e.Init(Hooks{})

	pos := e.GetPosition()
	assert.EqualValues(t, 1, pos.Turn)
	assert.EqualValues(t, 0, pos.HalfmoveClock)
	assert.EqualValues(t, 1, pos.FullmoveNumber)
	assert.EqualValues(t, NoSquare, pos.EpRow)
	assert.EqualValues(t, NoSquare, pos.EpCol)
	// row 0 is the black back rank
	assert.EqualValues(t, -4, pos.Board[0][0]) // black rook a8
	assert.EqualValues(t, -6, pos.Board[0][4]) // black king e8
	// row 7 is the white back rank
	assert.EqualValues(t, 4, pos.Board[7][0]) // white rook a1
	assert.EqualValues(t, 6, pos.Board[7][4]) // white king e1
	// pawns on row 1 (black) and row 6 (white)
	assert.EqualValues(t, -1, pos.Board[1][3])
	assert.EqualValues(t, 1, pos.Board[6][3])
}

func TestSetPositionRoundTrip(t *testing.T) {
	e := NewEngine()
	e.Init(Hooks{})

	var pos UIPosition
	pos.Board[0][4] = -6 // black king e8
	pos.Board[7][4] = 6  // white king e1
	pos.Board[7][0] = 4  // white rook a1
	pos.Turn = 1
	pos.EpRow, pos.EpCol = NoSquare, NoSquare
	pos.HalfmoveClock = 3
	pos.FullmoveNumber = 10

	err := e.SetPosition(pos)
	assert.NoError(t, err)

	got := e.GetPosition()
	assert.Equal(t, pos.Board, got.Board)
	assert.EqualValues(t, 1, got.Turn)
	assert.Equal(t, 3, got.HalfmoveClock)
	assert.Equal(t, 10, got.FullmoveNumber)
}

func TestGetAllMovesStartingPosition(t *testing.T) {
	e := NewEngine()
	e.Init(Hooks{})

	moves := e.GetAllMoves()
	assert.Equal(t, 20, len(moves))
}

func TestGetMovesFromAndIsLegalMove(t *testing.T) {
	e := NewEngine()
	e.Init(Hooks{})

	// e2-e4: row 6 col 4 -> row 4 col 4
	moves := e.GetMovesFrom(6, 4)
	assert.Equal(t, 2, len(moves)) // e2-e3, e2-e4

	push := UIMove{FromRow: 6, FromCol: 4, ToRow: 4, ToCol: 4}
	assert.True(t, e.IsLegalMove(push))

	bad := UIMove{FromRow: 6, FromCol: 4, ToRow: 3, ToCol: 4}
	assert.False(t, e.IsLegalMove(bad))
}

func TestMakeMoveAndStatus(t *testing.T) {
	e := NewEngine()
	e.Init(Hooks{})

	status, ok := e.MakeMove(UIMove{FromRow: 6, FromCol: 4, ToRow: 4, ToCol: 4})
	assert.True(t, ok)
	assert.Equal(t, StatusNormal, status)

	pos := e.GetPosition()
	assert.EqualValues(t, -1, pos.Turn)
	assert.EqualValues(t, 1, pos.Board[4][4]) // white pawn now on e4
	assert.EqualValues(t, 0, pos.Board[6][4]) // e2 empty

	// illegal move is rejected without mutating the board
	_, ok = e.MakeMove(UIMove{FromRow: 0, FromCol: 0, ToRow: 0, ToCol: 7})
	assert.False(t, ok)
}

func TestGetMoveEffectsCastle(t *testing.T) {
	e := NewEngine()
	e.Init(Hooks{})

	var pos UIPosition
	pos.Board[7][4] = 6  // white king e1
	pos.Board[7][7] = 4  // white rook h1
	pos.Board[0][4] = -6 // black king e8
	pos.Turn = 1
	pos.Castling = 1 // WK only
	pos.EpRow, pos.EpCol = NoSquare, NoSquare
	assert.NoError(t, e.SetPosition(pos))

	castle := UIMove{FromRow: 7, FromCol: 4, ToRow: 7, ToCol: 6, Flags: FlagCastle}
	assert.True(t, e.IsLegalMove(castle))

	fx, ok := e.GetMoveEffects(castle)
	assert.True(t, ok)
	assert.True(t, fx.IsCastle)
	assert.Equal(t, 7, fx.RookFromRow)
	assert.Equal(t, 7, fx.RookFromCol)
	assert.Equal(t, 7, fx.RookToRow)
	assert.Equal(t, 5, fx.RookToCol)
}

func TestCheckmateStatus(t *testing.T) {
	e := NewEngine()
	e.Init(Hooks{})

	// Kh6/Qg7 vs Kh8: a textbook queen mate. Black's king has no flight
	// square (g8 and h7 are covered by the queen, g7 is occupied by a
	// defended queen) and there is no piece left to block or capture.
	var pos UIPosition
	pos.Board[0][7] = -6 // black king h8
	pos.Board[1][6] = 5  // white queen g7
	pos.Board[2][7] = 6  // white king h6
	pos.Turn = -1
	pos.EpRow, pos.EpCol = NoSquare, NoSquare
	pos.FullmoveNumber = 1

	assert.NoError(t, e.SetPosition(pos))
	status := e.GetStatus()
	assert.Equal(t, StatusCheckmate, status)
}

func TestThinkDepthLimited(t *testing.T) {
	e := NewEngine()
	e.Init(Hooks{})

	move := e.Think(2, 0)
	assert.NotEqual(t, NoMove, move)
}
