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

package uci

import (
	"bufio"
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/corvidchess/engine/config"
	"github.com/corvidchess/engine/logging"
)

func TestMain(m *testing.M) {
	config.Setup()
	logging.GetTestLog()
	os.Exit(m.Run())
}

func TestNewUciHandler(t *testing.T) {
	u := NewUciHandler()
	assert.NotNil(t, u.eng)
}

func TestUciHandler_Loop(t *testing.T) {
	uh := NewUciHandler()
	uh.InIo = bufio.NewScanner(strings.NewReader("uci\nquit\n"))
	buffer := new(bytes.Buffer)
	uh.OutIo = bufio.NewWriter(buffer)
	uh.Loop()
	result := buffer.String()
	assert.Contains(t, result, "uciok")
}

func TestUciCommand(t *testing.T) {
	uh := NewUciHandler()
	result := uh.Command("uci")
	assert.Contains(t, result, "id name")
	assert.Contains(t, result, "option name Hash")
	assert.Contains(t, result, "uciok")
}

func TestIsreadyCmd(t *testing.T) {
	uh := NewUciHandler()
	result := uh.Command("isready")
	assert.Contains(t, result, "readyok")
}

func TestPositionCmd(t *testing.T) {
	uh := NewUciHandler()

	uh.Command("position startpos")
	assert.Equal(t, int8(1), uh.eng.GetPosition().Turn)

	uh.Command("position fen rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	assert.Equal(t, int8(1), uh.eng.GetPosition().Turn)

	uh.Command("position startpos moves e2e4 e7e5 g1f3 b8c6")
	pos := uh.eng.GetPosition()
	assert.Equal(t, int8(1), pos.Turn)
	// after 4 plies it's White to move again, and the knights have moved
	assert.EqualValues(t, 0, pos.Board[7][1]) // b1 empty
	assert.EqualValues(t, 0, pos.Board[0][1]) // b8 empty
}

func TestPositionCmd_IllegalMoveStopsReplay(t *testing.T) {
	uh := NewUciHandler()
	uh.Command("position startpos moves e2e4 e2e4")
	// the illegal second move is never applied; only e2e4 took effect
	pos := uh.eng.GetPosition()
	assert.EqualValues(t, 0, pos.Board[6][4]) // e2 empty
	assert.EqualValues(t, 1, pos.Board[4][4]) // e4 holds the white pawn
}

func TestGoCommand_Depth(t *testing.T) {
	uh := NewUciHandler()
	buffer := new(bytes.Buffer)
	uh.OutIo = bufio.NewWriter(buffer)
	uh.handleReceivedCommand("position startpos")
	uh.handleReceivedCommand("go depth 2")

	deadline := time.Now().Add(10 * time.Second)
	for !strings.Contains(buffer.String(), "bestmove") && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	assert.Contains(t, buffer.String(), "bestmove")
}

func TestStopCommand(t *testing.T) {
	uh := NewUciHandler()
	buffer := new(bytes.Buffer)
	uh.OutIo = bufio.NewWriter(buffer)
	uh.handleReceivedCommand("position startpos")
	uh.handleReceivedCommand("go infinite")
	time.Sleep(200 * time.Millisecond)
	uh.handleReceivedCommand("stop")

	deadline := time.Now().Add(5 * time.Second)
	for uh.eng.IsThinking() && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	assert.False(t, uh.eng.IsThinking())
}

func TestSetOptionHash(t *testing.T) {
	uh := NewUciHandler()
	uh.Command("setoption name Hash value 32")
	assert.Equal(t, 32, config.Settings.Search.TTSizeMB)
}

func TestSetOptionClearHash(t *testing.T) {
	uh := NewUciHandler()
	uh.Command("setoption name Clear Hash")
}

func TestParseUciMove(t *testing.T) {
	m, ok := parseUciMove("e2e4")
	assert.True(t, ok)
	assert.Equal(t, "e2e4", uiMoveToUci(m))

	m, ok = parseUciMove("e7e8q")
	assert.True(t, ok)
	assert.True(t, m.IsPromotion())
	assert.Equal(t, "e7e8q", uiMoveToUci(m))

	_, ok = parseUciMove("z9z9")
	assert.False(t, ok)

	_, ok = parseUciMove("e2e4x")
	assert.False(t, ok)
}

func TestSquareStrToRowCol(t *testing.T) {
	row, col, ok := squareStrToRowCol("a1")
	assert.True(t, ok)
	assert.Equal(t, 7, row)
	assert.Equal(t, 0, col)
	assert.Equal(t, "a1", rowColToSquareStr(row, col))

	row, col, ok = squareStrToRowCol("h8")
	assert.True(t, ok)
	assert.Equal(t, 0, row)
	assert.Equal(t, 7, col)
	assert.Equal(t, "h8", rowColToSquareStr(row, col))
}
