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

// Package uci handles the UCI protocol communication, dispatching each
// command line onto the engine facade (package engine) rather than
// touching the board, move generator or search directly.
package uci

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/corvidchess/engine/config"
	"github.com/corvidchess/engine/engine"
	"github.com/corvidchess/engine/logging"
	"github.com/corvidchess/engine/openingbook"
)

var log = logging.GetUciLog()

// UciHandler reads UCI protocol commands from InIo and writes responses
// to OutIo, driving a single engine.Engine.
type UciHandler struct {
	InIo  *bufio.Scanner
	OutIo *bufio.Writer

	eng *engine.Engine
}

// NewUciHandler creates a handler wired to Stdin/Stdout and a fresh,
// initialized engine. If Search.UseBook is configured, the opening book
// at Search.BookPath is loaded best-effort; a load failure is logged and
// leaves the engine without a book rather than failing startup.
func NewUciHandler() *UciHandler {
	u := &UciHandler{
		InIo:  bufio.NewScanner(os.Stdin),
		OutIo: bufio.NewWriter(os.Stdout),
	}
	u.InIo.Buffer(make([]byte, 1<<20), 1<<20)

	u.eng = engine.NewEngine()
	u.eng.Init(engine.Hooks{TimeMs: func() int64 { return time.Now().UnixMilli() }})

	if config.Settings.Search.UseBook {
		book := &openingbook.Book{}
		if err := book.Initialize(config.Settings.Search.BookPath, true, false); err != nil {
			log.Warningf("opening book not loaded: %s", err)
		} else {
			u.eng.SetBook(book)
		}
	}

	return u
}

// Loop reads commands from InIo until "quit" or end of input.
func (u *UciHandler) Loop() {
	log.Info("Starting UCI loop")
	for u.InIo.Scan() {
		if !u.handleReceivedCommand(strings.TrimSpace(u.InIo.Text())) {
			break
		}
	}
}

// Command runs a single command and returns everything it wrote to
// OutIo, for testing the dispatch loop without a real stdin/stdout pair.
func (u *UciHandler) Command(cmd string) string {
	var buf bytes.Buffer
	saved := u.OutIo
	u.OutIo = bufio.NewWriter(&buf)
	u.handleReceivedCommand(cmd)
	_ = u.OutIo.Flush()
	u.OutIo = saved
	return buf.String()
}

var regexWhiteSpace = regexp.MustCompile(`\s+`)

// handleReceivedCommand dispatches one command line. Returns false when
// the loop should stop (the "quit" command).
func (u *UciHandler) handleReceivedCommand(cmd string) bool {
	if cmd == "" {
		return true
	}
	tokens := regexWhiteSpace.Split(cmd, -1)

	switch tokens[0] {
	case "quit":
		return false
	case "uci":
		u.uciCommand()
	case "setoption":
		u.setOptionCommand(tokens)
	case "isready":
		u.isReadyCommand()
	case "ucinewgame":
		u.eng.NewGame()
	case "position":
		u.positionCommand(tokens)
	case "go":
		u.goCommand(tokens)
	case "stop":
		u.stopCommand()
	case "ponderhit":
		log.Debug("ponderhit: pondering is not supported, ignoring")
	case "register", "debug":
		// no-op: not applicable to this engine
	default:
		log.Warningf("Unknown command: %s", cmd)
	}
	return true
}

func (u *UciHandler) uciCommand() {
	u.send("id name Corvid")
	u.send("id author the corvidchess contributors")
	for _, opt := range uciOptions.GetOptions() {
		u.send(opt)
	}
	u.send("uciok")
}

func (u *UciHandler) setOptionCommand(tokens []string) {
	// setoption name <id> [value <x>]
	if len(tokens) < 3 || tokens[1] != "name" {
		return
	}
	nameTokens := tokens[2:]
	valueIdx := -1
	for i, t := range nameTokens {
		if t == "value" {
			valueIdx = i
			break
		}
	}
	var name, value string
	if valueIdx == -1 {
		name = strings.Join(nameTokens, " ")
	} else {
		name = strings.Join(nameTokens[:valueIdx], " ")
		value = strings.Join(nameTokens[valueIdx+1:], " ")
	}

	opt, found := uciOptions[name]
	if !found {
		log.Warningf("setoption: unknown option %q", name)
		return
	}
	if value != "" {
		opt.CurrentValue = value
	}
	opt.HandlerFunc(u, opt)
}

func (u *UciHandler) isReadyCommand() {
	u.send("readyok")
}

func (u *UciHandler) positionCommand(tokens []string) {
	if len(tokens) < 2 {
		return
	}

	idx := 1
	switch tokens[idx] {
	case "startpos":
		u.eng.NewGame()
		idx++
	case "fen":
		idx++
		var fenTokens []string
		for idx < len(tokens) && tokens[idx] != "moves" {
			fenTokens = append(fenTokens, tokens[idx])
			idx++
		}
		if err := u.eng.SetPositionFEN(strings.Join(fenTokens, " ")); err != nil {
			log.Warningf("position fen: %s", err)
			return
		}
	default:
		log.Warningf("position: expected startpos or fen, got %q", tokens[idx])
		return
	}

	if idx < len(tokens) && tokens[idx] == "moves" {
		idx++
		for ; idx < len(tokens); idx++ {
			m, ok := parseUciMove(tokens[idx])
			if !ok {
				log.Warningf("position: could not parse move %q", tokens[idx])
				break
			}
			if _, ok := u.eng.MakeMove(m); !ok {
				log.Warningf("position: %q is not legal in the current position", tokens[idx])
				break
			}
		}
	}
}

func (u *UciHandler) goCommand(tokens []string) {
	if u.eng.IsThinking() {
		log.Warning("go: search already running")
		return
	}

	var (
		depth       int
		moveTimeMs  int64
		whiteTimeMs int64
		blackTimeMs int64
		whiteIncMs  int64
		blackIncMs  int64
		movesToGo   int
		infinite    bool
	)

	for i := 1; i < len(tokens); i++ {
		switch tokens[i] {
		case "infinite":
			infinite = true
		case "ponder":
			// pondering is not supported; treated as a normal search
		case "depth":
			i++
			depth = atoiOr(tokens, i, 0)
		case "movetime":
			i++
			moveTimeMs = int64(atoiOr(tokens, i, 0))
		case "wtime":
			i++
			whiteTimeMs = int64(atoiOr(tokens, i, 0))
		case "btime":
			i++
			blackTimeMs = int64(atoiOr(tokens, i, 0))
		case "winc":
			i++
			whiteIncMs = int64(atoiOr(tokens, i, 0))
		case "binc":
			i++
			blackIncMs = int64(atoiOr(tokens, i, 0))
		case "movestogo":
			i++
			movesToGo = atoiOr(tokens, i, 0)
		case "nodes", "mate":
			i++ // parsed but not honored by the facade's Think(depth, ms) contract
		}
	}

	maxTimeMs := moveTimeMs
	if maxTimeMs == 0 && !infinite && depth == 0 {
		maxTimeMs = u.estimateTimeMs(whiteTimeMs, blackTimeMs, whiteIncMs, blackIncMs, movesToGo)
	}

	// capture the writer in use at dispatch time: OutIo may be swapped by
	// Command (used in tests) before this goroutine finishes searching.
	out := u.OutIo
	go func() {
		best := u.eng.Think(depth, maxTimeMs)
		result := u.eng.LastThinkResult()
		u.sendTo(out, fmt.Sprintf("info depth %d seldepth %d score %s time %d pv %s",
			result.SearchDepth, result.ExtraDepth, result.BestValue.String(),
			result.SearchTime.Milliseconds(), result.Pv.StringUci()))
		u.sendTo(out, "bestmove "+uiMoveToUci(best))
	}()
}

func (u *UciHandler) stopCommand() {
	u.eng.StopSearch()
}

// estimateTimeMs mirrors the classic "remaining time / moves left"
// allocation: with no movestogo hint it assumes 30 moves remain.
func (u *UciHandler) estimateTimeMs(whiteMs, blackMs, whiteIncMs, blackIncMs int64, movesToGo int) int64 {
	pos := u.eng.GetPosition()
	var timeLeft, inc int64
	if pos.Turn >= 0 {
		timeLeft, inc = whiteMs, whiteIncMs
	} else {
		timeLeft, inc = blackMs, blackIncMs
	}
	if timeLeft == 0 {
		return 0
	}
	left := int64(movesToGo)
	if left == 0 {
		left = 30
	}
	budget := timeLeft/left + inc
	if budget <= 0 {
		budget = 50
	}
	return budget
}

func atoiOr(tokens []string, i int, fallback int) int {
	if i < 0 || i >= len(tokens) {
		return fallback
	}
	v, err := strconv.Atoi(tokens[i])
	if err != nil {
		return fallback
	}
	return v
}

func (u *UciHandler) send(s string) {
	u.sendTo(u.OutIo, s)
}

// sendTo writes s, newline-terminated, to an explicit writer rather than
// u.OutIo - see the comment in goCommand for why the distinction matters.
func (u *UciHandler) sendTo(w *bufio.Writer, s string) {
	log.Debug(s)
	_, _ = w.WriteString(s)
	_, _ = w.WriteString("\n")
	_ = w.Flush()
}

// squareStrToRowCol parses a square like "e4" into the engine's UIMove
// row/col convention: row 0 is rank 8, col 0 is the a-file.
func squareStrToRowCol(s string) (row, col int, ok bool) {
	if len(s) != 2 {
		return 0, 0, false
	}
	file := s[0]
	rank := s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, 0, false
	}
	col = int(file - 'a')
	row = 7 - int(rank-'1')
	return row, col, true
}

// rowColToSquareStr is the inverse of squareStrToRowCol.
func rowColToSquareStr(row, col int) string {
	file := byte('a' + col)
	rank := byte('1' + (7 - row))
	return string([]byte{file, rank})
}

// parseUciMove parses a UCI long-algebraic move such as "e2e4" or
// "e7e8q" into a UIMove. The capture/castle/en-passant flags are left
// unset since the engine facade derives them on its own from the board.
func parseUciMove(s string) (engine.UIMove, bool) {
	if len(s) != 4 && len(s) != 5 {
		return engine.UIMove{}, false
	}
	fromRow, fromCol, ok := squareStrToRowCol(s[0:2])
	if !ok {
		return engine.UIMove{}, false
	}
	toRow, toCol, ok := squareStrToRowCol(s[2:4])
	if !ok {
		return engine.UIMove{}, false
	}
	m := engine.UIMove{FromRow: fromRow, FromCol: fromCol, ToRow: toRow, ToCol: toCol}
	if len(s) == 5 {
		var promo uint8
		switch s[4] {
		case 'n':
			promo = engine.PromoKnight
		case 'b':
			promo = engine.PromoBishop
		case 'r':
			promo = engine.PromoRook
		case 'q':
			promo = engine.PromoQueen
		default:
			return engine.UIMove{}, false
		}
		m.Flags |= engine.FlagPromotion | (promo << engine.PromoShift)
	}
	return m, true
}

// uiMoveToUci renders a UIMove as UCI long algebraic notation, or the
// null move "0000" if there was no move to play (checkmate/stalemate).
func uiMoveToUci(m engine.UIMove) string {
	if m == engine.NoMove {
		return "0000"
	}
	s := rowColToSquareStr(m.FromRow, m.FromCol) + rowColToSquareStr(m.ToRow, m.ToCol)
	if m.IsPromotion() {
		switch m.PromoCode() {
		case engine.PromoKnight:
			s += "n"
		case engine.PromoBishop:
			s += "b"
		case engine.PromoRook:
			s += "r"
		default:
			s += "q"
		}
	}
	return s
}
