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

// Package engine is the host-agnostic facade over position, movegen and
// search: a single Engine value owns the board, the search instance and
// the optional opening book, and exposes the position/move/think
// operations a UI needs without requiring the host to know about 0x88
// squares, Zobrist hashes or the UCI protocol.
package engine

import (
	"strconv"
	"time"

	"github.com/corvidchess/engine/config"
	"github.com/corvidchess/engine/logging"
	"github.com/corvidchess/engine/movegen"
	"github.com/corvidchess/engine/position"
	"github.com/corvidchess/engine/search"
	. "github.com/corvidchess/engine/types"
)

var log = logging.GetLog()

// NoSquare is the sentinel row/column value for "no square", used both for
// an absent en passant square and for the "no legal move" result of Think.
const NoSquare = 0xff

// Move flag bits as exposed to the host. PromoShift/PromoMask pick the
// 2-bit promotion-type field out of the same byte.
const (
	FlagCapture   uint8 = 1 << 0
	FlagCastle    uint8 = 1 << 1
	FlagEnPassant uint8 = 1 << 2
	FlagPromotion uint8 = 1 << 3

	PromoShift = 4
	PromoMask  = 0b11 << PromoShift
)

// Promotion piece codes packed into a UIMove's Flags, independent of the
// engine's internal PieceType numbering so the wire format never changes
// if PieceType does.
const (
	PromoKnight uint8 = 0
	PromoBishop uint8 = 1
	PromoRook   uint8 = 2
	PromoQueen  uint8 = 3
)

// Status is the game status code returned by GetStatus.
type Status int

// Status codes, matching the host-facing status enum.
const (
	StatusNormal Status = iota
	StatusCheck
	StatusCheckmate
	StatusStalemate
	StatusDraw50
	StatusDrawRepetition
	StatusDrawInsufficientMaterial
)

// UIMove is a move as exchanged with the host: board coordinates plus the
// flag byte describing capture/castle/en-passant/promotion.
type UIMove struct {
	FromRow, FromCol int
	ToRow, ToCol     int
	Flags            uint8
}

// IsPromotion reports whether m carries a promotion flag.
func (m UIMove) IsPromotion() bool { return m.Flags&FlagPromotion != 0 }

// PromoCode returns the 2-bit promotion piece code packed into Flags.
func (m UIMove) PromoCode() uint8 { return (m.Flags & PromoMask) >> PromoShift }

// NoMove is returned by Think when there is no legal move to play.
var NoMove = UIMove{FromRow: NoSquare, FromCol: NoSquare, ToRow: NoSquare, ToCol: NoSquare}

// UIPosition is the 8x8 signed-piece exchange format of section 6.1:
// row 0 is rank 8, row 7 is rank 1; columns run a..h. Pieces are
// Pawn=1..King=6 for White, negated for Black, 0 for empty.
type UIPosition struct {
	Board          [8][8]int8
	Turn           int8 // +1 White, -1 Black
	Castling       uint8
	EpRow, EpCol   uint8 // NoSquare if there is no ep square
	HalfmoveClock  int
	FullmoveNumber int
}

// MoveEffects reports the side effects of a move the UI needs to animate
// but that GetMoveEffects computes without mutating the board: the rook
// hop of a castle, or the captured-pawn square of an en passant capture.
type MoveEffects struct {
	IsCastle                       bool
	RookFromRow, RookFromCol       int
	RookToRow, RookToCol           int
	IsEnPassant                    bool
	CapturedPawnRow, CapturedPawnCol int
}

// Book is the opening book lookup used by Think. Implementations decide
// their own storage format; the engine only needs a position in, a move
// (already legal on that position) out.
type Book interface {
	Lookup(b *position.Board) (Move, bool)
}

// Hooks carries host callbacks. TimeMs, if set, lets the host supply its
// own monotonic clock; currently informational only since the search
// package times itself against the Go monotonic clock.
type Hooks struct {
	TimeMs func() int64
}

// Engine is the facade a host UI drives. The zero value is not usable;
// create one with NewEngine.
type Engine struct {
	board *position.Board
	gen   movegen.Generator
	srch  *search.Search
	book  Book
	hooks Hooks

	history []position.Key
}

// NewEngine creates an Engine with an empty board. Call Init before use.
func NewEngine() *Engine {
	return &Engine{
		gen:  movegen.New(),
		srch: search.NewSearch(),
	}
}

// SetBook installs the opening book consulted by Think. Pass nil to
// disable book moves.
func (e *Engine) SetBook(b Book) {
	e.book = b
}

// ClearHash empties the transposition table, keeping its current size.
func (e *Engine) ClearHash() {
	e.srch.ClearHash()
}

// ResizeHash resizes the transposition table to sizeInMB, discarding its
// current contents.
func (e *Engine) ResizeHash(sizeInMB int) {
	e.srch.ResizeHash(sizeInMB)
}

// Init prepares the engine for use: Zobrist tables are initialized by the
// position package on program start, so Init only needs to clear search
// state and reset the board to the standard starting position.
func (e *Engine) Init(hooks Hooks) {
	e.hooks = hooks
	e.srch.NewGame()
	e.board = position.New()
	e.history = append(e.history[:0], e.board.Hash())
}

// NewGame resets the board to the starting position and clears the
// search's transposition table, killer/history tables and game history.
func (e *Engine) NewGame() {
	e.board = position.New()
	e.history = append(e.history[:0], e.board.Hash())
	e.srch.NewGame()
}

// SetPosition loads an external position, rebuilding the board and its
// incrementally maintained hashes from scratch, and resets the game
// history to this single position (it did not necessarily arise from the
// starting position, so no earlier history is known).
func (e *Engine) SetPosition(pos UIPosition) error {
	fen := uiPositionToFen(pos)
	b, err := position.NewFromFEN(fen)
	if err != nil {
		log.Warningf("SetPosition: invalid position: %v", err)
		return err
	}
	e.board = b
	e.history = append(e.history[:0], e.board.Hash())
	return nil
}

// SetPositionFEN loads a position directly from a FEN string, for hosts
// (e.g. a UCI driver) that already speak FEN rather than the row/col grid
// format.
func (e *Engine) SetPositionFEN(fen string) error {
	b, err := position.NewFromFEN(fen)
	if err != nil {
		log.Warningf("SetPositionFEN: invalid position: %v", err)
		return err
	}
	e.board = b
	e.history = append(e.history[:0], e.board.Hash())
	return nil
}

// GetPosition projects the current board back into the external grid
// format.
func (e *Engine) GetPosition() UIPosition {
	var pos UIPosition
	for r := Rank1; r <= Rank8; r++ {
		for f := FileA; f <= FileH; f++ {
			row, col := squareToUI(SquareOf(f, r))
			pos.Board[row][col] = pieceToGrid(e.board.PieceOn(SquareOf(f, r)))
		}
	}
	if e.board.Side() == White {
		pos.Turn = 1
	} else {
		pos.Turn = -1
	}
	pos.Castling = uint8(e.board.Castling())
	if e.board.EpSquare() == SqNone {
		pos.EpRow, pos.EpCol = NoSquare, NoSquare
	} else {
		pos.EpRow, pos.EpCol = squareToUI(e.board.EpSquare())
	}
	pos.HalfmoveClock = e.board.HalfmoveClock()
	pos.FullmoveNumber = e.board.FullmoveNumber()
	return pos
}

// GetMovesFrom returns every legal move starting on (row, col).
func (e *Engine) GetMovesFrom(row, col int) []UIMove {
	from := uiToSquare(row, col)
	var moves []UIMove
	legal := e.gen.GenerateLegal(e.board, movegen.GenAll)
	for i := 0; i < legal.Len(); i++ {
		m := legal.At(i)
		if m.From() == from {
			moves = append(moves, toUIMove(m))
		}
	}
	return moves
}

// GetAllMoves returns every legal move in the current position.
func (e *Engine) GetAllMoves() []UIMove {
	legal := e.gen.GenerateLegal(e.board, movegen.GenAll)
	moves := make([]UIMove, 0, legal.Len())
	for i := 0; i < legal.Len(); i++ {
		moves = append(moves, toUIMove(legal.At(i)))
	}
	return moves
}

// IsLegalMove reports whether m matches a legal move on the current
// board (from, to and promotion bits all must match).
func (e *Engine) IsLegalMove(m UIMove) bool {
	_, ok := e.findLegalMove(m)
	return ok
}

// GetMoveEffects reports the rook hop of a castle or the captured-pawn
// square of an en passant, without mutating the board. The UI calls this
// before MakeMove to drive animation. The bool result is false if m is
// not a legal move.
func (e *Engine) GetMoveEffects(m UIMove) (MoveEffects, bool) {
	move, ok := e.findLegalMove(m)
	if !ok {
		return MoveEffects{}, false
	}
	var fx MoveEffects
	if move.IsCastle() {
		fx.IsCastle = true
		rookFrom, rookTo := castleRookSquares(move.To())
		fx.RookFromRow, fx.RookFromCol = squareToUI(rookFrom)
		fx.RookToRow, fx.RookToCol = squareToUI(rookTo)
	}
	if move.IsEnPassant() {
		fx.IsEnPassant = true
		capSq := SquareOf(move.To().FileOf(), move.From().RankOf())
		fx.CapturedPawnRow, fx.CapturedPawnCol = squareToUI(capSq)
	}
	return fx, true
}

// MakeMove finds the engine-generated move matching (from, to, promo),
// verifies it is legal, applies it, records its hash in the game history
// and returns the resulting game status. The bool result is false (with
// no state change) if m is not a legal move.
func (e *Engine) MakeMove(m UIMove) (Status, bool) {
	move, ok := e.findLegalMove(m)
	if !ok {
		return StatusNormal, false
	}
	e.board.Make(move)
	e.history = append(e.history, e.board.Hash())
	return e.GetStatus(), true
}

// Think runs the search under the given limits and returns the best root
// move. If an opening book is installed and knows the current position
// the book move is returned immediately, skipping search. Returns NoMove
// if there is no legal move (checkmate or stalemate).
func (e *Engine) Think(maxDepth int, maxTimeMs int64) UIMove {
	if e.book != nil && config.Settings.Search.UseBook {
		if move, ok := e.book.Lookup(e.board); ok {
			return toUIMove(move)
		}
	}

	sl := search.NewSearchLimits()
	if maxDepth > 0 {
		sl.Depth = maxDepth
	}
	if maxTimeMs > 0 {
		sl.TimeControl = true
		sl.MoveTime = time.Duration(maxTimeMs) * time.Millisecond
	}
	if sl.Depth == 0 && !sl.TimeControl {
		// the host gave us no limit at all; search() would otherwise run
		// until MaxDepth, which is unusable as a synchronous call.
		sl.Depth = 6
	}

	e.srch.SetGameHistory(e.history)
	e.srch.StartSearch(*e.board, *sl)
	e.srch.WaitWhileSearching()

	result := e.srch.LastSearchResult()
	if result.BestMove == MoveNone {
		return NoMove
	}
	return toUIMove(result.BestMove)
}

// LastThinkResult returns the full search.Result of the most recent Think
// call, for hosts that need more than the best move (search depth, score,
// principal variation) - e.g. a UCI driver's "info"/"bestmove" lines.
func (e *Engine) LastThinkResult() search.Result {
	return e.srch.LastSearchResult()
}

// StopSearch asks a Think call running on another goroutine to return as
// soon as possible with the best move found so far. A host driving a
// protocol with its own "stop while thinking" command (e.g. UCI) calls
// Think from a goroutine and StopSearch from the command dispatch loop.
func (e *Engine) StopSearch() {
	e.srch.StopSearch()
}

// IsThinking reports whether a Think call is currently running on another
// goroutine.
func (e *Engine) IsThinking() bool {
	return e.srch.IsSearching()
}

// GetStatus computes the status of the current position: checkmate,
// stalemate, a draw by the fifty-move rule, by repetition (over the
// engine's own game history) or by insufficient material, check, or
// normal.
func (e *Engine) GetStatus() Status {
	inCheck := movegen.IsInCheck(e.board, e.board.Side())
	legal := e.gen.GenerateLegal(e.board, movegen.GenAll)
	if legal.Len() == 0 {
		if inCheck {
			return StatusCheckmate
		}
		return StatusStalemate
	}
	if e.board.HalfmoveClock() >= 100 {
		return StatusDraw50
	}
	if e.isDrawByRepetition() {
		return StatusDrawRepetition
	}
	if isInsufficientMaterial(e.board) {
		return StatusDrawInsufficientMaterial
	}
	if inCheck {
		return StatusCheck
	}
	return StatusNormal
}

// //////////////////////////////////////////////////////
// Private
// //////////////////////////////////////////////////////

// findLegalMove returns the currently-legal move matching m's from, to
// and promotion bits, the same contract spec section 4.7 gives
// is_legal_move and make_move: a move "matches" only by coordinates and
// promotion piece, never by the internal capture/castle/ep flags, since
// those are derived by the generator and the host never supplies them.
func (e *Engine) findLegalMove(m UIMove) (Move, bool) {
	from := uiToSquare(m.FromRow, m.FromCol)
	to := uiToSquare(m.ToRow, m.ToCol)
	legal := e.gen.GenerateLegal(e.board, movegen.GenAll)
	for i := 0; i < legal.Len(); i++ {
		cand := legal.At(i)
		if cand.From() != from || cand.To() != to {
			continue
		}
		if !cand.IsPromotion() && !m.IsPromotion() {
			return cand, true
		}
		if cand.IsPromotion() && m.IsPromotion() && promoTypeToCode(cand.PromotionType()) == m.PromoCode() {
			return cand, true
		}
	}
	return MoveNone, false
}

// isDrawByRepetition reports whether the current position's hash has
// occurred at least twice before in the recorded game history, i.e. this
// is the third occurrence.
func (e *Engine) isDrawByRepetition() bool {
	if len(e.history) == 0 {
		return false
	}
	current := e.history[len(e.history)-1]
	count := 0
	for _, h := range e.history {
		if h == current {
			count++
		}
	}
	return count >= 3
}

// isInsufficientMaterial implements the exact (non-conservative) rule
// from spec section 4.7: K vs K, KN vs K, or KB vs K. Any pawn, rook,
// queen or a second minor piece on either side means there is still
// mating material.
func isInsufficientMaterial(b *position.Board) bool {
	var minors int
	for _, c := range [2]Color{White, Black} {
		for _, sq := range b.PieceList(c) {
			switch b.PieceOn(sq).TypeOf() {
			case Pawn, Rook, Queen:
				return false
			case Knight, Bishop:
				minors++
			}
		}
	}
	return minors <= 1
}

// castleRookSquares returns the rook's from/to squares for a castle move
// given the king's destination square.
func castleRookSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case SqG1:
		return SqH1, SqF1
	case SqC1:
		return SqA1, SqD1
	case SqG8:
		return SqH8, SqF8
	case SqC8:
		return SqA8, SqD8
	default:
		return SqNone, SqNone
	}
}

// squareToUI converts a 0x88 square to the UI grid's (row, col), where
// row 0 is rank 8 and col 0 is the a-file.
func squareToUI(sq Square) (row, col int) {
	return int(Rank8 - sq.RankOf()), int(sq.FileOf())
}

// uiToSquare is the inverse of squareToUI.
func uiToSquare(row, col int) Square {
	return SquareOf(File(col), Rank8-Rank(row))
}

// pieceToGrid converts a board piece to the signed grid encoding: white
// pieces positive, black negative, empty 0.
func pieceToGrid(pc Piece) int8 {
	if pc == PieceNone {
		return 0
	}
	v := int8(pc.TypeOf())
	if pc.ColorOf() == Black {
		v = -v
	}
	return v
}

// gridToPiece is the inverse of pieceToGrid.
func gridToPiece(v int8) Piece {
	if v == 0 {
		return PieceNone
	}
	if v < 0 {
		return MakePiece(Black, PieceType(-v))
	}
	return MakePiece(White, PieceType(v))
}

// promoTypeToCode maps an internal PieceType to the wire's 2-bit
// promotion code, independent of PieceType's own numbering.
func promoTypeToCode(pt PieceType) uint8 {
	switch pt {
	case Knight:
		return PromoKnight
	case Bishop:
		return PromoBishop
	case Rook:
		return PromoRook
	default:
		return PromoQueen
	}
}

// toUIMove converts an internal Move to the host-facing UIMove, deriving
// the flag byte from the move's own bits.
func toUIMove(m Move) UIMove {
	fromRow, fromCol := squareToUI(m.From())
	toRow, toCol := squareToUI(m.To())
	um := UIMove{FromRow: fromRow, FromCol: fromCol, ToRow: toRow, ToCol: toCol}
	if m.IsCapture() {
		um.Flags |= FlagCapture
	}
	if m.IsCastle() {
		um.Flags |= FlagCastle
	}
	if m.IsEnPassant() {
		um.Flags |= FlagEnPassant
	}
	if m.IsPromotion() {
		um.Flags |= FlagPromotion
		um.Flags |= promoTypeToCode(m.PromotionType()) << PromoShift
	}
	return um
}

// uiPositionToFen renders a UIPosition as a FEN string so SetPosition can
// reuse the board's own FEN parser rather than duplicating its move-count
// and castling-rights validation.
func uiPositionToFen(pos UIPosition) string {
	var fen []byte
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			v := pos.Board[row][col]
			if v == 0 {
				empty++
				continue
			}
			if empty > 0 {
				fen = append(fen, byte('0'+empty))
				empty = 0
			}
			fen = append(fen, gridToPiece(v).String()...)
		}
		if empty > 0 {
			fen = append(fen, byte('0'+empty))
		}
		if row < 7 {
			fen = append(fen, '/')
		}
	}
	fen = append(fen, ' ')
	if pos.Turn >= 0 {
		fen = append(fen, 'w')
	} else {
		fen = append(fen, 'b')
	}
	fen = append(fen, ' ')
	fen = append(fen, CastlingRights(pos.Castling).String()...)
	fen = append(fen, ' ')
	if pos.EpRow == NoSquare || pos.EpCol == NoSquare {
		fen = append(fen, '-')
	} else {
		epSq := uiToSquare(int(pos.EpRow), int(pos.EpCol))
		fen = append(fen, epSq.String()...)
	}
	fen = append(fen, ' ')
	fen = append(fen, strconv.Itoa(pos.HalfmoveClock)...)
	fen = append(fen, ' ')
	fen = append(fen, strconv.Itoa(pos.FullmoveNumber)...)
	return string(fen)
}
