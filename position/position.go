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

// Package position implements the 0x88 mailbox board representation: the
// dense position record, make/unmake with incrementally maintained
// Zobrist hashes, material+PST sums and game phase, and FEN/UI-grid
// conversions.
package position

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/corvidchess/engine/assert"
	. "github.com/corvidchess/engine/types"
)

const maxPieceListLen = 16

// noPieceIdx marks an empty square in pieceIndex.
const noPieceIdx int8 = -1

// Board is the dense position record the rest of the engine operates on:
// the 0x88 squares array, per-side piece lists kept current in O(1),
// incremental Zobrist keys, and incremental tapered material+PST sums.
type Board struct {
	squares [BoardSize]Piece

	pieceList  [2][maxPieceListLen]Square
	pieceIndex [BoardSize]int8
	pieceCount [2]int
	bishopCount [2]int
	kingSq     [2]Square

	side     Color
	castling CastlingRights
	epSquare Square
	halfmove int
	fullmove int

	pawnHash Key
	hash     Key
	lock     Lock

	mg [2]int
	eg [2]int
	phase int
}

// Undo carries everything make() cannot recompute from the post-move
// board: the captured piece, the moved piece, the move itself (which
// carries its flags), and every reversible scalar field.
type Undo struct {
	Move         Move
	MovedPiece   Piece
	Captured     Piece
	PrevCastling CastlingRights
	PrevEpSquare Square
	PrevHalfmove int
	PrevFullmove int
	PrevHash     Key
	PrevLock     Lock
	PrevPawnHash Key
}

// StartFen is the standard chess starting position.
const StartFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// castlingMask is ANDed into castling rights whenever a move touches the
// corner or king square for that entry, clearing the corresponding
// right(s). Squares not listed default to CastlingAny (no change). This
// single table also makes the rook-captures-rook case correct for free,
// since both the from- and to-square of the move are each ANDed in turn.
var castlingMask [BoardSize]CastlingRights

func init() {
	for sq := range castlingMask {
		castlingMask[sq] = CastlingAny
	}
	castlingMask[SqA1] = CastlingAny &^ CastlingWhiteOOO
	castlingMask[SqH1] = CastlingAny &^ CastlingWhiteOO
	castlingMask[SqE1] = CastlingAny &^ CastlingWhite
	castlingMask[SqA8] = CastlingAny &^ CastlingBlackOOO
	castlingMask[SqH8] = CastlingAny &^ CastlingBlackOO
	castlingMask[SqE8] = CastlingAny &^ CastlingBlack
}

// New returns a board set up at the standard starting position.
func New() *Board {
	b, err := NewFromFEN(StartFen)
	if err != nil {
		panic(fmt.Sprintf("start fen must always parse: %s", err))
	}
	return b
}

// NewFromFEN parses a FEN string into a freshly built board. Returns an
// error (deterministically, never a panic) if the piece placement is
// malformed or the king count is not exactly one per side.
func NewFromFEN(fen string) (*Board, error) {
	if !zobristInitialized {
		initZobrist()
	}
	b := &Board{}
	for i := range b.pieceIndex {
		b.pieceIndex[i] = noPieceIdx
	}
	if err := b.setupFromFen(fen); err != nil {
		return nil, err
	}
	return b, nil
}

// Side returns the color on move.
func (b *Board) Side() Color { return b.side }

// Castling returns the current castling rights.
func (b *Board) Castling() CastlingRights { return b.castling }

// EpSquare returns the current en passant target square, or SqNone.
func (b *Board) EpSquare() Square { return b.epSquare }

// HalfmoveClock returns the half-move clock used for the 50-move rule.
func (b *Board) HalfmoveClock() int { return b.halfmove }

// FullmoveNumber returns the current full move number.
func (b *Board) FullmoveNumber() int { return b.fullmove }

// Hash returns the primary Zobrist key of the current position.
func (b *Board) Hash() Key { return b.hash }

// Lock returns the independent 16-bit verification key.
func (b *Board) Lock() Lock { return b.lock }

// PawnHash returns the Zobrist key computed over pawns only.
func (b *Board) PawnHash() Key { return b.pawnHash }

// KingSquare returns the square of the king for the given color.
func (b *Board) KingSquare(c Color) Square { return b.kingSq[c] }

// PieceOn returns the piece on sq, or PieceNone if sq is empty. sq must
// be a valid 0x88 square.
func (b *Board) PieceOn(sq Square) Piece { return b.squares[sq] }

// PieceList returns the squares occupied by c's pieces, in an arbitrary
// but stable order. The returned slice aliases Board state and must not
// be retained across a Make/Unmake.
func (b *Board) PieceList(c Color) []Square {
	return b.pieceList[c][:b.pieceCount[c]]
}

// BishopCount returns the number of bishops color c has on the board.
func (b *Board) BishopCount(c Color) int { return b.bishopCount[c] }

// MaterialEgMg returns the incremental middlegame and endgame
// material+PST sums for color c.
func (b *Board) MaterialEgMg(c Color) (mg, eg int) { return b.mg[c], b.eg[c] }

// Phase returns the current game-phase counter (0..GamePhaseMax).
func (b *Board) Phase() int { return b.phase }

// putPiece places piece pc on sq, updating the piece list, incremental
// hashes, PST sums and phase. sq must currently be empty.
func (b *Board) putPiece(pc Piece, sq Square) {
	if assert.DEBUG {
		assert.Assert(b.squares[sq] == PieceNone, "putPiece: square %s already occupied", sq.String())
	}
	c := pc.ColorOf()
	pt := pc.TypeOf()

	b.squares[sq] = pc
	idx := int8(b.pieceCount[c])
	b.pieceList[c][idx] = sq
	b.pieceIndex[sq] = idx
	b.pieceCount[c]++

	if pt == King {
		b.kingSq[c] = sq
	}
	if pt == Bishop {
		b.bishopCount[c]++
	}

	idx64 := sq.Idx64()
	b.hash ^= Key(zobristBase.pieces[pc][idx64])
	b.lock ^= lockBase.pieces[pc][idx64]
	if pt == Pawn {
		b.pawnHash ^= Key(zobristBase.pieces[pc][idx64])
	}
	b.phase += pt.GamePhaseValue()
	b.mg[c] += pt.ValueOf() + PstMg(pc, sq)
	b.eg[c] += pt.ValueOf() + PstEg(pc, sq)
}

// removePiece removes whatever piece sits on sq (which must be occupied)
// and returns it, updating all incremental state symmetrically to
// putPiece. Uses swap-with-last to keep the per-side piece list dense.
func (b *Board) removePiece(sq Square) Piece {
	pc := b.squares[sq]
	if assert.DEBUG {
		assert.Assert(pc != PieceNone, "removePiece: square %s already empty", sq.String())
	}
	c := pc.ColorOf()
	pt := pc.TypeOf()

	removedIdx := b.pieceIndex[sq]
	lastIdx := int8(b.pieceCount[c] - 1)
	if removedIdx != lastIdx {
		movedSq := b.pieceList[c][lastIdx]
		b.pieceList[c][removedIdx] = movedSq
		b.pieceIndex[movedSq] = removedIdx
	}
	b.pieceCount[c]--
	b.pieceIndex[sq] = noPieceIdx
	b.squares[sq] = PieceNone

	if pt == Bishop {
		b.bishopCount[c]--
	}

	idx64 := sq.Idx64()
	b.hash ^= Key(zobristBase.pieces[pc][idx64])
	b.lock ^= lockBase.pieces[pc][idx64]
	if pt == Pawn {
		b.pawnHash ^= Key(zobristBase.pieces[pc][idx64])
	}
	b.phase -= pt.GamePhaseValue()
	b.mg[c] -= pt.ValueOf() + PstMg(pc, sq)
	b.eg[c] -= pt.ValueOf() + PstEg(pc, sq)
	return pc
}

// movePiece relocates the piece on "from" (which must be occupied) to
// "to" (which must be empty), updating incremental state once.
func (b *Board) movePiece(from, to Square) Piece {
	pc := b.removePiece(from)
	b.putPiece(pc, to)
	return pc
}

func (b *Board) setCastling(cr CastlingRights) {
	if cr == b.castling {
		return
	}
	b.hash ^= Key(zobristBase.castling[b.castling])
	b.lock ^= lockBase.castling[b.castling]
	b.castling = cr
	b.hash ^= Key(zobristBase.castling[b.castling])
	b.lock ^= lockBase.castling[b.castling]
}

func (b *Board) setEpSquare(sq Square) {
	if sq == b.epSquare {
		return
	}
	if b.epSquare != SqNone {
		b.hash ^= Key(zobristBase.epFile[b.epSquare.FileOf()])
		b.lock ^= lockBase.epFile[b.epSquare.FileOf()]
	}
	b.epSquare = sq
	if b.epSquare != SqNone {
		b.hash ^= Key(zobristBase.epFile[b.epSquare.FileOf()])
		b.lock ^= lockBase.epFile[b.epSquare.FileOf()]
	}
}

// Make applies m to the board and returns the Undo record needed to
// reverse it. The caller is responsible for only passing pseudo-legal
// moves generated against this exact board state.
func (b *Board) Make(m Move) Undo {
	from, to := m.From(), m.To()
	movedPc := b.squares[from]
	myColor := movedPc.ColorOf()

	u := Undo{
		Move:         m,
		MovedPiece:   movedPc,
		PrevCastling: b.castling,
		PrevEpSquare: b.epSquare,
		PrevHalfmove: b.halfmove,
		PrevFullmove: b.fullmove,
		PrevHash:     b.hash,
		PrevLock:     b.lock,
		PrevPawnHash: b.pawnHash,
	}

	if m.IsEnPassant() {
		u.Captured = PieceNone // captured pawn is not on "to"; recorded below
	} else {
		u.Captured = b.squares[to]
	}

	if u.Captured != PieceNone || movedPc.TypeOf() == Pawn {
		b.halfmove = 0
	} else {
		if b.halfmove < 255 {
			b.halfmove++
		}
	}

	if m.IsEnPassant() {
		capSq := to.To(Direction(myColor.Flip().MoveDirection()) * North)
		u.Captured = b.removePiece(capSq)
	} else if u.Captured != PieceNone {
		b.removePiece(to)
	}

	b.movePiece(from, to)

	if m.IsPromotion() {
		b.removePiece(to)
		b.putPiece(MakePiece(myColor, m.PromotionType()), to)
	}

	if m.IsCastle() {
		switch to {
		case SqG1:
			b.movePiece(SqH1, SqF1)
		case SqC1:
			b.movePiece(SqA1, SqD1)
		case SqG8:
			b.movePiece(SqH8, SqF8)
		case SqC8:
			b.movePiece(SqA8, SqD8)
		default:
			panic("Make: invalid castle destination")
		}
	}

	newCastling := b.castling & castlingMask[from] & castlingMask[to]
	b.setCastling(newCastling)

	if m.IsDoublePush() {
		b.setEpSquare(to.To(Direction(myColor.Flip().MoveDirection()) * North))
	} else {
		b.setEpSquare(SqNone)
	}

	b.side = b.side.Flip()
	b.hash ^= Key(zobristBase.side)
	b.lock ^= lockBase.side
	if myColor == Black {
		b.fullmove++
	}

	return u
}

// Unmake reverses the move described by u, restoring the board exactly
// to its state before the corresponding Make call.
func (b *Board) Unmake(u Undo) {
	m := u.Move
	from, to := m.From(), m.To()

	b.side = b.side.Flip()
	myColor := b.side

	if m.IsCastle() {
		switch to {
		case SqG1:
			b.movePiece(SqF1, SqH1)
		case SqC1:
			b.movePiece(SqD1, SqA1)
		case SqG8:
			b.movePiece(SqF8, SqH8)
		case SqC8:
			b.movePiece(SqD8, SqA8)
		default:
			panic("Unmake: invalid castle destination")
		}
	}

	if m.IsPromotion() {
		b.removePiece(to)
		b.putPiece(MakePiece(myColor, Pawn), from)
	} else {
		b.movePiece(to, from)
	}

	if m.IsEnPassant() {
		capSq := to.To(Direction(myColor.Flip().MoveDirection()) * North)
		b.putPiece(u.Captured, capSq)
	} else if u.Captured != PieceNone {
		b.putPiece(u.Captured, to)
	}

	b.castling = u.PrevCastling
	b.epSquare = u.PrevEpSquare
	b.halfmove = u.PrevHalfmove
	b.fullmove = u.PrevFullmove
	b.hash = u.PrevHash
	b.lock = u.PrevLock
	b.pawnHash = u.PrevPawnHash
}

// IsSquareEmpty reports whether sq holds no piece. sq must be valid.
func (b *Board) IsSquareEmpty(sq Square) bool {
	return b.squares[sq] == PieceNone
}

// String returns the FEN of the current position followed by a simple
// 8x8 board diagram.
func (b *Board) String() string {
	var os strings.Builder
	os.WriteString(b.Fen())
	os.WriteString("\n")
	os.WriteString("+---+---+---+---+---+---+---+---+\n")
	for r := Rank8; r >= Rank1; r-- {
		for f := FileA; f <= FileH; f++ {
			os.WriteString("| ")
			os.WriteString(b.squares[SquareOf(f, r)].String())
			os.WriteString(" ")
		}
		os.WriteString("|\n+---+---+---+---+---+---+---+---+\n")
		if r == Rank1 {
			break
		}
	}
	return os.String()
}

// Fen returns the FEN string of the current position.
func (b *Board) Fen() string {
	var fen strings.Builder
	for r := Rank8; ; r-- {
		empty := 0
		for f := FileA; f <= FileH; f++ {
			pc := b.squares[SquareOf(f, r)]
			if pc == PieceNone {
				empty++
				continue
			}
			if empty > 0 {
				fen.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			fen.WriteString(pc.String())
		}
		if empty > 0 {
			fen.WriteString(strconv.Itoa(empty))
		}
		if r == Rank1 {
			break
		}
		fen.WriteString("/")
	}
	fen.WriteString(" ")
	fen.WriteString(b.side.Str())
	fen.WriteString(" ")
	fen.WriteString(b.castling.String())
	fen.WriteString(" ")
	fen.WriteString(b.epSquare.String())
	fen.WriteString(" ")
	fen.WriteString(strconv.Itoa(b.halfmove))
	fen.WriteString(" ")
	fen.WriteString(strconv.Itoa(b.fullmove))
	return fen.String()
}

// setupFromFen resets the board to empty and loads the given FEN,
// rejecting malformed piece placement or an invalid king count
// deterministically rather than normalizing silently.
func (b *Board) setupFromFen(fen string) error {
	*b = Board{}
	for i := range b.pieceIndex {
		b.pieceIndex[i] = noPieceIdx
	}
	b.epSquare = SqNone

	fen = strings.TrimSpace(fen)
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return errors.New("fen must not be empty")
	}

	rank := Rank8
	file := FileA
	for _, c := range parts[0] {
		switch {
		case c >= '1' && c <= '8':
			file += File(c - '0')
		case c == '/':
			if file != FileLength {
				return fmt.Errorf("fen rank does not sum to 8 files: %s", parts[0])
			}
			if rank == Rank1 {
				return fmt.Errorf("fen has too many ranks: %s", parts[0])
			}
			rank--
			file = FileA
		default:
			pc := pieceFromChar(c)
			if pc == PieceNone {
				return fmt.Errorf("invalid piece character in fen: %q", string(c))
			}
			if file > FileH {
				return errors.New("fen rank overruns 8 files")
			}
			b.putPiece(pc, SquareOf(file, rank))
			file++
		}
	}
	if file != FileLength || rank != Rank1 {
		return fmt.Errorf("fen does not describe exactly 8 ranks of 8 files: %s", parts[0])
	}
	if b.pieceCount[White] == 0 || b.pieceCount[Black] == 0 ||
		b.kingSq[White] == SqNone || b.kingSq[Black] == SqNone {
		return errors.New("fen position must have exactly one king per side")
	}
	whiteKings, blackKings := 0, 0
	for i := 0; i < b.pieceCount[White]; i++ {
		if b.squares[b.pieceList[White][i]].TypeOf() == King {
			whiteKings++
		}
	}
	for i := 0; i < b.pieceCount[Black]; i++ {
		if b.squares[b.pieceList[Black][i]].TypeOf() == King {
			blackKings++
		}
	}
	if whiteKings != 1 || blackKings != 1 {
		return fmt.Errorf("fen position must have exactly one king per side, got white=%d black=%d", whiteKings, blackKings)
	}

	b.side = White
	b.fullmove = 1

	if len(parts) >= 2 {
		switch parts[1] {
		case "w":
			b.side = White
		case "b":
			b.side = Black
			b.hash ^= Key(zobristBase.side)
			b.lock ^= lockBase.side
		default:
			return fmt.Errorf("invalid side to move in fen: %q", parts[1])
		}
	}

	if len(parts) >= 3 && parts[2] != "-" {
		var cr CastlingRights
		for _, c := range parts[2] {
			switch c {
			case 'K':
				cr.Add(CastlingWhiteOO)
			case 'Q':
				cr.Add(CastlingWhiteOOO)
			case 'k':
				cr.Add(CastlingBlackOO)
			case 'q':
				cr.Add(CastlingBlackOOO)
			default:
				return fmt.Errorf("invalid castling rights in fen: %q", parts[2])
			}
		}
		b.castling = cr
		b.hash ^= Key(zobristBase.castling[b.castling])
		b.lock ^= lockBase.castling[b.castling]
	}

	if len(parts) >= 4 && parts[3] != "-" {
		sq := MakeSquare(parts[3])
		if sq == SqNone {
			return fmt.Errorf("invalid en passant square in fen: %q", parts[3])
		}
		b.epSquare = sq
		b.hash ^= Key(zobristBase.epFile[sq.FileOf()])
		b.lock ^= lockBase.epFile[sq.FileOf()]
	}

	if len(parts) >= 5 {
		n, err := strconv.Atoi(parts[4])
		if err != nil {
			return fmt.Errorf("invalid halfmove clock in fen: %q", parts[4])
		}
		b.halfmove = n
	}

	if len(parts) >= 6 {
		n, err := strconv.Atoi(parts[5])
		if err != nil {
			return fmt.Errorf("invalid fullmove number in fen: %q", parts[5])
		}
		if n == 0 {
			n = 1
		}
		b.fullmove = n
	}

	return nil
}

var charToPieceType = map[rune]PieceType{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

func pieceFromChar(c rune) Piece {
	lower := c
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
	} else {
		lower = c + ('a' - 'A')
	}
	pt, ok := charToPieceType[lower]
	if !ok {
		return PieceNone
	}
	return MakePiece(color, pt)
}
