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

// Package movegen generates pseudo-legal moves on the 0x88 board and
// filters them down to legal moves via the make/is-attacked/unmake
// pattern. Generation always produces captures before quiet moves.
package movegen

import (
	"github.com/corvidchess/engine/movearray"
	"github.com/corvidchess/engine/position"
	. "github.com/corvidchess/engine/types"
)

// Mode selects which classes of pseudo-legal moves Generate produces.
type Mode int

// Generation modes. GenAll is the union of captures and quiet moves.
const (
	GenCap    Mode = 0b01
	GenNonCap Mode = 0b10
	GenAll    Mode = GenCap | GenNonCap
)

// quietBaseline is added to every non-capturing move's sort value so that,
// after a descending sort, even the worst capture (a king taking a pawn,
// value 100-2000 = -1900) still sorts ahead of every quiet move.
const quietBaseline = -10_000

// Generator holds reusable move buffers so callers are not forced to
// allocate a fresh MoveArray on every node visited during search.
type Generator struct {
	pseudoLegalMoves movearray.MoveArray
	legalMoves       movearray.MoveArray
}

// New creates a move generator with its buffers pre-sized.
func New() Generator {
	return Generator{
		pseudoLegalMoves: movearray.New(MaxMoves),
		legalMoves:       movearray.New(MaxMoves),
	}
}

// GeneratePseudoLegal fills out with every pseudo-legal move matching mode
// for the side to move, captures first. Legality with respect to leaving
// the own king in check is not checked; use GenerateLegal or IsLegal.
func (g *Generator) GeneratePseudoLegal(b *position.Board, mode Mode) *movearray.MoveArray {
	g.pseudoLegalMoves.Clear()
	Generate(b, mode, &g.pseudoLegalMoves)
	return &g.pseudoLegalMoves
}

// GenerateLegal fills out with every legal move matching mode: each
// pseudo-legal candidate is made, checked with IsLegal, and unmade.
func (g *Generator) GenerateLegal(b *position.Board, mode Mode) *movearray.MoveArray {
	g.legalMoves.Clear()
	pseudo := g.GeneratePseudoLegal(b, mode)
	mover := b.Side()
	pseudo.ForEach(func(i int) {
		m := pseudo.At(i)
		u := b.Make(m)
		if IsLegal(b, mover) {
			g.legalMoves.PushBack(m)
		}
		b.Unmake(u)
	})
	return &g.legalMoves
}

// Generate appends every pseudo-legal move matching mode to ml, then sorts
// all of ml (captures before quiet moves) and strips the sort values, so
// any prior content of ml is reordered along with the new moves (callers
// that want a fresh list must Clear it first).
func Generate(b *position.Board, mode Mode, ml *movearray.MoveArray) {
	generatePawnMoves(b, mode, ml)
	generateCastling(b, mode, ml)
	generateKingMoves(b, mode, ml)
	generateSlidingAndKnightMoves(b, mode, ml)
	ml.Sort()
	ml.ForEach(func(i int) {
		ml.Set(i, ml.At(i).MoveOf())
	})
}

func generatePawnMoves(b *position.Board, mode Mode, ml *movearray.MoveArray) {
	side := b.Side()
	forward := Direction(side.MoveDirection()) * North
	piece := MakePiece(side, Pawn)
	phase := b.Phase()

	promotionRank := Rank8
	startRank := Rank2
	if side == Black {
		promotionRank = Rank1
		startRank = Rank7
	}

	pieces := b.PieceList(side)

	if mode&GenCap != 0 {
		for _, from := range pieces {
			if b.PieceOn(from).TypeOf() != Pawn {
				continue
			}
			for _, dir := range [2]Direction{West, East} {
				to := from.To(forward + dir)
				if to == SqNone {
					continue
				}
				if to == b.EpSquare() {
					value := PstValue(piece, to, phase)
					ml.PushBack(CreateMoveValue(from, to, MoveFlag{Capture: true, EnPassant: true}, value))
					continue
				}
				captured := b.PieceOn(to)
				if captured == PieceNone || captured.ColorOf() == side {
					continue
				}
				value := captured.ValueOf() - piece.ValueOf() + PstValue(piece, to, phase)
				if to.RankOf() == promotionRank {
					pushPromotions(ml, from, to, MoveFlag{Capture: true}, value)
				} else {
					ml.PushBack(CreateMoveValue(from, to, MoveFlag{Capture: true}, value))
				}
			}
		}
	}

	if mode&GenNonCap != 0 {
		for _, from := range pieces {
			if b.PieceOn(from).TypeOf() != Pawn {
				continue
			}
			one := from.To(forward)
			if one == SqNone || !b.IsSquareEmpty(one) {
				continue
			}
			if one.RankOf() == promotionRank {
				pushPromotions(ml, from, one, MoveFlag{}, quietBaseline)
				continue
			}
			value := quietBaseline + PstValue(piece, one, phase)
			ml.PushBack(CreateMoveValue(from, one, MoveFlag{}, value))

			if from.RankOf() == startRank {
				two := one.To(forward)
				if two != SqNone && b.IsSquareEmpty(two) {
					value := quietBaseline + PstValue(piece, two, phase)
					ml.PushBack(CreateMoveValue(from, two, MoveFlag{DoublePush: true}, value))
				}
			}
		}
	}
}

func pushPromotions(ml *movearray.MoveArray, from, to Square, flags MoveFlag, baseValue int) {
	for _, pt := range [4]PieceType{Queen, Knight, Rook, Bishop} {
		f := flags
		f.Promotion = true
		f.PromoteTo = pt
		value := baseValue + pt.ValueOf()
		if pt == Rook || pt == Bishop {
			// queen promotion dominates in all but rare stalemate tricks;
			// keep rook/bishop promotions ordered behind it
			value -= 2000
		}
		ml.PushBack(CreateMoveValue(from, to, f, value))
	}
}

func generateCastling(b *position.Board, mode Mode, ml *movearray.MoveArray) {
	if mode&GenNonCap == 0 {
		return
	}
	side := b.Side()
	cr := b.Castling()
	if cr == CastlingNone {
		return
	}

	if side == White {
		if cr.Has(CastlingWhiteOO) && castlePathClear(b, SqE1, SqH1) &&
			castlePathSafe(b, Black, SqE1, SqF1, SqG1) {
			ml.PushBack(CreateMoveValue(SqE1, SqG1, MoveFlag{Castle: true}, quietBaseline+5000))
		}
		if cr.Has(CastlingWhiteOOO) && castlePathClear(b, SqA1, SqE1) &&
			castlePathSafe(b, Black, SqE1, SqD1, SqC1) {
			ml.PushBack(CreateMoveValue(SqE1, SqC1, MoveFlag{Castle: true}, quietBaseline+5000))
		}
	} else {
		if cr.Has(CastlingBlackOO) && castlePathClear(b, SqE8, SqH8) &&
			castlePathSafe(b, White, SqE8, SqF8, SqG8) {
			ml.PushBack(CreateMoveValue(SqE8, SqG8, MoveFlag{Castle: true}, quietBaseline+5000))
		}
		if cr.Has(CastlingBlackOOO) && castlePathClear(b, SqA8, SqE8) &&
			castlePathSafe(b, White, SqE8, SqD8, SqC8) {
			ml.PushBack(CreateMoveValue(SqE8, SqC8, MoveFlag{Castle: true}, quietBaseline+5000))
		}
	}
}

// castlePathClear reports whether every square strictly between a and b
// (exclusive) is empty.
func castlePathClear(b *position.Board, a, z Square) bool {
	lo, hi := a, z
	if lo > hi {
		lo, hi = hi, lo
	}
	for sq := lo + 1; sq < hi; sq++ {
		if !b.IsSquareEmpty(sq) {
			return false
		}
	}
	return true
}

// castlePathSafe reports that none of the given squares (the king's
// current square plus every square it crosses, including the destination)
// is attacked by the opposing side — required so the king is never in
// check before, during, or after castling.
func castlePathSafe(b *position.Board, opponent Color, squares ...Square) bool {
	for _, sq := range squares {
		if IsSquareAttacked(b, sq, opponent) {
			return false
		}
	}
	return true
}

func generateKingMoves(b *position.Board, mode Mode, ml *movearray.MoveArray) {
	side := b.Side()
	piece := MakePiece(side, King)
	phase := b.Phase()
	from := b.KingSquare(side)

	for _, d := range KingDirs {
		to := from.To(d)
		if to == SqNone {
			continue
		}
		target := b.PieceOn(to)
		if target == PieceNone {
			if mode&GenNonCap != 0 {
				value := quietBaseline + PstValue(piece, to, phase)
				ml.PushBack(CreateMoveValue(from, to, MoveFlag{}, value))
			}
		} else if target.ColorOf() != side {
			if mode&GenCap != 0 {
				value := target.ValueOf() - piece.ValueOf() + PstValue(piece, to, phase)
				ml.PushBack(CreateMoveValue(from, to, MoveFlag{Capture: true}, value))
			}
		}
	}
}

func generateSlidingAndKnightMoves(b *position.Board, mode Mode, ml *movearray.MoveArray) {
	side := b.Side()
	phase := b.Phase()

	for _, from := range b.PieceList(side) {
		pt := b.PieceOn(from).TypeOf()
		piece := MakePiece(side, pt)

		switch pt {
		case Knight:
			for _, d := range KnightDirs {
				to := from.To(d)
				if to == SqNone {
					continue
				}
				addSteppingMove(b, ml, mode, piece, from, to, phase)
			}
		case Bishop, Rook, Queen:
			var dirs []Direction
			switch pt {
			case Bishop:
				dirs = BishopDirs[:]
			case Rook:
				dirs = RookDirs[:]
			default:
				dirs = KingDirs[:]
			}
			for _, d := range dirs {
				for to := from.To(d); to != SqNone; to = to.To(d) {
					target := b.PieceOn(to)
					if target == PieceNone {
						if mode&GenNonCap != 0 {
							value := quietBaseline + PstValue(piece, to, phase)
							ml.PushBack(CreateMoveValue(from, to, MoveFlag{}, value))
						}
						continue
					}
					if target.ColorOf() != side && mode&GenCap != 0 {
						value := target.ValueOf() - piece.ValueOf() + PstValue(piece, to, phase)
						ml.PushBack(CreateMoveValue(from, to, MoveFlag{Capture: true}, value))
					}
					break
				}
			}
		}
	}
}

func addSteppingMove(b *position.Board, ml *movearray.MoveArray, mode Mode, piece Piece, from, to Square, phase int) {
	target := b.PieceOn(to)
	if target == PieceNone {
		if mode&GenNonCap != 0 {
			value := quietBaseline + PstValue(piece, to, phase)
			ml.PushBack(CreateMoveValue(from, to, MoveFlag{}, value))
		}
		return
	}
	if target.ColorOf() != piece.ColorOf() && mode&GenCap != 0 {
		value := target.ValueOf() - piece.ValueOf() + PstValue(piece, to, phase)
		ml.PushBack(CreateMoveValue(from, to, MoveFlag{Capture: true}, value))
	}
}

// CreateMoveValue builds a move with flags and an encoded sort value in a
// single call, saving generator code a separate SetValue round-trip.
func CreateMoveValue(from, to Square, flags MoveFlag, value int) Move {
	m := CreateMoveFlags(from, to, flags)
	m.SetValue(Value(value))
	return m
}

// IsSquareAttacked reports whether a piece of bySide could pseudo-legally
// capture on sq: same direction tables as move generation, with pawn
// attack squares mirrored for the attacking color.
func IsSquareAttacked(b *position.Board, sq Square, bySide Color) bool {
	pawnPiece := MakePiece(bySide, Pawn)
	backward := Direction(bySide.Flip().MoveDirection()) * North
	for _, dir := range [2]Direction{West, East} {
		from := sq.To(backward - dir)
		if from != SqNone && b.PieceOn(from) == pawnPiece {
			return true
		}
	}

	knightPiece := MakePiece(bySide, Knight)
	for _, d := range KnightDirs {
		from := sq.To(d)
		if from != SqNone && b.PieceOn(from) == knightPiece {
			return true
		}
	}

	kingPiece := MakePiece(bySide, King)
	for _, d := range KingDirs {
		from := sq.To(d)
		if from != SqNone && b.PieceOn(from) == kingPiece {
			return true
		}
	}

	bishopPiece := MakePiece(bySide, Bishop)
	queenPiece := MakePiece(bySide, Queen)
	for _, d := range BishopDirs {
		for from := sq.To(d); from != SqNone; from = from.To(d) {
			pc := b.PieceOn(from)
			if pc == PieceNone {
				continue
			}
			if pc == bishopPiece || pc == queenPiece {
				return true
			}
			break
		}
	}

	rookPiece := MakePiece(bySide, Rook)
	for _, d := range RookDirs {
		for from := sq.To(d); from != SqNone; from = from.To(d) {
			pc := b.PieceOn(from)
			if pc == PieceNone {
				continue
			}
			if pc == rookPiece || pc == queenPiece {
				return true
			}
			break
		}
	}

	return false
}

// IsLegal reports that, after a Make played by mover, mover's own king is
// not left in check.
func IsLegal(b *position.Board, mover Color) bool {
	return !IsSquareAttacked(b, b.KingSquare(mover), mover.Flip())
}

// IsInCheck reports whether c's king is currently attacked.
func IsInCheck(b *position.Board, c Color) bool {
	return IsSquareAttacked(b, b.KingSquare(c), c.Flip())
}
