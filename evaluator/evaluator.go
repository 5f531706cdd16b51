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

// Package evaluator scores a position in centipawns from the side-to-move's
// perspective, starting from the incremental material+PST sums the board
// already maintains and layering on bishop pair, tempo, pawn structure,
// rook file placement, minor-piece mobility and king pawn shield before
// tapering between middlegame and endgame weights.
package evaluator

import (
	"math/bits"

	"github.com/corvidchess/engine/config"
	"github.com/corvidchess/engine/position"
	. "github.com/corvidchess/engine/types"
)

// Evaluator holds no state of its own; a value receiver would do just as
// well, but a struct keeps the door open for a future pawn hash table
// without changing the call sites.
type Evaluator struct{}

// NewEvaluator creates a new Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate scores b in centipawns from the perspective of the side to
// move: positive favors the mover. All work below accumulates a
// White-minus-Black differential in mg/eg; only the final tapered blend
// is flipped for Black to move.
func (e *Evaluator) Evaluate(b *position.Board) Value {
	mgW, egW := b.MaterialEgMg(White)
	mgB, egB := b.MaterialEgMg(Black)
	mg := mgW - mgB
	eg := egW - egB

	if b.BishopCount(White) >= 2 {
		mg += config.Settings.Eval.BishopPairMG
		eg += config.Settings.Eval.BishopPairEG
	}
	if b.BishopCount(Black) >= 2 {
		mg -= config.Settings.Eval.BishopPairMG
		eg -= config.Settings.Eval.BishopPairEG
	}

	if b.Side() == White {
		mg += config.Settings.Eval.Tempo
		eg += config.Settings.Eval.Tempo
	} else {
		mg -= config.Settings.Eval.Tempo
		eg -= config.Settings.Eval.Tempo
	}

	pawnsByFile, pawnAttack := buildPawnData(b)

	mg, eg = evalPawnStructure(b, pawnsByFile, mg, eg)
	mg, eg = evalRookFiles(b, pawnsByFile, mg, eg)
	mg, eg = evalMobility(b, pawnAttack, mg, eg)
	mg = evalKingShield(b, mg)

	phase := b.Phase()
	if phase > GamePhaseMax {
		phase = GamePhaseMax
	}
	if phase < 0 {
		phase = 0
	}
	score := (mg*phase + eg*(GamePhaseMax-phase)) / GamePhaseMax

	if b.Side() == Black {
		score = -score
	}
	if score > int(ValueMax) {
		score = int(ValueMax)
	} else if score < int(ValueMin) {
		score = int(ValueMin)
	}
	return Value(score)
}

// buildPawnData makes one pass over both piece lists, producing per-file
// rank bitmasks (bit i set means a pawn of that color sits on absolute
// rank i of that file, rank 1 being bit 0, for both colors) and a 128-square attack bitmap with bit 0 set
// where White's pawns attack and bit 1 where Black's do.
func buildPawnData(b *position.Board) (pawnsByFile [2][8]uint8, pawnAttack [BoardSize]uint8) {
	for c := White; c <= Black; c++ {
		forward := Direction(c.MoveDirection()) * North
		for _, sq := range b.PieceList(c) {
			if b.PieceOn(sq).TypeOf() != Pawn {
				continue
			}
			pawnsByFile[c][sq.FileOf()] |= 1 << uint(sq.RankOf())
			for _, d := range [2]Direction{forward + East, forward + West} {
				if to := sq.To(d); to != SqNone {
					pawnAttack[to] |= 1 << uint(c)
				}
			}
		}
	}
	return
}

// relativeRank returns sq's rank as seen by c: 0 on c's own back rank,
// 7 on the promotion rank. The connected/passed-pawn bonus tables are
// indexed by this value.
func relativeRank(c Color, sq Square) int {
	if c == White {
		return int(sq.RankOf())
	}
	return 7 - int(sq.RankOf())
}

// aheadMask returns the bitmask of ranks strictly ahead of rank from c's
// point of view, for testing a file's pawnsByFile bitmask against "any
// rank ahead".
func aheadMask(c Color, rank Rank) uint8 {
	if c == White {
		if rank >= Rank8 {
			return 0
		}
		return uint8(0xFF << (uint(rank) + 1))
	}
	if rank <= Rank1 {
		return 0
	}
	return uint8(1<<uint(rank)) - 1
}

func evalPawnStructure(b *position.Board, pawnsByFile [2][8]uint8, mg, eg int) (int, int) {
	for c := White; c <= Black; c++ {
		opp := c.Flip()
		sign := 1
		if c == Black {
			sign = -1
		}
		backward := Direction(c.Flip().MoveDirection()) * North

		for _, sq := range b.PieceList(c) {
			if b.PieceOn(sq).TypeOf() != Pawn {
				continue
			}
			f := sq.FileOf()

			if bits.OnesCount8(pawnsByFile[c][f]) > 1 {
				mg -= sign * config.Settings.Eval.PawnDoubledPenalty
				eg -= sign * config.Settings.Eval.PawnDoubledPenalty
			}

			isolated := true
			if f > FileA && pawnsByFile[c][f-1] != 0 {
				isolated = false
			}
			if f < FileH && pawnsByFile[c][f+1] != 0 {
				isolated = false
			}
			if isolated {
				mg -= sign * config.Settings.Eval.PawnIsolatedPenalty
				eg -= sign * config.Settings.Eval.PawnIsolatedPenalty
			}

			connected := false
			for _, d := range [2]Direction{backward + East, backward + West} {
				behind := sq.To(d)
				if behind == SqNone {
					continue
				}
				p := b.PieceOn(behind)
				if p != PieceNone && p.ColorOf() == c && p.TypeOf() == Pawn {
					connected = true
					break
				}
			}
			if connected {
				bonus := config.Settings.Eval.PawnConnectedBonus[relativeRank(c, sq)]
				mg += sign * bonus
				eg += sign * bonus
			}

			passed := true
			ahead := aheadMask(c, sq.RankOf())
			for ff := f - 1; ff <= f+1; ff++ {
				if ff < FileA || ff > FileH {
					continue
				}
				if pawnsByFile[opp][ff]&ahead != 0 {
					passed = false
					break
				}
			}
			if passed {
				bonus := config.Settings.Eval.PawnPassedBonus[relativeRank(c, sq)]
				mg += sign * bonus
				eg += sign * bonus
			}
		}
	}
	return mg, eg
}

func evalRookFiles(b *position.Board, pawnsByFile [2][8]uint8, mg, eg int) (int, int) {
	for c := White; c <= Black; c++ {
		sign := 1
		if c == Black {
			sign = -1
		}
		for _, sq := range b.PieceList(c) {
			if b.PieceOn(sq).TypeOf() != Rook {
				continue
			}
			f := sq.FileOf()
			whitePawns := pawnsByFile[White][f] != 0
			blackPawns := pawnsByFile[Black][f] != 0
			switch {
			case !whitePawns && !blackPawns:
				mg += sign * config.Settings.Eval.RookOpenFileBonus
				eg += sign * config.Settings.Eval.RookOpenFileBonus
			case pawnsByFile[c][f] == 0:
				mg += sign * config.Settings.Eval.RookSemiOpenFileBonus
				eg += sign * config.Settings.Eval.RookSemiOpenFileBonus
			}
		}
	}
	return mg, eg
}

func evalMobility(b *position.Board, pawnAttack [BoardSize]uint8, mg, eg int) (int, int) {
	for c := White; c <= Black; c++ {
		opp := c.Flip()
		sign := 1
		if c == Black {
			sign = -1
		}
		for _, sq := range b.PieceList(c) {
			switch b.PieceOn(sq).TypeOf() {
			case Knight:
				count := 0
				for _, d := range KnightDirs {
					to := sq.To(d)
					if to == SqNone {
						continue
					}
					if target := b.PieceOn(to); target != PieceNone && target.ColorOf() == c {
						continue
					}
					if pawnAttack[to]&(1<<uint(opp)) != 0 {
						continue
					}
					count++
				}
				if count > 8 {
					count = 8
				}
				bonus := config.Settings.Eval.KnightMobilityBonus[count]
				mg += sign * bonus
				eg += sign * bonus
			case Bishop:
				count := 0
				for _, d := range BishopDirs {
					for to := sq.To(d); to != SqNone; to = to.To(d) {
						target := b.PieceOn(to)
						if target != PieceNone && target.ColorOf() == c {
							break
						}
						if pawnAttack[to]&(1<<uint(opp)) == 0 {
							count++
						}
						if target != PieceNone {
							break
						}
					}
				}
				if count > 13 {
					count = 13
				}
				bonus := config.Settings.Eval.BishopMobilityBonus[count]
				mg += sign * bonus
				eg += sign * bonus
			}
		}
	}
	return mg, eg
}

func evalKingShield(b *position.Board, mg int) int {
	for c := White; c <= Black; c++ {
		sign := 1
		if c == Black {
			sign = -1
		}
		ksq := b.KingSquare(c)
		forward := Direction(c.MoveDirection()) * North
		for _, d := range [3]Direction{forward + West, forward, forward + East} {
			sq := ksq.To(d)
			if sq == SqNone {
				continue
			}
			p := b.PieceOn(sq)
			if p != PieceNone && p.ColorOf() == c && p.TypeOf() == Pawn {
				mg += sign * config.Settings.Eval.ShieldMG
			}
		}
	}
	return mg
}
