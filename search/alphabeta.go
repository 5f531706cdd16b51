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
	"math/rand"
	"time"

	"github.com/corvidchess/engine/config"
	"github.com/corvidchess/engine/movearray"
	"github.com/corvidchess/engine/movegen"
	"github.com/corvidchess/engine/position"
	"github.com/corvidchess/engine/transpositiontable"
	. "github.com/corvidchess/engine/types"
	"github.com/corvidchess/engine/util"
)

// move ordering score tiers. SetValue packs the score into the high bits
// of the Move itself and MoveArray.Sort compares the raw uint64, so every
// literal used here must stay inside [ValueMin, ValueMax] or the sort
// order after SetValue breaks.
const (
	ttMoveScore      = 9000
	killer1Score     = 4000
	killer2Score     = 3800
	captureBaseScore = 5000
	captureClamp     = 900
	historyClamp     = 2000
)

// lmpMaxDepth bounds late move pruning to shallow depths, where a quiet
// move far down an already-ordered list is least likely to matter.
const lmpMaxDepth = 8

// iterativeDeepening searches the position one ply deeper at a time until
// a search limit is hit or the position is proven mate/stalemate. It
// always returns a usable Result, even if only depth 1 completed.
func (s *Search) iterativeDeepening(b *position.Board, sl *Limits) *Result {
	result := &Result{}

	s.rootMoves.Clear()
	legal := s.gens[0].GenerateLegal(b, movegen.GenAll)
	legal.ForEach(func(i int) {
		m := legal.At(i)
		if sl.Moves.Len() > 0 && !containsMove(&sl.Moves, m) {
			return
		}
		s.rootMoves.PushBack(m)
	})

	if s.rootMoves.Len() == 0 {
		// no legal move: checkmate or stalemate at the root
		result.BestMove = MoveNone
		if movegen.IsInCheck(b, b.Side()) {
			result.BestValue = -ValueCheckMate
		} else {
			result.BestValue = ValueDraw
		}
		return result
	}

	s.searchPath = append(s.searchPath[:0], s.gameHistory...)
	s.searchPath = append(s.searchPath, b.Hash())

	maxDepth := MaxDepth - 1
	if sl.Depth > 0 && sl.Depth < maxDepth {
		maxDepth = sl.Depth
	}

	bestValue := ValueNA
	for depth := 1; depth <= maxDepth; depth++ {
		s.curDepth = depth
		s.curExtraDepth = depth

		value := s.rootSearch(b, depth, -ValueInf, ValueInf)

		if s.stopFlag && depth > 1 {
			// partial iteration: keep the previous iteration's result
			break
		}

		bestValue = value
		pv := s.pv[0]
		result.BestMove = pv.Front()
		result.BestValue = bestValue
		result.SearchDepth = depth
		result.ExtraDepth = s.curExtraDepth
		result.Pv = movearray.New(pv.Len())
		pv.ForEach(func(i int) { result.Pv.PushBack(pv.At(i)) })
		if pv.Len() > 1 {
			result.PonderMove = pv.At(1)
		} else {
			result.PonderMove = MoveNone
		}

		if s.uciHandlerPtr != nil {
			s.uciHandlerPtr.SendIterationEndInfo(depth, s.curExtraDepth, bestValue, uint64(s.nodesVisited),
				s.nps(), time.Since(s.startTime), result.Pv)
		}

		if s.stopFlag {
			break
		}
		if bestValue.IsCheckMateValue() {
			break
		}
	}

	if !s.stopFlag {
		// every rootMoves entry only carries a real search value (rather
		// than a leftover move-ordering score) once its own iteration has
		// run to completion without being interrupted mid-loop
		s.applyRootVariance(result)
	}

	result.SearchTime = time.Since(s.startTime)
	return result
}

// applyRootVariance optionally swaps the reported best move for another
// root move within RootVarianceCentipawns/RootEvalNoiseCentipawns of the
// best score, so the engine does not play the exact same move from the
// exact same position every time (useful for varying practice games).
// A no-op when both settings are zero, which is the default.
func (s *Search) applyRootVariance(result *Result) {
	threshold := Value(config.Settings.Search.RootVarianceCentipawns + config.Settings.Search.RootEvalNoiseCentipawns)
	if threshold <= 0 || s.rootMoves.Len() <= 1 {
		return
	}
	var candidates []Move
	for i := 0; i < s.rootMoves.Len(); i++ {
		m := s.rootMoves.At(i)
		if result.BestValue-m.ValueOf() <= threshold {
			candidates = append(candidates, m.MoveOf())
		}
	}
	if len(candidates) <= 1 {
		return
	}
	pick := candidates[rand.Intn(len(candidates))]
	if !movesMatch(pick, result.BestMove) {
		result.BestMove = pick
		result.PonderMove = MoveNone
	}
}

func containsMove(ml *movearray.MoveArray, m Move) bool {
	found := false
	ml.ForEach(func(i int) {
		if movesMatch(ml.At(i), m) {
			found = true
		}
	})
	return found
}

// rootSearch is the PVS search at ply 0. It is separate from search()
// because the root needs to remember a score per root move (for next
// iteration's move ordering) and because the root move list has already
// been generated and filtered by iterativeDeepening.
func (s *Search) rootSearch(b *position.Board, depth int, alpha, beta Value) Value {
	s.scoreRootMoves(b)
	s.rootMoves.Sort()

	bestValue := -ValueInf
	movesSearched := 0

	for i := 0; i < s.rootMoves.Len(); i++ {
		move := s.rootMoves.At(i).MoveOf()

		if s.stopConditions() {
			break
		}

		if s.uciHandlerPtr != nil {
			s.uciHandlerPtr.SendCurrentRootMove(move, i+1)
		}

		u := b.Make(move)
		s.nodesVisited++
		s.searchPath = append(s.searchPath, b.Hash())

		var value Value
		if movesSearched == 0 {
			value = -s.search(b, depth-1, 1, -beta, -alpha, true, true)
		} else {
			value = -s.search(b, depth-1, 1, -alpha-1, -alpha, false, true)
			if value > alpha && value < beta {
				s.statistics.RootPvsResearches++
				value = -s.search(b, depth-1, 1, -beta, -alpha, true, true)
			}
		}

		s.searchPath = s.searchPath[:len(s.searchPath)-1]
		b.Unmake(u)
		movesSearched++

		newMove := move.MoveOf()
		newMove.SetValue(value)
		s.rootMoves.Set(i, newMove)

		if value > bestValue {
			bestValue = value
			if value > alpha {
				alpha = value
				s.savePV(move, &s.pv[1], &s.pv[0])
				if value >= beta {
					break
				}
			}
		}
	}

	return bestValue
}

// search is the main negamax alpha-beta recursion below the root.
func (s *Search) search(b *position.Board, depth, ply int, alpha, beta Value, isPV, doNull bool) Value {
	if s.stopConditions() {
		return alpha
	}

	s.pv[ply].Clear()

	if ply > s.curExtraDepth {
		s.curExtraDepth = ply
	}

	if repetition, otherDraw := s.checkDraw(b); repetition || otherDraw {
		if repetition {
			s.statistics.DrawsByRepetition++
		} else {
			s.statistics.Draws50Move++
		}
		return ValueDraw
	}

	// mate distance pruning: no line through this node can possibly
	// improve on a mate already found closer to the root
	matingValue := ValueCheckMate - Value(ply)
	if matingValue < beta {
		beta = matingValue
		if alpha >= matingValue {
			s.statistics.Mdp++
			return matingValue
		}
	}
	matingValue = -ValueCheckMate + Value(ply)
	if matingValue > alpha {
		alpha = matingValue
		if beta <= matingValue {
			s.statistics.Mdp++
			return matingValue
		}
	}

	if depth <= 0 || ply >= MaxDepth {
		return s.qsearch(b, ply, alpha, beta, isPV, MoveNone)
	}

	inCheck := movegen.IsInCheck(b, b.Side())

	var ttMove Move
	origAlpha := alpha
	if score, move, ttDepth, flag, ok := s.tt.Probe(b.Hash(), b.Lock()); ok {
		s.statistics.TTHit++
		ttMove = move
		if !isPV && ttDepth >= depth {
			ttValue := valueFromTT(score, ply)
			switch flag {
			case transpositiontable.FlagExact:
				s.statistics.TTCuts++
				return ttValue
			case transpositiontable.FlagAlpha:
				if ttValue <= alpha {
					s.statistics.TTCuts++
					return alpha
				}
			case transpositiontable.FlagBeta:
				if ttValue >= beta {
					s.statistics.TTCuts++
					return beta
				}
			}
		}
		s.statistics.TTNoCuts++
	} else {
		s.statistics.TTMiss++
	}

	// null move pruning: if we can skip our move entirely and still fail
	// high, the position is so good a real move will too (assumes doing
	// something is at least as good as doing nothing, which breaks down
	// in zugzwang positions, hence the material guard below)
	if doNull && !isPV && !inCheck && depth >= nullMoveMinDepth &&
		config.Settings.Search.UseNullMove && b.NonPawnMaterialCount(b.Side()) > 0 {
		reduction := config.Settings.Search.NullMoveR
		if depth > 6 {
			reduction++
		}
		nu := b.MakeNull()
		s.searchPath = append(s.searchPath, b.Hash())
		nullValue := -s.search(b, depth-1-reduction, ply+1, -beta, -beta+1, false, false)
		s.searchPath = s.searchPath[:len(s.searchPath)-1]
		b.UnmakeNull(nu)
		if s.stopFlag {
			return alpha
		}
		if nullValue >= beta && !nullValue.IsCheckMateValue() {
			s.statistics.NullMoveCuts++
			return beta
		}
	}

	moves := s.gens[ply].GenerateLegal(b, movegen.GenAll)
	if moves.Len() == 0 {
		if inCheck {
			s.statistics.Checkmates++
			return -ValueCheckMate + Value(ply)
		}
		s.statistics.Stalemates++
		return ValueDraw
	}

	s.scoreMoves(moves, ttMove, ply, b)
	moves.Sort()

	bestValue := -ValueInf
	bestMove := MoveNone
	movesSearched := 0

	for i := 0; i < moves.Len(); i++ {
		move := moves.At(i).MoveOf()

		isQuiet := !move.IsCapture() && !move.IsPromotion() && !move.IsCastle()
		isKiller := move == s.killers[ply][0] || move == s.killers[ply][1]

		// late move pruning: deep into the quiet tail of an already-sorted
		// move list at shallow depth, further quiet moves are vanishingly
		// unlikely to beat alpha, so skip them without searching at all
		if isQuiet && !isPV && !isKiller && !inCheck && depth <= lmpMaxDepth &&
			movesSearched >= LmpMovesSearched(depth) {
			s.statistics.LmpCuts++
			continue
		}

		u := b.Make(move)
		s.nodesVisited++
		s.searchPath = append(s.searchPath, b.Hash())

		givesCheck := movegen.IsInCheck(b, b.Side())

		newDepth := depth - 1
		reduction := 0
		if config.Settings.Search.UseLMR && isQuiet && !isPV && !isKiller &&
			depth >= config.Settings.Search.LMRMinDepth &&
			movesSearched >= config.Settings.Search.LMRMinMoveNumber &&
			!inCheck && !givesCheck {
			reduction = LmrReduction(depth, movesSearched)
			s.statistics.LmrReductions++
		}

		var value Value
		if movesSearched == 0 {
			value = -s.search(b, newDepth, ply+1, -beta, -alpha, isPV, true)
		} else {
			value = -s.search(b, newDepth-reduction, ply+1, -alpha-1, -alpha, false, true)
			if reduction > 0 && value > alpha {
				s.statistics.LmrResearches++
				value = -s.search(b, newDepth, ply+1, -alpha-1, -alpha, false, true)
			}
			if value > alpha && value < beta {
				s.statistics.PvsResearches++
				value = -s.search(b, newDepth, ply+1, -beta, -alpha, true, true)
			}
		}

		s.searchPath = s.searchPath[:len(s.searchPath)-1]
		b.Unmake(u)
		movesSearched++

		if s.stopFlag {
			return alpha
		}

		if value > bestValue {
			bestValue = value
			bestMove = move
			if value > alpha {
				alpha = value
				s.savePV(move, &s.pv[ply+1], &s.pv[ply])
				if value >= beta {
					s.statistics.BetaCuts++
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					if isQuiet {
						s.storeKiller(ply, move)
						s.updateHistory(b.Side(), move, depth)
					}
					break
				}
			}
		}
	}

	var flag transpositiontable.Flag
	switch {
	case bestValue <= origAlpha:
		flag = transpositiontable.FlagAlpha
	case bestValue >= beta:
		flag = transpositiontable.FlagBeta
	default:
		flag = transpositiontable.FlagExact
	}
	s.tt.Store(b.Hash(), b.Lock(), valueToTT(bestValue, ply), bestMove, depth, flag)

	return bestValue
}

// qsearch extends the search along capture/promotion sequences until the
// position is quiet, avoiding the horizon effect of cutting a search off
// mid-exchange.
func (s *Search) qsearch(b *position.Board, ply int, alpha, beta Value, isPV bool, lastMove Move) Value {
	if s.stopConditions() {
		return alpha
	}

	s.pv[ply].Clear()
	if ply > s.curExtraDepth {
		s.curExtraDepth = ply
	}

	if repetition, otherDraw := s.checkDraw(b); repetition || otherDraw {
		return ValueDraw
	}

	inCheck := movegen.IsInCheck(b, b.Side())

	var standPat Value
	if !inCheck {
		standPat = s.evaluate(b)
		s.statistics.Evaluations++
		if config.Settings.Search.UseQSStandpat {
			if standPat >= beta {
				s.statistics.StandpatCuts++
				return beta
			}
			if standPat > alpha {
				alpha = standPat
			}
		}
	}

	if ply >= MaxDepth {
		return standPat
	}

	// GenCap alone would miss non-capturing promotions, so even outside
	// check we generate everything and filter down to the tactical subset.
	moves := s.gens[ply].GenerateLegal(b, movegen.GenAll)
	if !inCheck {
		moves.Filter(func(i int) bool {
			m := moves.At(i)
			return m.IsCapture() || m.IsPromotion()
		})
	}

	if moves.Len() == 0 {
		if inCheck {
			s.statistics.Checkmates++
			return -ValueCheckMate + Value(ply)
		}
		return alpha
	}

	s.scoreMoves(moves, MoveNone, ply, b)
	moves.Sort()

	bestValue := standPat
	if inCheck {
		bestValue = -ValueInf
	}
	movesSearched := 0

	for i := 0; i < moves.Len(); i++ {
		move := moves.At(i).MoveOf()

		if !inCheck && !s.goodCapture(b, move, lastMove) {
			continue
		}

		u := b.Make(move)
		s.nodesVisited++
		s.statistics.LeafPositionsEvaluated++

		value := -s.qsearch(b, ply+1, -beta, -alpha, isPV, move)

		b.Unmake(u)
		movesSearched++

		if s.stopFlag {
			return alpha
		}

		if value > bestValue {
			bestValue = value
			if value > alpha {
				alpha = value
				s.savePV(move, &s.pv[ply+1], &s.pv[ply])
				if value >= beta {
					s.statistics.BetaCuts++
					break
				}
			}
		}
	}

	if inCheck && movesSearched == 0 {
		s.statistics.Checkmates++
		return -ValueCheckMate + Value(ply)
	}

	return bestValue
}

// evaluate returns the static evaluation of b from the perspective of
// the side to move.
func (s *Search) evaluate(b *position.Board) Value {
	return s.eval.Evaluate(b)
}

// goodCapture filters out captures in quiescence search that are very
// unlikely to help: a losing trade is not worth exploring unless it is a
// recapture on the square the last move just captured on, or the
// captured piece is undefended.
func (s *Search) goodCapture(b *position.Board, move Move, lastMove Move) bool {
	if move.IsPromotion() {
		return true
	}
	attacker := b.PieceOn(move.From()).TypeOf()
	victim := b.PieceOn(move.To()).TypeOf()
	if victim.ValueOf() >= attacker.ValueOf() {
		return true
	}
	if lastMove != MoveNone && lastMove.To() == move.To() {
		return true
	}
	return !movegen.IsSquareAttacked(b, move.To(), b.Side().Flip())
}

// scoreMoves assigns each move a sort-safe value used to order the move
// loop: TT move first, then captures by MVV/LVA, then killers, then
// quiet moves by history score.
func (s *Search) scoreMoves(moves *movearray.MoveArray, ttMove Move, ply int, b *position.Board) {
	side := b.Side()
	moves.ForEach(func(i int) {
		m := moves.At(i)
		var score int
		switch {
		case ttMove != MoveNone && movesMatch(m, ttMove):
			score = ttMoveScore
		case m.IsCapture():
			attacker := b.PieceOn(m.From()).TypeOf().ValueOf()
			victim := b.PieceOn(m.To()).TypeOf().ValueOf()
			score = captureBaseScore + clampInt(victim-attacker, -captureClamp, captureClamp)
		case m == s.killers[ply][0]:
			score = killer1Score
		case m == s.killers[ply][1]:
			score = killer2Score
		default:
			score = clampInt(int(s.history[side][m.From().Idx64()][m.To().Idx64()]), 0, historyClamp)
		}
		scored := m.MoveOf()
		scored.SetValue(Value(score))
		moves.Set(i, scored)
	})
}

// scoreRootMoves scores the root move list the same way as scoreMoves but
// uses the PV move from the previous iteration as the preferred move, so
// that within a score tier yesterday's best move is tried first.
func (s *Search) scoreRootMoves(b *position.Board) {
	s.scoreMoves(&s.rootMoves, s.pv[0].Front(), 0, b)
}

// storeKiller records a quiet move that caused a beta cutoff at ply, for
// move ordering at sibling nodes of the same ply.
func (s *Search) storeKiller(ply int, move Move) {
	if s.killers[ply][0] == move {
		return
	}
	s.killers[ply][1] = s.killers[ply][0]
	s.killers[ply][0] = move
}

// updateHistory rewards a quiet move that caused a beta cutoff, indexed
// by the side that played it.
func (s *Search) updateHistory(side Color, move Move, depth int) {
	bonus := int32(depth * depth)
	h := &s.history[side][move.From().Idx64()][move.To().Idx64()]
	*h += bonus
	if *h > 1<<20 {
		for c := range s.history {
			for f := range s.history[c] {
				for t := range s.history[c][f] {
					s.history[c][f][t] /= 2
				}
			}
		}
	}
}

// checkDraw reports whether b is a draw by threefold repetition, by the
// fifty-move rule or by insufficient mating material (isInsufficientMaterial);
// the last two are reported as otherDraw.
func (s *Search) checkDraw(b *position.Board) (repetition bool, otherDraw bool) {
	if b.HalfmoveClock() >= 100 {
		return false, true
	}
	if isInsufficientMaterial(b) {
		return false, true
	}
	hash := b.Hash()
	occurrences := 0
	limit := len(s.searchPath) - 1 - b.HalfmoveClock()
	if limit < 0 {
		limit = 0
	}
	for i := len(s.searchPath) - 2; i >= limit; i-- {
		if s.searchPath[i] == hash {
			occurrences++
		}
	}
	return occurrences >= 2, false
}

// isInsufficientMaterial is a conservative check for positions where no
// sequence of legal moves can lead to checkmate: king and at most one
// minor piece on each side, no pawns/rooks/queens anywhere. It does not
// special-case same vs. opposite-colored bishops.
func isInsufficientMaterial(b *position.Board) bool {
	for _, c := range []Color{White, Black} {
		for _, sq := range b.PieceList(c) {
			switch b.PieceOn(sq).TypeOf() {
			case Pawn, Rook, Queen:
				return false
			}
		}
	}
	return b.NonPawnMaterialCount(White) <= 1 && b.NonPawnMaterialCount(Black) <= 1
}

// savePV copies move followed by the remainder of src into dest, the
// standard way to propagate the principal variation one ply up.
func (s *Search) savePV(move Move, src, dest *movearray.MoveArray) {
	dest.Clear()
	dest.PushBack(move)
	src.ForEach(func(i int) { dest.PushBack(src.At(i)) })
}

// movesMatch compares two moves ignoring their embedded sort value and
// ignoring flags the transposition table does not store (capture/en
// passant/castle/double-push), since a move unpacked from the TT only
// carries from/to/promotion.
func movesMatch(a, b Move) bool {
	return a.From() == b.From() && a.To() == b.To() &&
		a.IsPromotion() == b.IsPromotion() && a.PromotionType() == b.PromotionType()
}

func clampInt(v, lo, hi int) int {
	return util.Max(lo, util.Min(hi, v))
}

// valueToTT adjusts a mate score so it is stored relative to the node it
// was found at rather than the root, since the same mate is a different
// number of plies away depending on where in the tree it is probed from.
func valueToTT(value Value, ply int) Value {
	if value >= ValueCheckMateThreshold {
		return value + Value(ply)
	}
	if value <= -ValueCheckMateThreshold {
		return value - Value(ply)
	}
	return value
}

// valueFromTT is the inverse of valueToTT.
func valueFromTT(value Value, ply int) Value {
	if value >= ValueCheckMateThreshold {
		return value - Value(ply)
	}
	if value <= -ValueCheckMateThreshold {
		return value + Value(ply)
	}
	return value
}
