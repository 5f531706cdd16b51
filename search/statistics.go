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

// //////////////////////////////////////////////////////
// Statistics
// //////////////////////////////////////////////////////

// Statistics holds counters gathered during a search. Not essential to a
// functioning search, useful for tuning move ordering and pruning.
type Statistics struct {
	NodesVisited           int64
	LeafPositionsEvaluated int64
	Evaluations            int64

	TTHit      int64
	TTMiss     int64
	TTCuts     int64
	TTNoCuts   int64
	TTMoveUsed int64
	NoTTMove   int64

	Mdp               int64
	NullMoveCuts      int64
	LmrReductions     int64
	LmrResearches     int64
	LmpCuts           int64
	PvsResearches     int64
	RootPvsResearches int64
	StandpatCuts      int64
	BetaCuts          int64
	BetaCuts1st       int64

	Checkmates        int64
	Stalemates        int64
	DrawsByRepetition int64
	Draws50Move       int64
}
