/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
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

package config

// evalConfiguration holds the tunable weights consumed by package evaluator.
// Values here are data, tuned externally (e.g. by Texel tuning); the spec
// pins their shape, not their numeric defaults.
type evalConfiguration struct {
	Tempo int

	BishopPairMG int
	BishopPairEG int

	RookOpenFileBonus     int
	RookSemiOpenFileBonus int

	PawnDoubledPenalty  int
	PawnIsolatedPenalty int

	// PawnConnectedBonus and PawnPassedBonus are indexed by relative rank
	// (0..7, rank 0/7 unused — a pawn can't be connected or passed on its
	// own back rank or while already promoted).
	PawnConnectedBonus [8]int
	PawnPassedBonus    [8]int

	// KnightMobilityBonus is indexed by clamped mobility count 0..8,
	// BishopMobilityBonus by clamped mobility count 0..13.
	KnightMobilityBonus [9]int
	BishopMobilityBonus [14]int

	ShieldMG int
}

// sets defaults which might be overwritten by config file
func init() {
	Settings.Eval.Tempo = 10

	Settings.Eval.BishopPairMG = 30
	Settings.Eval.BishopPairEG = 45

	Settings.Eval.RookOpenFileBonus = 20
	Settings.Eval.RookSemiOpenFileBonus = 10

	Settings.Eval.PawnDoubledPenalty = 12
	Settings.Eval.PawnIsolatedPenalty = 10

	Settings.Eval.PawnConnectedBonus = [8]int{0, 2, 3, 4, 6, 10, 16, 0}
	Settings.Eval.PawnPassedBonus = [8]int{0, 5, 10, 20, 35, 60, 100, 0}

	Settings.Eval.KnightMobilityBonus = [9]int{-20, -12, -6, -2, 0, 3, 6, 8, 10}
	Settings.Eval.BishopMobilityBonus = [14]int{-20, -14, -8, -4, 0, 3, 6, 9, 12, 14, 16, 17, 18, 19}

	Settings.Eval.ShieldMG = 8
}

// set defaults for configurations here in case a configuration
// is not available from the config file
func setupEval() {
}
