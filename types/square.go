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

package types

// Square represents one square of the 0x88 board. Valid squares satisfy
// (sq & 0x88) == 0; a single step in any direction that leaves the board -
// including file wrap-around for knight/king/sliding steps - trips that
// same mask test, which is the entire point of the 0x88 layout.
type Square int16

// Square88Mask is the off-board test mask for the 0x88 layout.
const Square88Mask Square = 0x88

//noinspection GoUnusedConst
const (
	SqA1 Square = 0
	SqB1 Square = 1
	SqC1 Square = 2
	SqD1 Square = 3
	SqE1 Square = 4
	SqF1 Square = 5
	SqG1 Square = 6
	SqH1 Square = 7

	SqA2 Square = 16
	SqE2 Square = 20

	SqA3 Square = 32
	SqC3 Square = 34
	SqE3 Square = 36
	SqF3 Square = 37
	SqH3 Square = 39

	SqA4 Square = 48
	SqC4 Square = 50
	SqD4 Square = 51
	SqE4 Square = 52
	SqH4 Square = 55

	SqA5 Square = 64
	SqD5 Square = 67
	SqE5 Square = 68
	SqF5 Square = 69
	SqH5 Square = 71

	SqA6 Square = 80
	SqD6 Square = 83
	SqF6 Square = 85
	SqH6 Square = 87

	SqA7 Square = 96
	SqD7 Square = 99
	SqE7 Square = 100
	SqH7 Square = 103

	SqA8 Square = 112
	SqB8 Square = 113
	SqC8 Square = 114
	SqD8 Square = 115
	SqE8 Square = 116
	SqF8 Square = 117
	SqG8 Square = 118
	SqH8 Square = 119

	// SqNone is the sentinel for "no square" (e.g. no en-passant target).
	SqNone Square = -1

	// BoardSize is the length of the 0x88 squares array.
	BoardSize = 128
)

// IsValid reports whether sq is an on-board 0x88 square.
func (sq Square) IsValid() bool {
	return sq >= 0 && sq&Square88Mask == 0
}

// FileOf returns the file of the square.
func (sq Square) FileOf() File {
	return File(sq & 7)
}

// RankOf returns the rank of the square.
func (sq Square) RankOf() Rank {
	return Rank(sq >> 4)
}

// SquareOf returns the 0x88 square for the given file and rank, or SqNone
// if either is out of range.
func SquareOf(f File, r Rank) Square {
	if !f.IsValid() || !r.IsValid() {
		return SqNone
	}
	return Square(int(r)<<4 + int(f))
}

// MakeSquare parses a square string like "e4" and returns SqNone if the
// string does not describe a valid square.
func MakeSquare(s string) Square {
	if len(s) != 2 {
		return SqNone
	}
	file := File(s[0] - 'a')
	rank := Rank(s[1] - '1')
	if !file.IsValid() || !rank.IsValid() {
		return SqNone
	}
	return SquareOf(file, rank)
}

// String returns the algebraic notation of the square (e.g. "e4"), or "-"
// if the square is not valid.
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return sq.FileOf().String() + sq.RankOf().String()
}

// To returns the square reached by stepping once in direction d, or
// SqNone if that step leaves the board.
func (sq Square) To(d Direction) Square {
	to := sq + Square(d)
	if !to.IsValid() {
		return SqNone
	}
	return to
}

// Idx64 maps a valid 0x88 square to the linear 0..63 square number used
// by Zobrist hashing and transposition-table move packing, which are
// specified against a dense index rather than the padded mailbox.
func (sq Square) Idx64() int {
	return int(sq.RankOf())*8 + int(sq.FileOf())
}

// SquareFromIdx64 is the inverse of Idx64.
func SquareFromIdx64(i int) Square {
	return SquareOf(File(i%8), Rank(i/8))
}
