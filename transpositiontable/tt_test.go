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

package transpositiontable

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/corvidchess/engine/position"
	. "github.com/corvidchess/engine/types"
)

func TestEntrySize(t *testing.T) {
	var e Entry
	assert.EqualValues(t, EntrySize, unsafe.Sizeof(e))
}

func TestNewRoundsSizeDownToPowerOfTwo(t *testing.T) {
	tt := New(1)
	entries := 1024 * 1024 / EntrySize
	assert.Equal(t, uint64(entries), tt.mask+1)
	assert.Equal(t, uint64(0), tt.Len())
}

func TestZeroSizeTableIsANoop(t *testing.T) {
	tt := New(0)
	tt.Store(position.Key(1), position.Lock(1), Value(100), MoveNone, 5, FlagExact)
	_, _, _, _, ok := tt.Probe(position.Key(1), position.Lock(1))
	assert.False(t, ok)
}

func TestStoreThenProbeRoundTrips(t *testing.T) {
	tt := New(1)
	m := CreateMove(SqE2, SqE4)
	tt.Store(position.Key(42), position.Lock(7), Value(123), m, 6, FlagExact)

	score, move, depth, flag, ok := tt.Probe(position.Key(42), position.Lock(7))
	assert.True(t, ok)
	assert.EqualValues(t, 123, score)
	assert.Equal(t, SqE2, move.From())
	assert.Equal(t, SqE4, move.To())
	assert.Equal(t, 6, depth)
	assert.Equal(t, FlagExact, flag)
}

func TestProbeMissesOnEmptySlot(t *testing.T) {
	tt := New(1)
	_, _, _, _, ok := tt.Probe(position.Key(99), position.Lock(1))
	assert.False(t, ok)
}

func TestProbeMissesOnLockMismatch(t *testing.T) {
	tt := New(1)
	tt.Store(position.Key(5), position.Lock(11), Value(1), MoveNone, 1, FlagExact)
	_, _, _, _, ok := tt.Probe(position.Key(5), position.Lock(22))
	assert.False(t, ok, "a different lock at the same index must be treated as a different position")
}

func TestStoreAlwaysOverwrites(t *testing.T) {
	tt := New(1)
	tt.Store(position.Key(5), position.Lock(11), Value(1), MoveNone, 20, FlagExact)
	tt.Store(position.Key(5), position.Lock(11), Value(2), MoveNone, 1, FlagAlpha)

	score, _, depth, flag, ok := tt.Probe(position.Key(5), position.Lock(11))
	assert.True(t, ok)
	assert.EqualValues(t, 2, score, "the second, shallower store must still win: the table is always-replace")
	assert.Equal(t, 1, depth)
	assert.Equal(t, FlagAlpha, flag)
	assert.EqualValues(t, 1, tt.Stats.Overwrites)
}

func TestClearEmptiesAllSlots(t *testing.T) {
	tt := New(1)
	tt.Store(position.Key(5), position.Lock(11), Value(1), MoveNone, 1, FlagExact)
	tt.Clear()
	_, _, _, _, ok := tt.Probe(position.Key(5), position.Lock(11))
	assert.False(t, ok)
	assert.EqualValues(t, 0, tt.Len())
}

func TestHashfullReflectsOccupancy(t *testing.T) {
	// A tiny table (minimum slot count) lets one Store move hashfull all
	// the way to 1000 permille.
	tt := New(0)
	tt.entries = make([]Entry, 1)
	tt.mask = 0
	tt.Store(position.Key(1), position.Lock(1), Value(1), MoveNone, 1, FlagExact)
	assert.Equal(t, 1000, tt.Hashfull())
}

func TestPackMoveRoundTripsQuietMove(t *testing.T) {
	m := CreateMove(SqA1, SqH8)
	packed := PackMove(m)
	unpacked := UnpackMove(packed)
	assert.Equal(t, SqA1, unpacked.From())
	assert.Equal(t, SqH8, unpacked.To())
	assert.False(t, unpacked.IsPromotion())
}

func TestPackMoveRoundTripsPromotion(t *testing.T) {
	m := CreateMoveFlags(SqE7, SqE8, MoveFlag{Promotion: true, PromoteTo: Queen})
	packed := PackMove(m)
	unpacked := UnpackMove(packed)
	assert.Equal(t, SqE7, unpacked.From())
	assert.Equal(t, SqE8, unpacked.To())
	assert.True(t, unpacked.IsPromotion())
	assert.Equal(t, Queen, unpacked.PromotionType())
}

func TestPackMoveNoneRoundTrips(t *testing.T) {
	assert.Equal(t, uint16(0), PackMove(MoveNone))
	assert.Equal(t, MoveNone, UnpackMove(0))
}

func TestUnpackedMoveDropsAncillaryFlags(t *testing.T) {
	// A captured en passant pawn still packs down to bare from/to/promo;
	// the caller is responsible for restoring IsCapture/IsEnPassant by
	// matching against a freshly generated move before playing it.
	m := CreateMoveFlags(SqE5, SqD6, MoveFlag{Capture: true, EnPassant: true})
	unpacked := UnpackMove(PackMove(m))
	assert.False(t, unpacked.IsCapture())
	assert.False(t, unpacked.IsEnPassant())
	assert.Equal(t, SqE5, unpacked.From())
	assert.Equal(t, SqD6, unpacked.To())
}
