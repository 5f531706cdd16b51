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

// Package transpositiontable caches search results keyed by position hash.
// The table is direct-mapped and always-replace: each hash maps to exactly
// one slot, and a Store always overwrites whatever was there. There is no
// age/generation bookkeeping and no depth-preferred bucket choice; the
// independent 16-bit lock catches the index collisions the direct mapping
// can't avoid.
package transpositiontable

import (
	"math/bits"

	"github.com/corvidchess/engine/logging"
	"github.com/corvidchess/engine/position"
	. "github.com/corvidchess/engine/types"
)

var log = logging.GetLog()

// Flag records which bound of the alpha-beta window a stored score
// represents.
type Flag uint8

const (
	FlagNone  Flag = iota // empty slot
	FlagExact             // exact score (a PV node)
	FlagAlpha             // upper bound: the true score is <= Score
	FlagBeta              // lower bound: the true score is >= Score
)

// Entry is the fixed-size transposition record: 8 bytes, direct-mapped by
// hash, verified by lock.
type Entry struct {
	Lock  position.Lock // independent verification key, guards index collisions
	Score int16
	Move  uint16 // packed move, see PackMove/UnpackMove
	Depth int8
	Flag  Flag
}

// EntrySize is the size in bytes of one Entry.
const EntrySize = 8

// MaxSizeInMB bounds how large a table Resize will honor.
const MaxSizeInMB = 65_536

const bytesPerMB = 1024 * 1024

// Stats tracks usage counters for reporting via UCI's "info" output.
type Stats struct {
	Puts, Overwrites, Probes, Hits, Misses uint64
}

// Table is a direct-mapped, always-replace transposition table.
type Table struct {
	entries         []Entry
	mask            uint64
	numberOfEntries uint64
	Stats           Stats
}

// New creates a Table sized to approximately sizeInMB megabytes.
func New(sizeInMB int) *Table {
	t := &Table{}
	t.Resize(sizeInMB)
	return t
}

// Resize rebuilds the table for a new size, discarding all entries. The
// entry count is rounded down to a power of two so indexing can use a
// bitmask instead of a modulo.
func (t *Table) Resize(sizeInMB int) {
	if sizeInMB < 0 {
		sizeInMB = 0
	}
	if sizeInMB > MaxSizeInMB {
		sizeInMB = MaxSizeInMB
	}
	sizeInByte := uint64(sizeInMB) * bytesPerMB

	var numEntries uint64
	if sizeInByte >= EntrySize {
		slots := sizeInByte / EntrySize
		numEntries = uint64(1) << (bits.Len64(slots) - 1)
	}

	t.entries = make([]Entry, numEntries)
	t.numberOfEntries = 0
	t.Stats = Stats{}
	if numEntries == 0 {
		t.mask = 0
		return
	}
	t.mask = numEntries - 1
	log.Infof("transposition table resized to %d entries (%d MB)\n", numEntries, numEntries*EntrySize/bytesPerMB)
}

// Clear empties every slot without changing the table's size.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.numberOfEntries = 0
	t.Stats = Stats{}
}

func (t *Table) index(hash position.Key) uint64 {
	return uint64(hash) & t.mask
}

// Probe looks up hash in the table. ok is false on a miss: an empty slot,
// or a slot whose lock doesn't match (a different position mapped to the
// same index). On a hit, the caller still owns mate-score ply adjustment
// and flag/alpha-beta interpretation.
func (t *Table) Probe(hash position.Key, lock position.Lock) (score Value, move Move, depth int, flag Flag, ok bool) {
	if len(t.entries) == 0 {
		return ValueNA, MoveNone, 0, FlagNone, false
	}
	t.Stats.Probes++
	e := &t.entries[t.index(hash)]
	if e.Flag == FlagNone || e.Lock != lock {
		t.Stats.Misses++
		return ValueNA, MoveNone, 0, FlagNone, false
	}
	t.Stats.Hits++
	return Value(e.Score), UnpackMove(e.Move), int(e.Depth), e.Flag, true
}

// Store records a search result for hash, overwriting whatever previously
// occupied the slot. depth is clamped to int8's range, which is never a
// concern in practice since search depths stay well under 100 ply.
func (t *Table) Store(hash position.Key, lock position.Lock, score Value, move Move, depth int, flag Flag) {
	if len(t.entries) == 0 {
		return
	}
	if depth > 127 {
		depth = 127
	} else if depth < 0 {
		depth = 0
	}
	t.Stats.Puts++
	e := &t.entries[t.index(hash)]
	if e.Flag == FlagNone {
		t.numberOfEntries++
	} else {
		t.Stats.Overwrites++
	}
	e.Lock = lock
	e.Score = int16(score)
	e.Move = PackMove(move)
	e.Depth = int8(depth)
	e.Flag = flag
}

// Len returns the number of occupied slots.
func (t *Table) Len() uint64 {
	return t.numberOfEntries
}

// Hashfull reports table occupancy in permille, the form UCI's "info
// hashfull" wants.
func (t *Table) Hashfull() int {
	if len(t.entries) == 0 {
		return 0
	}
	return int(1000 * t.numberOfEntries / uint64(len(t.entries)))
}

const (
	packedFromShift      = 0
	packedToShift        = 6
	packedPromoFlagShift = 12
	packedPromoTypeShift = 13
)

// PackMove reduces m to a 16-bit encoding: dense 0..63 from/to squares
// (via Square.Idx64) plus a promotion flag and 2-bit promotion type.
// Capture/en-passant/double-push/castle are NOT preserved; a caller that
// unpacks a move must reconstruct those flags by matching the unpacked
// (from, to, promotion) against a freshly generated legal move before
// playing it.
func PackMove(m Move) uint16 {
	if m == MoveNone {
		return 0
	}
	packed := uint16(m.From().Idx64())<<packedFromShift | uint16(m.To().Idx64())<<packedToShift
	if m.IsPromotion() {
		packed |= 1 << packedPromoFlagShift
		packed |= uint16(m.PromotionType()-Knight) << packedPromoTypeShift
	}
	return packed
}

// UnpackMove reverses PackMove. The result carries real from/to squares
// and, if applicable, the promotion flag/type; every other flag is zero.
func UnpackMove(packed uint16) Move {
	if packed == 0 {
		return MoveNone
	}
	from := SquareFromIdx64(int((packed >> packedFromShift) & 0x3F))
	to := SquareFromIdx64(int((packed >> packedToShift) & 0x3F))
	var flags MoveFlag
	if packed&(1<<packedPromoFlagShift) != 0 {
		flags.Promotion = true
		flags.PromoteTo = PieceType((packed>>packedPromoTypeShift)&0x3) + Knight
	}
	return CreateMoveFlags(from, to, flags)
}
