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

import (
	"fmt"
	"strings"
)

// Move is a 64bit unsigned int encoding a chess move as a primitive data
// type: from/to squares, flag bits for capture/castle/en-passant/double-push/
// promotion, a 2-bit promotion piece type, and a 32-bit sort value used by
// the move generator's ordering.
//  BITMAP 64-bit
//  |-- sort value (32) --|-unused-|--------- flags ---------|-from-|--to--|
//  63                  32 31    21 20 19 18 17 16-15    14 13    7 6    0
//  flags: 20 double push, 19 en passant, 18 castle, 17 capture,
//         16-15 promotion piece type, 14 promotion
type Move uint64

const (
	// MoveNone is the empty, non valid move.
	MoveNone Move = 0
)

const (
	fromShift      uint = 7
	promoFlagShift uint = 14
	promoTypeShift uint = 15
	captureShift   uint = 17
	castleShift    uint = 18
	epShift        uint = 19
	doublePushShift uint = 20
	valueShift     uint = 32

	squareMask    Move = 0x7F
	toMask             = squareMask
	fromMask           = squareMask << fromShift
	promoFlagMask Move = 1 << promoFlagShift
	promoTypeMask Move = 3 << promoTypeShift
	captureMask   Move = 1 << captureShift
	castleMask    Move = 1 << castleShift
	epMask        Move = 1 << epShift
	doublePushMask Move = 1 << doublePushShift
	flagsMask     Move = promoFlagMask | promoTypeMask | captureMask | castleMask | epMask | doublePushMask
	moveMask      Move = (1 << valueShift) - 1 // bits below the sort value
	valueMask     Move = 0xFFFFFFFF << valueShift
)

// MoveFlag bundles the boolean attributes of a move that cannot be derived
// from from/to alone.
type MoveFlag struct {
	Capture     bool
	Castle      bool
	EnPassant   bool
	DoublePush  bool
	Promotion   bool
	PromoteTo   PieceType // only meaningful when Promotion is true
}

// CreateMove returns an encoded quiet, non-promotion move.
func CreateMove(from, to Square) Move {
	return Move(to) | Move(from)<<fromShift
}

// CreateMoveFlags returns an encoded move carrying the given flags.
func CreateMoveFlags(from, to Square, flags MoveFlag) Move {
	m := Move(to) | Move(from)<<fromShift
	if flags.Capture {
		m |= captureMask
	}
	if flags.Castle {
		m |= castleMask
	}
	if flags.EnPassant {
		m |= epMask
	}
	if flags.DoublePush {
		m |= doublePushMask
	}
	if flags.Promotion {
		pt := flags.PromoteTo
		if pt < Knight || pt > Queen {
			pt = Queen
		}
		m |= promoFlagMask | Move(pt-Knight)<<promoTypeShift
	}
	return m
}

// From returns the from-square of the move.
func (m Move) From() Square {
	return Square((m & fromMask) >> fromShift)
}

// To returns the to-square of the move.
func (m Move) To() Square {
	return Square(m & toMask)
}

// MoveOf returns the move stripped of its sort value.
func (m Move) MoveOf() Move {
	return m & moveMask
}

// IsCapture reports whether the move captures a piece (including en passant).
func (m Move) IsCapture() bool {
	return m&captureMask != 0
}

// IsCastle reports whether the move is a castling move.
func (m Move) IsCastle() bool {
	return m&castleMask != 0
}

// IsEnPassant reports whether the move is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m&epMask != 0
}

// IsDoublePush reports whether the move is a pawn double push.
func (m Move) IsDoublePush() bool {
	return m&doublePushMask != 0
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m&promoFlagMask != 0
}

// PromotionType returns the piece type promoted to. Must be ignored unless
// IsPromotion is true.
func (m Move) PromotionType() PieceType {
	return PieceType((m&promoTypeMask)>>promoTypeShift) + Knight
}

// ValueOf returns the sort value stored in the move, or ValueNA if none
// has been set.
func (m Move) ValueOf() Value {
	if m&valueMask == 0 {
		return ValueNA
	}
	return Value((m&valueMask)>>valueShift) + ValueNA
}

// SetValue encodes the given sort value into the move, replacing any value
// previously stored. Has no effect on MoveNone.
func (m *Move) SetValue(v Value) Move {
	if *m == MoveNone {
		return *m
	}
	*m = *m&moveMask | Move(uint32(v-ValueNA))<<valueShift
	return *m
}

// IsValid reports whether m has valid squares and, if a promotion, a valid
// promotion type. MoveNone is never valid.
func (m Move) IsValid() bool {
	if m == MoveNone {
		return false
	}
	if !m.From().IsValid() || !m.To().IsValid() {
		return false
	}
	if m.IsPromotion() && !m.PromotionType().IsValid() {
		return false
	}
	return true
}

// StringUci returns the UCI text representation of the move, e.g. "e2e4"
// or "e7e8q" for a promotion.
func (m Move) StringUci() string {
	if m == MoveNone {
		return "0000"
	}
	var os strings.Builder
	os.WriteString(m.From().String())
	os.WriteString(m.To().String())
	if m.IsPromotion() {
		os.WriteString(strings.ToLower(m.PromotionType().Char()))
	}
	return os.String()
}

// String returns a human-readable description of the move.
func (m Move) String() string {
	if m == MoveNone {
		return "Move: { MoveNone }"
	}
	return fmt.Sprintf("Move: { %-5s  cap:%t castle:%t ep:%t dbl:%t  value:%-6d }",
		m.StringUci(), m.IsCapture(), m.IsCastle(), m.IsEnPassant(), m.IsDoublePush(), m.ValueOf())
}
