/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, To any person obtaining a copy
 * of this software and associated documentation files (the "Software"), To deal
 * in the Software without restriction, including without limitation the rights
 * To use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and To permit persons To whom the Software is
 * furnished To do so, subject To the following conditions:
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

import "fmt"

// Direction is a step delta on the 0x88 board. Off-board overflow of a
// single step, including file wrap-around (east/west), is detected by
// masking the resulting square with 0x88, which Square.To does.
type Direction int8

//noinspection ALL
const (
	North     Direction = 16
	East      Direction = 1
	South     Direction = -North
	West      Direction = -East
	Northeast Direction = North + East
	Southeast Direction = South + East
	Southwest Direction = South + West
	Northwest Direction = North + West
)

// KnightDirs are the 8 knight step deltas on the 0x88 board.
var KnightDirs = [8]Direction{33, 31, 18, 14, -33, -31, -18, -14}

// KingDirs are the 8 king/queen step deltas on the 0x88 board, shared with
// the sliding-piece ray directions for bishop/rook/queen.
var KingDirs = [8]Direction{North, South, East, West, Northeast, Southeast, Southwest, Northwest}

// BishopDirs are the 4 diagonal ray directions.
var BishopDirs = [4]Direction{Northeast, Southeast, Southwest, Northwest}

// RookDirs are the 4 orthogonal ray directions.
var RookDirs = [4]Direction{North, South, East, West}

func (d Direction) Str() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	case Northeast:
		return "NE"
	case Southeast:
		return "SE"
	case Southwest:
		return "SW"
	case Northwest:
		return "NW"
	default:
		return fmt.Sprintf("d%d", int8(d))
	}
}
