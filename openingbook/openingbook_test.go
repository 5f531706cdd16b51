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

package openingbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidchess/engine/logging"
	"github.com/corvidchess/engine/position"
	. "github.com/corvidchess/engine/types"
)

var logTest = logging.GetTestLog()

func writeLines(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "book.txt")
	var content string
	for _, l := range lines {
		content += l + "\n"
	}
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadFile(t *testing.T) {
	path := writeLines(t, "e2e4 e7e5", "d2d4 d7d5")
	lines, err := readFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(lines))
}

func TestReadNonExistingFile(t *testing.T) {
	_, err := readFile("/nonexistent/path/book.txt")
	assert.Error(t, err)
}

func TestInitializeEmptyFile(t *testing.T) {
	path := writeLines(t)
	var b Book
	err := b.Initialize(path, false, false)
	assert.NoError(t, err)
	assert.Equal(t, 1, b.NumberOfEntries())

	root := position.New()
	entry, ok := b.GetEntry(root.Hash())
	assert.True(t, ok)
	assert.Equal(t, uint32(root.Hash()), entry.PositionKey)
}

func TestInitializeAndLookup(t *testing.T) {
	path := writeLines(t,
		"e2e4 e7e5 g1f3",
		"e2e4 e7e5 g1f3",
		"e2e4 c7c5",
		"d2d4 d7d5",
	)
	var b Book
	err := b.Initialize(path, false, false)
	assert.NoError(t, err)

	root := position.New()
	entry, ok := b.GetEntry(root.Hash())
	assert.True(t, ok)
	assert.Equal(t, 4, entry.Counter)
	assert.Equal(t, 2, len(entry.Moves)) // e2e4, d2d4

	move, ok := b.Lookup(root)
	assert.True(t, ok)
	// e2e4 was played three times, d2d4 once - book favors the former
	assert.Equal(t, SqE2, move.From())
	assert.Equal(t, SqE4, move.To())
}

func TestLookupUnknownPosition(t *testing.T) {
	var b Book
	pos := position.New()
	_, ok := b.Lookup(pos) // book never initialized
	assert.False(t, ok)

	path := writeLines(t, "e2e4 e7e5")
	assert.NoError(t, b.Initialize(path, false, false))
	pos.Make(CreateMove(SqG1, SqF3))
	_, ok = b.Lookup(pos)
	assert.False(t, ok)
}

func TestCacheRoundTrip(t *testing.T) {
	path := writeLines(t, "e2e4 e7e5 g1f3", "d2d4 d7d5")

	var b Book
	assert.NoError(t, b.Initialize(path, true, true))
	n := b.NumberOfEntries()
	assert.Greater(t, n, 1)

	b.Reset()
	assert.Equal(t, 0, b.NumberOfEntries())

	var cached Book
	assert.NoError(t, cached.Initialize(path, true, false))
	assert.Equal(t, n, cached.NumberOfEntries())
}
