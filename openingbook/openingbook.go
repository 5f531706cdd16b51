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

// Package openingbook reads a text file of games, given as whitespace
// separated UCI moves (one game per line), into an internal tree of
// positions keyed by Zobrist hash. It implements engine.Book so an
// Engine can consult it at the root before searching.
package openingbook

import (
	"bufio"
	"encoding/gob"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/corvidchess/engine/logging"
	"github.com/corvidchess/engine/movegen"
	"github.com/corvidchess/engine/position"
	. "github.com/corvidchess/engine/types"
)

var out = message.NewPrinter(language.English)
var log = logging.GetLog()

// setting to use multiple goroutines or not - useful for debugging
const parallel = true

// Successor is a move out of a position and the key of the position it
// leads to.
type Successor struct {
	Move    uint32
	NextKey uint32
}

// BookEntry describes exactly one position, keyed by its Zobrist hash,
// and the moves seen leading away from it.
type BookEntry struct {
	PositionKey uint32
	Counter     int
	Moves       []Successor
}

// Book is a read-only opening book built from a UCI move-list file.
// The zero value is valid but empty; call Initialize to load a file.
type Book struct {
	mu          sync.Mutex
	bookMap     map[uint32]BookEntry
	rootKey     uint32
	initialized bool
}

// Initialize loads bookPath into the book. If useCache is set and a
// "<bookPath>.cache" gob file exists, it is loaded instead of reparsing
// the text file unless recreateCache forces a rebuild.
func (b *Book) Initialize(bookPath string, useCache bool, recreateCache bool) error {
	if b.initialized {
		return nil
	}

	log.Info("Initializing opening book")
	startTotal := time.Now()

	if _, err := os.Stat(bookPath); err != nil {
		log.Errorf("File \"%s\" does not exist\n", bookPath)
		return err
	}

	if useCache && !recreateCache {
		startReading := time.Now()
		hasCache, err := b.loadFromCache(bookPath)
		elapsedReading := time.Since(startReading)
		if err != nil {
			log.Warningf("Cache could not be loaded. Reading original data from \"%s\"", bookPath)
		}
		if hasCache {
			log.Infof("Finished reading cache from file in: %d ms\n", elapsedReading.Milliseconds())
			log.Infof("Book from cache file contains %d entries\n", len(b.bookMap))
			b.initialized = true
			return nil
		}
	}

	log.Infof("Reading opening book file: %s\n", bookPath)
	startReading := time.Now()
	lines, err := readFile(bookPath)
	if err != nil {
		log.Errorf("File \"%s\" could not be read: %s\n", bookPath, err)
		return err
	}
	elapsedReading := time.Since(startReading)
	log.Infof("Finished reading %d lines from file in: %d ms\n", len(lines), elapsedReading.Milliseconds())

	root := position.New()
	b.bookMap = make(map[uint32]BookEntry)
	b.rootKey = uint32(root.Hash())
	b.bookMap[b.rootKey] = BookEntry{PositionKey: b.rootKey}

	startProcessing := time.Now()
	if parallel {
		log.Infof("Processing %d lines in parallel\n", len(lines))
	} else {
		log.Infof("Processing %d lines sequentially\n", len(lines))
	}
	b.process(lines)
	elapsedProcessing := time.Since(startProcessing)
	log.Infof("Finished processing %d lines in: %d ms\n", len(lines), elapsedProcessing.Milliseconds())

	elapsedTotal := time.Since(startTotal)
	log.Infof("Book contains %d entries\n", len(b.bookMap))
	log.Infof("Total initialization time: %d ms\n", elapsedTotal.Milliseconds())

	if useCache {
		log.Infof("Saving to cache...")
		startSave := time.Now()
		cacheFile, nBytes, err := b.saveToCache(bookPath)
		if err != nil {
			log.Errorf("Error while saving to cache: %s\n", err)
		}
		elapsedSave := time.Since(startSave)
		kb := out.Sprintf("%d", nBytes/1_024)
		log.Infof("Saved %s kB to cache %s in %d ms\n", kb, cacheFile, elapsedSave.Milliseconds())
	}

	b.initialized = true
	return nil
}

// NumberOfEntries returns the number of positions in the book.
func (b *Book) NumberOfEntries() int {
	return len(b.bookMap)
}

// GetEntry returns a copy of the entry for the given position key.
func (b *Book) GetEntry(key position.Key) (BookEntry, bool) {
	e, ok := b.bookMap[uint32(key)]
	return e, ok
}

// Reset discards the loaded book; Initialize may be called again.
func (b *Book) Reset() {
	b.bookMap = nil
	b.rootKey = 0
	b.initialized = false
}

// Lookup implements engine.Book. It returns the most-played successor
// move recorded for the given position, or false if the book has
// nothing to say about it.
func (b *Book) Lookup(pos *position.Board) (Move, bool) {
	if !b.initialized {
		return MoveNone, false
	}
	b.mu.Lock()
	entry, found := b.bookMap[uint32(pos.Hash())]
	b.mu.Unlock()
	if !found || len(entry.Moves) == 0 {
		return MoveNone, false
	}

	var best Successor
	bestCount := -1
	for _, s := range entry.Moves {
		b.mu.Lock()
		next := b.bookMap[s.NextKey]
		b.mu.Unlock()
		if next.Counter > bestCount {
			bestCount = next.Counter
			best = s
		}
	}

	move := Move(best.Move)
	if !move.IsValid() {
		return MoveNone, false
	}
	return move, true
}

// /////////////////////////////////////////////////
// Private
// /////////////////////////////////////////////////

func readFile(bookPath string) ([]string, error) {
	f, err := os.Open(bookPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Errorf("File \"%s\" could not be closed: %s\n", bookPath, cerr)
		}
	}()
	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// process walks every line, using goroutines in parallel if enabled.
// Each goroutine gets its own movegen.Generator and position.Board since
// neither is safe for concurrent use.
func (b *Book) process(lines []string) {
	if parallel {
		var wg sync.WaitGroup
		wg.Add(len(lines))
		for _, line := range lines {
			go func(line string) {
				defer wg.Done()
				b.processLine(line)
			}(line)
		}
		wg.Wait()
	} else {
		for _, line := range lines {
			b.processLine(line)
		}
	}
}

var regexUciMove = regexp.MustCompile(`[a-h][1-8][a-h][1-8][nbrq]?`)

// processLine extracts every UCI move from a line, replays them from the
// starting position and records the resulting positions in the book.
func (b *Book) processLine(line string) {
	matches := regexUciMove.FindAllString(strings.TrimSpace(line), -1)
	if len(matches) == 0 {
		return
	}

	pos := position.New()
	gen := movegen.New()

	b.mu.Lock()
	e := b.bookMap[b.rootKey]
	e.Counter++
	b.bookMap[b.rootKey] = e
	b.mu.Unlock()

	for _, s := range matches {
		if !b.processSingleMove(s, &gen, pos) {
			break
		}
	}
}

// processSingleMove resolves s against the legal moves of pos, plays it
// and records the transition. Returns false (stopping the line) if s
// does not match a legal move.
func (b *Book) processSingleMove(s string, gen *movegen.Generator, pos *position.Board) bool {
	from := MakeSquare(s[0:2])
	to := MakeSquare(s[2:4])
	if from == SqNone || to == SqNone {
		return false
	}
	promo := PtNone
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		}
	}

	legal := gen.GenerateLegal(pos, movegen.GenAll)
	var move Move = MoveNone
	for i := 0; i < legal.Len(); i++ {
		m := legal.At(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if m.IsPromotion() && m.PromotionType() != promo {
			continue
		}
		move = m.MoveOf()
		break
	}
	if move == MoveNone {
		log.Warningf("Move not valid %s on %s", s, pos.Fen())
		return false
	}

	curKey := uint32(pos.Hash())
	pos.Make(move)
	nextKey := uint32(pos.Hash())
	b.addToBook(curKey, nextKey, uint32(move))
	return true
}

func (b *Book) addToBook(curKey, nextKey uint32, move uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, found := b.bookMap[curKey]; !found {
		log.Error("Could not find current position in book.")
		return
	}

	next, found := b.bookMap[nextKey]
	if found {
		next.Counter++
		b.bookMap[nextKey] = next
		return
	}

	b.bookMap[nextKey] = BookEntry{PositionKey: nextKey, Counter: 1}
	cur := b.bookMap[curKey]
	cur.Moves = append(cur.Moves, Successor{Move: move, NextKey: nextKey})
	b.bookMap[curKey] = cur
}

func (b *Book) loadFromCache(bookPath string) (bool, error) {
	cachePath := bookPath + ".cache"
	f, err := os.Open(cachePath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	decoder := gob.NewDecoder(f)
	b.mu.Lock()
	err = decoder.Decode(&b.bookMap)
	b.mu.Unlock()
	if err != nil {
		return false, err
	}

	b.rootKey = uint32(position.New().Hash())
	return true, nil
}

func (b *Book) saveToCache(bookPath string) (string, int64, error) {
	cachePath := bookPath + ".cache"
	f, err := os.Create(cachePath)
	if err != nil {
		return cachePath, 0, err
	}

	enc := gob.NewEncoder(f)
	b.mu.Lock()
	encErr := enc.Encode(b.bookMap)
	b.mu.Unlock()
	if encErr != nil {
		f.Close()
		return cachePath, 0, encErr
	}

	if err := f.Close(); err != nil {
		return cachePath, 0, err
	}
	fi, err := os.Stat(cachePath)
	if err != nil {
		return cachePath, 0, err
	}
	return cachePath, fi.Size(), nil
}
