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
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/corvidchess/engine/config"
	"github.com/corvidchess/engine/evaluator"
	"github.com/corvidchess/engine/logging"
	"github.com/corvidchess/engine/movearray"
	"github.com/corvidchess/engine/movegen"
	"github.com/corvidchess/engine/position"
	"github.com/corvidchess/engine/transpositiontable"
	. "github.com/corvidchess/engine/types"
	"github.com/corvidchess/engine/uciInterface"
)

var out = message.NewPrinter(language.English)
var log = logging.GetSearchLog()

// nullMoveMinDepth is the shallowest depth at which null-move pruning is
// attempted. Below it the verification search costs more than it saves.
const nullMoveMinDepth = 3

// Search holds one engine's worth of search state: the transposition
// table, evaluator, per-ply move buffers, and the UCI callback used to
// report progress. Create with NewSearch.
type Search struct {
	uciHandlerPtr uciInterface.UciDriver
	initSemaphore *semaphore.Weighted
	isRunning     *semaphore.Weighted

	tt   *transpositiontable.Table
	eval *evaluator.Evaluator
	gens [MaxDepth]movegen.Generator

	lastSearchResult *Result

	// current search
	stopFlag        bool
	startTime       time.Time
	hasResult       bool
	currentPosition *position.Board
	searchLimits    *Limits
	timeLimit       time.Duration
	nodesVisited    int64
	curDepth        int
	curExtraDepth   int

	rootMoves movearray.MoveArray
	pv        [MaxDepth + 1]movearray.MoveArray
	killers   [MaxDepth][2]Move
	history   [2][64][64]int32

	// gameHistory is the hash of every position played so far this game,
	// set by the caller (the engine facade) before each StartSearch.
	// searchPath is gameHistory plus every hash pushed while walking the
	// search tree, used to detect repetitions across both.
	gameHistory []position.Key
	searchPath  []position.Key

	statistics Statistics
}

// //////////////////////////////////////////////////////
// // Public
// //////////////////////////////////////////////////////

// NewSearch creates a new Search instance with no uci handler set
// (see SetUciHandler).
func NewSearch() *Search {
	s := &Search{
		initSemaphore: semaphore.NewWeighted(int64(1)),
		isRunning:     semaphore.NewWeighted(int64(1)),
		rootMoves:     movearray.New(MaxMoves),
	}
	for i := range s.gens {
		s.gens[i] = movegen.New()
	}
	for i := range s.pv {
		s.pv[i] = movearray.New(MaxDepth)
	}
	return s
}

// NewGame resets the search to be ready for a different game: the
// transposition table, killer/history tables and game history are all
// cleared.
func (s *Search) NewGame() {
	if s.tt != nil {
		s.tt.Clear()
	}
	s.killers = [MaxDepth][2]Move{}
	s.history = [2][64][64]int32{}
	s.gameHistory = nil
	s.lastSearchResult = nil
}

// SetGameHistory tells the search about every position hash played so far
// this game, oldest first. The search appends to this list as it walks
// its own tree when checking for repetitions.
func (s *Search) SetGameHistory(hashes []position.Key) {
	s.gameHistory = append(s.gameHistory[:0], hashes...)
}

// StartSearch starts the search with on the given position with
// the given search limits. Search can be stopped with StopSearch().
// Search status can be checked with IsSearching()
// This takes a copy of the position and the search limits
func (s *Search) StartSearch(b position.Board, sl Limits) {
	// acquire init phase lock
	_ = s.initSemaphore.Acquire(context.Background(), 1)
	// searchLimits for instance
	s.searchLimits = &sl
	// position for this search
	s.currentPosition = &b
	// run search
	go s.run(&b, &sl)
	// wait until search is running and initialization
	// is done before returning
	_ = s.initSemaphore.Acquire(context.Background(), 1)
}

// StopSearch stops a running search as quickly as possible.
// The search stops gracefully and a result will be sent to
// UCI.
func (s *Search) StopSearch() {
	s.stopFlag = true
	s.WaitWhileSearching()
}

// IsSearching checks if search is running
func (s *Search) IsSearching() bool {
	if !s.isRunning.TryAcquire(1) {
		return true
	}
	s.isRunning.Release(1)
	return false
}

// WaitWhileSearching checks if search is running and blocks until
// search has stopped
func (s *Search) WaitWhileSearching() {
	// get and release semaphore. Will block if search is running
	_ = s.isRunning.Acquire(context.Background(), 1)
	s.isRunning.Release(1)
}

// SetUciHandler sets the UCI handler to communicate with the
// UCI user interface. If not set output will be sent to Stdout.
func (s *Search) SetUciHandler(uciHandler uciInterface.UciDriver) {
	s.uciHandlerPtr = uciHandler
}

// GetUciHandlerPtr returns the current UciHandler or nil if none is set.
func (s *Search) GetUciHandlerPtr() uciInterface.UciDriver {
	return s.uciHandlerPtr
}

// IsReady signals the uciHandler that the search is ready. Part of the
// UCI protocol handshake that makes sure the engine is initialized
// before it is asked to search.
func (s *Search) IsReady() {
	s.initialize()
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendReadyOk()
	} else {
		log.Debug("uci >> readyok")
	}
}

// LastSearchResult returns a copy of the last search result
func (s *Search) LastSearchResult() Result {
	return *s.lastSearchResult
}

// ClearHash empties the transposition table without changing its size.
// A no-op if no table has been created yet.
func (s *Search) ClearHash() {
	if s.tt != nil {
		s.tt.Clear()
	}
}

// ResizeHash resizes the transposition table to sizeInMB, discarding its
// current contents. Creates the table if one does not exist yet.
func (s *Search) ResizeHash(sizeInMB int) {
	if s.tt == nil {
		s.tt = transpositiontable.New(sizeInMB)
		return
	}
	s.tt.Resize(sizeInMB)
}

// //////////////////////////////////////////////////////
// // Private
// //////////////////////////////////////////////////////

// run is called by StartSearch() in a separate go-routine. It runs the
// actual search until a search limit is reached or the search has been
// stopped by StopSearch().
func (s *Search) run(b *position.Board, sl *Limits) {
	if !s.isRunning.TryAcquire(1) {
		log.Error("Search already running")
		return
	}
	defer s.isRunning.Release(1)

	s.startTime = time.Now()

	s.initialize()
	s.hasResult = false
	s.stopFlag = false
	s.nodesVisited = 0
	s.curDepth = 0
	s.curExtraDepth = 0
	s.statistics = Statistics{}

	s.setupSearchLimits(b, sl)

	// release the init phase lock to signal the calling go routine
	// waiting in StartSearch() to return
	s.initSemaphore.Release(1)

	result := s.iterativeDeepening(b, sl)

	// If we arrive here and the search is not stopped it means that the search
	// was finished before it has been stopped by stopSearchFlag or ponderhit.
	// We wait here until search has completed.
	if !s.stopFlag && (sl.Ponder || sl.Infinite) {
		log.Debug("Search finished before stopped or ponderhit! Waiting for stop/ponderhit to send result")
		for !s.stopFlag && (sl.Ponder || sl.Infinite) {
			time.Sleep(5 * time.Millisecond)
		}
	}

	result.SearchTime = time.Since(s.startTime)

	// At the end of a search we send the result in any case even if
	// search has been stopped. Best move is the best move so far.
	s.sendResult(result)

	s.lastSearchResult = result
	s.hasResult = true

	log.Info(out.Sprintf("Search finished after %d ms ", result.SearchTime.Milliseconds()))
	log.Info(out.Sprintf("Search depth was %d(%d) with %d nodes visited. NPS = %d nps",
		s.curDepth, s.curExtraDepth, s.nodesVisited, s.nps()))
	log.Infof("Search result: %s", result.String())

	// make sure a stray goroutine never thinks we are still searching
	s.stopFlag = true
}

// initialize sets up the transposition table and evaluator. Can be called
// several times without redoing initialization that already happened.
func (s *Search) initialize() {
	if s.tt == nil {
		s.tt = transpositiontable.New(config.Settings.Search.TTSizeMB)
	}
	if s.eval == nil {
		s.eval = evaluator.NewEvaluator()
	}
}

func (s *Search) stopConditions() bool {
	if s.stopFlag {
		return true
	}
	if s.searchLimits.Nodes > 0 && s.nodesVisited >= s.searchLimits.Nodes {
		s.stopFlag = true
		return true
	}
	if s.searchLimits.TimeControl && config.Settings.Search.NodesPerTimeCheck > 0 &&
		uint64(s.nodesVisited)%config.Settings.Search.NodesPerTimeCheck == 0 {
		if time.Since(s.startTime) >= s.timeLimit {
			s.stopFlag = true
		}
	}
	return s.stopFlag
}

func (s *Search) setupSearchLimits(b *position.Board, sl *Limits) {
	if sl.Infinite {
		log.Debug("Search mode: Infinite")
	}
	if sl.Ponder {
		log.Debug("Search mode: Ponder")
	}
	if sl.Mate > 0 {
		log.Debugf("Search mode: Search for mate in %d", sl.Mate)
	}
	if sl.TimeControl {
		s.timeLimit = s.setupTimeControl(b, sl)
		if sl.MoveTime > 0 {
			log.Debugf("Search mode: Time controlled: Time per move %d ms", sl.MoveTime.Milliseconds())
		} else {
			log.Debug(out.Sprintf("Search mode: Time controlled: White = %d ms (inc %d ms) Black = %d ms (inc %d ms) Moves to go: %d",
				sl.WhiteTime.Milliseconds(), sl.WhiteInc.Milliseconds(),
				sl.BlackTime.Milliseconds(), sl.BlackInc.Milliseconds(),
				sl.MovesToGo))
			log.Debug(out.Sprintf("Search mode: Time limit     : %d ms", s.timeLimit.Milliseconds()))
		}
	} else {
		log.Debug("Search mode: No time control")
	}
	if sl.Depth > 0 {
		log.Debugf("Search mode: Depth limited  : %d", sl.Depth)
	}
	if sl.Nodes > 0 {
		log.Debugf("Search mode: Nodes limited  : %d", sl.Nodes)
	}
	if sl.Moves.Len() > 0 {
		log.Debugf("Search mode: Moves limited  : %s", sl.Moves.StringUci())
	}
}

func (s *Search) setupTimeControl(b *position.Board, sl *Limits) time.Duration {
	if sl.MoveTime > 0 {
		return sl.MoveTime
	}
	// remaining time - estimated time per move
	movesLeft := int64(sl.MovesToGo)
	if movesLeft == 0 {
		// we estimate minimum 10 more moves in final game phases;
		// in early game phases this grows up to 40
		movesLeft = int64(10 + 30*(b.Phase()/GamePhaseMax))
	}
	if movesLeft == 0 {
		movesLeft = 1
	}
	var timeLeft time.Duration
	if b.Side() == White {
		timeLeft = sl.WhiteTime + time.Duration(movesLeft*sl.WhiteInc.Nanoseconds())
	} else {
		timeLeft = sl.BlackTime + time.Duration(movesLeft*sl.BlackInc.Nanoseconds())
	}
	timeLimit := time.Duration(timeLeft.Nanoseconds() / movesLeft)
	if timeLimit.Milliseconds() < 100 {
		// limits for very short available time reduced by another 20%
		timeLimit = time.Duration(int64(0.8 * float64(timeLimit.Nanoseconds())))
	} else {
		// reduced by 10%
		timeLimit = time.Duration(int64(0.9 * float64(timeLimit.Nanoseconds())))
	}
	return timeLimit
}

func (s *Search) sendResult(result *Result) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendResult(result.BestMove, result.PonderMove)
	}
}

func (s *Search) sendSearchUpdateToUci() {
	if s.uciHandlerPtr == nil {
		return
	}
	if s.nodesVisited%10_000 == 0 {
		s.uciHandlerPtr.SendSearchUpdate(s.curDepth, s.curExtraDepth, uint64(s.nodesVisited), s.nps(),
			time.Since(s.startTime), s.tt.Hashfull())
	}
}

func (s *Search) nps() uint64 {
	elapsed := time.Since(s.startTime)
	if elapsed <= 0 {
		return 0
	}
	return uint64(float64(s.nodesVisited) * float64(time.Second) / float64(elapsed))
}
