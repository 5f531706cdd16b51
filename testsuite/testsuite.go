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

// Package testsuite runs chess test suites made of EPD (Extended Position
// Description) lines. An EPD line is a standard FEN plus metadata
// describing the expected result of a search on that position.
// https://www.chessprogramming.org/Extended_Position_Description
// Only the "bm" (best move), "am" (avoid move) and "dm" (direct mate)
// opcodes are implemented.
package testsuite

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/corvidchess/engine/config"
	"github.com/corvidchess/engine/logging"
	"github.com/corvidchess/engine/movearray"
	"github.com/corvidchess/engine/movegen"
	"github.com/corvidchess/engine/position"
	"github.com/corvidchess/engine/search"
	. "github.com/corvidchess/engine/types"
)

var out = message.NewPrinter(language.English)
var log = logging.GetLog()

// testType identifies which EPD opcode a Test checks.
type testType uint8

// Implemented test types.
const (
	None testType = iota
	DM   testType = iota
	BM   testType = iota
	AM   testType = iota
)

// resultType is the outcome of running a single Test.
type resultType uint8

// Possible outcomes of running a Test.
const (
	NotTested resultType = iota
	Skipped   resultType = iota
	Failed    resultType = iota
	Success   resultType = iota
)

// suiteResult tallies the outcomes of a whole TestSuite run.
type suiteResult struct {
	counter          int
	successCounter   int
	failedCounter    int
	skippedCounter   int
	notTestedCounter int
}

// Test is one EPD line: the position it was read from, the opcode and
// target moves it specifies, and (once run) the actual result.
type Test struct {
	id          string
	fen         string
	tType       testType
	targetMoves movearray.MoveArray
	mateDepth   int
	target      Move
	actual      Move
	value       Value
	rType       resultType
	line        string
}

// TestSuite is a parsed EPD file, ready to run with RunTests.
type TestSuite struct {
	Tests    []*Test
	Time     time.Duration
	Depth    int
	FilePath string
}

// NewTestSuite reads filePath and builds a TestSuite from every EPD line
// it contains. Unparseable lines are logged and skipped.
func NewTestSuite(filePath string, searchTime time.Duration, depth int) (*TestSuite, error) {
	out.Println("Preparing Test Suite", filePath)

	config.LogLevel = 2
	config.SearchLogLevel = 2
	config.Settings.Search.UseBook = false

	lines, err := getTestLines(filePath)
	if err != nil {
		return nil, err
	}

	ts := &TestSuite{
		Tests:    make([]*Test, 0, len(*lines)),
		Time:     searchTime,
		Depth:    depth,
		FilePath: filePath,
	}

	for _, line := range *lines {
		test := getTest(line)
		if test == nil {
			continue
		}
		ts.Tests = append(ts.Tests, test)
	}

	return ts, nil
}

// RunTests runs every Test in the suite sequentially and prints a report.
func (ts *TestSuite) RunTests() {
	startTime := time.Now()

	s := search.NewSearch()
	sl := search.NewSearchLimits()
	sl.MoveTime = ts.Time
	sl.Depth = ts.Depth
	if sl.MoveTime > 0 {
		sl.TimeControl = true
	}

	out.Printf("Running Test Suite\n")
	out.Printf("==================================================================\n")
	out.Printf("EPD File:   %s\n", ts.FilePath)
	out.Printf("SearchTime: %d ms\n", ts.Time.Milliseconds())
	out.Printf("MaxDepth:   %d\n", ts.Depth)
	out.Printf("Date:       %s\n", time.Now().Local())
	out.Println()

	for _, t := range ts.Tests {
		out.Printf("Test %s -- Target Result %s\n", t.line, t.targetMoves.StringUci())
		startTime2 := time.Now()
		runSingleTest(s, sl, t)
		elapsedTime := time.Since(startTime2)
		out.Printf("Test finished in %d ms with result %s (%s)\n\n",
			elapsedTime.Milliseconds(), t.rType.String(), t.actual.StringUci())
	}

	tr := suiteResult{}
	for _, t := range ts.Tests {
		tr.counter++
		switch t.rType {
		case NotTested:
			tr.notTestedCounter++
		case Skipped:
			tr.skippedCounter++
		case Failed:
			tr.failedCounter++
		case Success:
			tr.successCounter++
		}
	}

	elapsed := time.Since(startTime)

	out.Printf("Results for Test Suite %s\n", ts.FilePath)
	out.Printf("------------------------------------------------------------------------------------------------------------------------------------\n")
	out.Printf("EPD File:   %s\n", ts.FilePath)
	out.Printf("SearchTime: %d ms\n", ts.Time.Milliseconds())
	out.Printf("MaxDepth:   %d\n", ts.Depth)
	out.Printf("Date:       %s\n", time.Now().Local())
	out.Printf("====================================================================================================================================\n")
	out.Printf(" %-4s | %-10s | %-8s | %-8s | %-15s | %s | %s\n", " Nr.", "Result", "Move", "Value", "Expected Result", "Fen", "Id")
	out.Printf("====================================================================================================================================\n")
	for i, t := range ts.Tests {
		if t.tType == DM {
			out.Printf(" %-4d | %-10s | %-8s | %-8s | %s%-15d | %s | %s\n",
				i+1, t.rType.String(), t.actual.StringUci(), t.value.String(), "dm ", t.mateDepth, t.fen, t.id)
		} else {
			out.Printf(" %-4d | %-10s | %-8s | %-8s | %s %-15s | %s | %s\n",
				i+1, t.rType.String(), t.actual.StringUci(), t.value.String(), t.tType.String(), t.targetMoves.StringUci(), t.fen, t.id)
		}
	}
	out.Printf("====================================================================================================================================\n")
	out.Printf("Successful: %-3d (%d %%)\n", tr.successCounter, pct(tr.successCounter, tr.counter))
	out.Printf("Failed:     %-3d (%d %%)\n", tr.failedCounter, pct(tr.failedCounter, tr.counter))
	out.Printf("Skipped:    %-3d (%d %%)\n", tr.skippedCounter, pct(tr.skippedCounter, tr.counter))
	out.Printf("Not tested: %-3d (%d %%)\n", tr.notTestedCounter, pct(tr.notTestedCounter, tr.counter))
	out.Printf("\n")
	out.Printf("Test time: %d ms\n", elapsed.Milliseconds())
}

func pct(part, total int) int {
	if total == 0 {
		return 0
	}
	return 100 * part / total
}

// runSingleTest dispatches t to the search routine matching its opcode.
func runSingleTest(s *search.Search, sl *search.Limits, t *Test) {
	s.ClearHash()
	sl.Mate = 0
	p, err := position.NewFromFEN(t.fen)
	if err != nil {
		log.Warningf("TestSet: id = '%s' could not be recreated from fen %s: %s", t.id, t.fen, err)
		t.rType = Skipped
		return
	}
	switch t.tType {
	case DM:
		directMateTest(s, sl, p, t)
	case BM:
		bestMoveTest(s, sl, p, t)
	case AM:
		avoidMoveMateTest(s, sl, p, t)
	default:
		log.Warningf("Unknown Test type: %d", t.tType)
		t.rType = Skipped
	}
}

func directMateTest(s *search.Search, sl *search.Limits, p *position.Board, t *Test) {
	sl.Mate = t.mateDepth
	s.StartSearch(*p, *sl)
	s.WaitWhileSearching()
	t.actual = s.LastSearchResult().BestMove
	t.value = s.LastSearchResult().BestValue
	if t.value.String() == fmt.Sprintf("mate %d", t.mateDepth) {
		log.Infof("TestSet: id = '%s' SUCCESS", t.id)
		t.rType = Success
		return
	}
	log.Infof("TestSet: id = '%s' FAILED", t.id)
	t.rType = Failed
}

func bestMoveTest(s *search.Search, sl *search.Limits, p *position.Board, t *Test) {
	s.StartSearch(*p, *sl)
	s.WaitWhileSearching()
	t.actual = s.LastSearchResult().BestMove
	t.value = s.LastSearchResult().BestValue
	for i := 0; i < t.targetMoves.Len(); i++ {
		if t.targetMoves.At(i).MoveOf() == t.actual.MoveOf() {
			log.Infof("TestSet: id = '%s' SUCCESS", t.id)
			t.rType = Success
			return
		}
	}
	log.Infof("TestSet: id = '%s' FAILED", t.id)
	t.rType = Failed
}

func avoidMoveMateTest(s *search.Search, sl *search.Limits, p *position.Board, t *Test) {
	s.StartSearch(*p, *sl)
	s.WaitWhileSearching()
	t.actual = s.LastSearchResult().BestMove
	t.value = s.LastSearchResult().BestValue
	for i := 0; i < t.targetMoves.Len(); i++ {
		if t.targetMoves.At(i).MoveOf() == t.actual.MoveOf() {
			log.Infof("TestSet: id = '%s' FAILED", t.id)
			t.rType = Failed
			return
		}
	}
	log.Infof("TestSet: id = '%s' SUCCESS", t.id)
	t.rType = Success
}

var leadingComments = regexp.MustCompile(`^\s*#.*$`)
var trailingComments = regexp.MustCompile(`^(.*)#([^;]*)$`)
var epdRegex = regexp.MustCompile(`^\s*(.*?) (bm|dm|am) (.*?);(.* id "(.*?)";)?.*$`)

// getTest parses a single EPD line into a Test, or nil if the line is
// blank, a comment, or otherwise not a recognizable EPD test.
func getTest(line string) *Test {
	line = strings.TrimSpace(line)
	line = leadingComments.ReplaceAllString(line, "")
	line = trailingComments.ReplaceAllString(line, "")

	if len(line) == 0 {
		return nil
	}

	if !epdRegex.MatchString(line) {
		log.Warningf("No EPD found in %s", line)
		return nil
	}
	parts := epdRegex.FindStringSubmatch(line)

	fen := parts[1]
	p, err := position.NewFromFEN(fen)
	if err != nil {
		log.Warningf("fen part of EPD is invalid. %s", fen)
		return nil
	}

	var ttype testType
	switch parts[2] {
	case "dm":
		ttype = DM
	case "bm":
		ttype = BM
	case "am":
		ttype = AM
	default:
		log.Warningf("Opcode from EPD is invalid or not implemented %s", parts[2])
		return nil
	}

	resultMoves := movearray.New(4)
	dmDepth := 0
	if ttype == BM || ttype == AM {
		result := parts[3]
		result = strings.ReplaceAll(result, "!", "")
		result = strings.ReplaceAll(result, "?", "")

		gen := movegen.New()
		legal := gen.GenerateLegal(p, movegen.GenAll)
		for _, token := range strings.Fields(result) {
			m, ok := parseSanMove(p, legal, token)
			if ok {
				resultMoves.PushBack(m)
			}
		}
		if resultMoves.Len() == 0 {
			log.Warningf("Result moves from EPD is/are invalid on this position %s", parts[3])
			return nil
		}
	} else if ttype == DM {
		dmDepth, err = strconv.Atoi(parts[3])
		if err != nil {
			log.Warningf("Direct mate depth from EPD is invalid %s", parts[3])
			return nil
		}
	}

	return &Test{
		id:          parts[5],
		fen:         fen,
		tType:       ttype,
		targetMoves: resultMoves,
		mateDepth:   dmDepth,
		line:        line,
	}
}

var sanMove = regexp.MustCompile(`^([KQRBN]?)((?:[a-h][1-8]|[a-h]|[1-8])?)x?([a-h][1-8])(?:=([QRBN]))?[+#]?$`)

// parseSanMove resolves a SAN token such as "Nf3", "Qxd5+", "e8=Q" or
// "O-O" against the legal moves in legal, returning false if it does not
// match exactly one of them. This package's own movegen has no general
// SAN resolver, so EPD bm/am target moves - which are always given in
// SAN - are matched here directly.
func parseSanMove(p *position.Board, legal *movearray.MoveArray, token string) (Move, bool) {
	token = strings.TrimSpace(token)

	switch token {
	case "O-O", "0-0":
		return findCastle(p, legal, true)
	case "O-O-O", "0-0-0":
		return findCastle(p, legal, false)
	}

	m := sanMove.FindStringSubmatch(token)
	if m == nil {
		return MoveNone, false
	}
	pieceLetter, disambig, dest, promoLetter := m[1], m[2], m[3], m[4]

	wantType := Pawn
	switch pieceLetter {
	case "K":
		wantType = King
	case "Q":
		wantType = Queen
	case "R":
		wantType = Rook
	case "B":
		wantType = Bishop
	case "N":
		wantType = Knight
	}

	var wantFile File = FileNone
	var wantRank Rank = RankNone
	switch len(disambig) {
	case 2:
		wantFile, wantRank = File(disambig[0]-'a'), Rank(disambig[1]-'1')
	case 1:
		if disambig[0] >= 'a' && disambig[0] <= 'h' {
			wantFile = File(disambig[0] - 'a')
		} else {
			wantRank = Rank(disambig[0] - '1')
		}
	}

	destSq := MakeSquare(dest)
	var wantPromo PieceType = PtNone
	switch promoLetter {
	case "Q":
		wantPromo = Queen
	case "R":
		wantPromo = Rook
	case "B":
		wantPromo = Bishop
	case "N":
		wantPromo = Knight
	}

	var found Move = MoveNone
	matches := 0
	for i := 0; i < legal.Len(); i++ {
		cand := legal.At(i)
		if cand.To() != destSq {
			continue
		}
		if p.PieceOn(cand.From()).TypeOf() != wantType {
			continue
		}
		if wantFile != FileNone && cand.From().FileOf() != wantFile {
			continue
		}
		if wantRank != RankNone && cand.From().RankOf() != wantRank {
			continue
		}
		if wantPromo != PtNone && (!cand.IsPromotion() || cand.PromotionType() != wantPromo) {
			continue
		}
		if wantPromo == PtNone && cand.IsPromotion() {
			continue
		}
		found = cand.MoveOf()
		matches++
	}
	if matches != 1 {
		return MoveNone, false
	}
	return found, true
}

// findCastle returns the legal castle move for the side to move, kingside
// if kingside is true, else queenside.
func findCastle(p *position.Board, legal *movearray.MoveArray, kingside bool) (Move, bool) {
	var target Square
	if p.Side() == White {
		target = SqG1
		if !kingside {
			target = SqC1
		}
	} else {
		target = SqG8
		if !kingside {
			target = SqC8
		}
	}
	for i := 0; i < legal.Len(); i++ {
		cand := legal.At(i)
		if cand.IsCastle() && cand.To() == target {
			return cand.MoveOf(), true
		}
	}
	return MoveNone, false
}

// getTestLines reads filePath, resolving it relative to the working
// directory if it is not already absolute.
func getTestLines(filePath string) (*[]string, error) {
	if !filepath.IsAbs(filePath) {
		wd, _ := os.Getwd()
		filePath = wd + "/" + filePath
	}
	filePath = filepath.Clean(filePath)

	if _, err := os.Stat(filePath); err != nil {
		log.Errorf("File \"%s\" does not exist\n", filePath)
		return nil, err
	}

	log.Infof("Reading test suite tests from file: %s\n", filePath)
	startReading := time.Now()
	lines, err := readFile(filePath)
	if err != nil {
		return nil, err
	}
	elapsedReading := time.Since(startReading)
	log.Infof("Finished reading %d lines from file in: %d ms\n", len(*lines), elapsedReading.Milliseconds())
	return lines, nil
}

func readFile(filePath string) (*[]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		log.Errorf("File \"%s\" could not be read; %s\n", filePath, err)
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Errorf("File \"%s\" could not be closed: %s\n", filePath, cerr)
		}
	}()
	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		log.Errorf("Error while reading file \"%s\": %s\n", filePath, err)
		return nil, err
	}
	return &lines, nil
}

func (rt resultType) String() string {
	switch rt {
	case NotTested:
		return "Not tested"
	case Skipped:
		return "Skipped"
	case Failed:
		return "Failed"
	case Success:
		return "Success"
	default:
		return "N/A"
	}
}

func (tt testType) String() string {
	switch tt {
	case BM:
		return "bm"
	case AM:
		return "am"
	case DM:
		return "dm"
	default:
		return "N/A"
	}
}
