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

package testsuite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/corvidchess/engine/config"
)

func TestMain(m *testing.M) {
	config.Setup()
	os.Exit(m.Run())
}

func writeEpd(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.epd")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for _, l := range lines {
		if _, err := f.WriteString(l + "\n"); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestGetTest(t *testing.T) {
	line := "2b4k/8/8/8/8/3N3N/P4p2/1K6 w - - bm Nhxf2 Ndxf2; id \"FRANKY-1 #7\";"
	test := getTest(line)
	assert.NotNil(t, test)
	assert.EqualValues(t, "2b4k/8/8/8/8/3N3N/P4p2/1K6 w - -", test.fen)
	assert.EqualValues(t, "h3f2 d3f2", test.targetMoves.StringUci())
	assert.EqualValues(t, "FRANKY-1 #7", test.id)
	assert.EqualValues(t, BM, test.tType)

	line = "6k1/P7/8/8/8/8/8/3K4 w - - bm a8=Q; id \"FRANKY-1 #4\";"
	test = getTest(line)
	assert.NotNil(t, test)
	assert.EqualValues(t, "6k1/P7/8/8/8/8/8/3K4 w - -", test.fen)
	assert.EqualValues(t, "a7a8q", test.targetMoves.StringUci())
	assert.EqualValues(t, "FRANKY-1 #4", test.id)
	assert.EqualValues(t, BM, test.tType)

	// invalid fen (rank has 9 squares)
	line = "6k1/P7/8/9/8/8/8/3K4 w - - bm a8=Q; id \"FRANKY-1 #4\";"
	test = getTest(line)
	assert.Nil(t, test)

	// invalid opcode
	line = "6k1/P7/8/8/8/8/8/3K4 w - - aa a8=Q; id \"FRANKY-1 #4\";"
	test = getTest(line)
	assert.Nil(t, test)

	// one of two target moves is invalid on the position - still ok
	line = "2b4k/8/8/8/8/3N3N/P4p2/1K6 w - - bm Nhxf2 Naxf2; id \"FRANKY-1 #7\";"
	test = getTest(line)
	assert.NotNil(t, test)

	// both target moves invalid - whole test dropped
	line = "2b4k/8/8/8/8/3N3N/P4p2/1K6 w - - bm Nbxf2 Naxf2; id \"FRANKY-1 #7\";"
	test = getTest(line)
	assert.Nil(t, test)
}

func TestGetTest_DirectMate(t *testing.T) {
	line := "8/8/8/8/8/3K4/R7/5k2 w - - dm 4; id \"FRANKY-1 #1\";"
	test := getTest(line)
	assert.NotNil(t, test)
	assert.EqualValues(t, DM, test.tType)
	assert.EqualValues(t, 4, test.mateDepth)
}

func TestGetTest_Castle(t *testing.T) {
	line := "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - bm O-O; id \"castle\";"
	test := getTest(line)
	assert.NotNil(t, test)
	assert.EqualValues(t, "e1g1", test.targetMoves.StringUci())
}

func TestNewTestSuite(t *testing.T) {
	path := writeEpd(t,
		"8/8/8/8/8/3K4/R7/5k2 w - - dm 4; id \"FRANKY-1 #1\";",
		"6k1/P7/8/8/8/8/8/3K4 w - - bm a7a8=Q; id \"FRANKY-1 #4\";",
		"# a pure comment line is skipped",
	)
	ts, err := NewTestSuite(path, 2*time.Second, 0)
	assert.Nil(t, err)
	assert.EqualValues(t, 2, len(ts.Tests))
}

func TestRunTests_DirectMate(t *testing.T) {
	path := writeEpd(t, "8/8/8/8/8/3K4/R7/5k2 w - - dm 4; id \"FRANKY-1 #1\";")
	ts, err := NewTestSuite(path, 0, 6)
	assert.Nil(t, err)
	ts.RunTests()
	assert.EqualValues(t, Success, ts.Tests[0].rType)
}
