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

package uci

import (
	"strconv"
	"strings"

	"github.com/corvidchess/engine/config"
)

// init defines all available uci options and stores them into uciOptions.
func init() {
	uciOptions = map[string]*uciOption{
		"Clear Hash": {NameID: "Clear Hash", HandlerFunc: clearHash, OptionType: Button},
		"Hash":       {NameID: "Hash", HandlerFunc: hashSize, OptionType: Spin, DefaultValue: "64", CurrentValue: strconv.Itoa(config.Settings.Search.TTSizeMB), MinValue: "1", MaxValue: "4096"},
		"Use_Book":   {NameID: "Use_Book", HandlerFunc: useBook, OptionType: Check, DefaultValue: "false", CurrentValue: strconv.FormatBool(config.Settings.Search.UseBook)},
	}
}

// GetOptions returns every available uci option as a slice of "option
// name ... type ..." strings, as sent during the UCI handshake.
func (o optionMap) GetOptions() []string {
	var options []string
	for _, opt := range o {
		options = append(options, opt.String())
	}
	return options
}

// String renders a uciOption as required by the UCI protocol during the
// initialization handshake.
func (o *uciOption) String() string {
	var os strings.Builder
	os.WriteString("option name ")
	os.WriteString(o.NameID)
	os.WriteString(" type ")
	switch o.OptionType {
	case Check:
		os.WriteString("check default ")
		os.WriteString(o.DefaultValue)
	case Spin:
		os.WriteString("spin default ")
		os.WriteString(o.DefaultValue)
		os.WriteString(" min ")
		os.WriteString(o.MinValue)
		os.WriteString(" max ")
		os.WriteString(o.MaxValue)
	case Combo:
		os.WriteString("combo default ")
		os.WriteString(o.DefaultValue)
		os.WriteString(" var ")
		os.WriteString(o.VarValue)
	case Button:
		os.WriteString("button")
	case String:
		os.WriteString("string default ")
		os.WriteString(o.DefaultValue)
	}
	return os.String()
}

// uciOptionType enumerates the UCI option widget kinds.
type uciOptionType int

// UCI option types.
const (
	Check uciOptionType = iota
	Spin
	Combo
	Button
	String
)

// optionHandler is called when the "setoption" command changes an option.
type optionHandler func(*UciHandler, *uciOption)

// uciOption describes one UCI option and the handler invoked when
// "setoption" changes it.
type uciOption struct {
	NameID       string
	HandlerFunc  optionHandler
	OptionType   uciOptionType
	DefaultValue string
	MinValue     string
	MaxValue     string
	VarValue     string
	CurrentValue string
}

// optionMap is a convenience type for the set of available uci options.
type optionMap map[string]*uciOption

// uciOptions holds every uci option this engine advertises.
var uciOptions optionMap

// ////////////////////////////////////////////////////////////////
// HandlerFunc for uci option changes
// ////////////////////////////////////////////////////////////////

func clearHash(u *UciHandler, o *uciOption) {
	u.eng.ClearHash()
	log.Debug("Cleared hash table")
}

func hashSize(u *UciHandler, o *uciOption) {
	v, err := strconv.Atoi(o.CurrentValue)
	if err != nil {
		log.Warningf("Hash option value %q is not a number", o.CurrentValue)
		return
	}
	config.Settings.Search.TTSizeMB = v
	u.eng.ResizeHash(v)
}

func useBook(u *UciHandler, o *uciOption) {
	v, err := strconv.ParseBool(o.CurrentValue)
	if err != nil {
		log.Warningf("Use_Book option value %q is not a bool", o.CurrentValue)
		return
	}
	config.Settings.Search.UseBook = v
	log.Debugf("Set Use_Book to %v", v)
}
