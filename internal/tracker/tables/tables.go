// Package tables turns tracker records into console tables. Building a
// Table is pure and deterministic; Render is the only part that writes.
package tables

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Tone selects how a cell is colored when rendered.
type Tone int

const (
	ToneNone Tone = iota
	// ToneSwatch colors the cell with Palette[Cell.Swatch].
	ToneSwatch
	ToneAccent
	ToneMoney
	// ToneProgress colors the filled and empty parts of a progress bar.
	ToneProgress
)

type Align int

const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

type Cell struct {
	Text   string
	Tone   Tone
	Swatch int
}

type Table struct {
	Title  string
	Header []string
	Align  []Align
	Rows   [][]Cell
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// RGB is one palette entry.
type RGB struct {
	R, G, B int
}

// Palette holds the colors used to group rows by department or role name.
var Palette = []RGB{
	{0xE6, 0x39, 0x46},
	{0xC7, 0x00, 0x39},
	{0xF7, 0x7F, 0x00},
	{0x3A, 0x86, 0xFF},
	{0x83, 0x38, 0xEC},
	{0x00, 0xFF, 0xCC},
	{0x00, 0xFF, 0x00},
	{0xC4, 0xE5, 0x38},
	{0xFF, 0x00, 0x6E},
	{0xFA, 0x80, 0x72},
	{0xFF, 0xA5, 0x00},
	{0xFF, 0xD7, 0x00},
	{0xFF, 0x69, 0xB4},
	{0xFF, 0x00, 0xFF},
	{0xFF, 0x00, 0x00},
}

// ColorIndex maps a name onto a Palette index. The hash runs over UTF-16
// code units; the running value is truncated to 32 bits only before each
// shift, so it can grow past the int32 range.
func ColorIndex(name string) int {
	var hash int64
	for _, unit := range utf16.Encode([]rune(name)) {
		hash = int64(unit) + int64(int32(hash)<<5) - hash
	}
	if hash < 0 {
		hash = -hash
	}
	return int(hash % int64(len(Palette)))
}

const (
	progressWidth = 40
	progressFull  = "█"
	progressEmpty = "░"
)

// ProgressBar draws a fixed-width bar for a percentage in 0..100 followed by
// the percentage with two decimals.
func ProgressBar(percentage float64) string {
	filled := int(percentage/100*progressWidth + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > progressWidth {
		filled = progressWidth
	}
	return strings.Repeat(progressFull, filled) +
		strings.Repeat(progressEmpty, progressWidth-filled) +
		fmt.Sprintf(" %.2f%%", percentage)
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats an amount as US dollars with thousands separators.
func Currency(amount float64) string {
	if amount < 0 {
		return printer.Sprintf("-$%.2f", -amount)
	}
	return printer.Sprintf("$%.2f", amount)
}

func plain(text string) Cell {
	return Cell{Text: text}
}

func number(n interface{}) Cell {
	return Cell{Text: fmt.Sprint(n)}
}

// keyed colors text with the swatch of key; an empty key stays plain.
func keyed(text, key string) Cell {
	if key == "" {
		return Cell{Text: text}
	}
	return Cell{Text: text, Tone: ToneSwatch, Swatch: ColorIndex(key)}
}

func accent(text string) Cell {
	return Cell{Text: text, Tone: ToneAccent}
}

func money(amount float64) Cell {
	return Cell{Text: Currency(amount), Tone: ToneMoney}
}

func progress(percentage float64) Cell {
	return Cell{Text: ProgressBar(percentage), Tone: ToneProgress}
}
