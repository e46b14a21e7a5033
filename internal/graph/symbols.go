package graph

import (
	"fmt"
	"strings"
)

// Symbol selects the glyph family a graph is drawn with.
type Symbol int

const (
	// Braille packs 2x4 dots per cell and gives the finest resolution.
	Braille Symbol = iota
	// Block uses quadrant block elements.
	Block
	// TTY uses shade characters that render on the Linux console.
	TTY
)

// Symbols lists every family in cycling order.
var Symbols = []Symbol{Braille, Block, TTY}

func (s Symbol) String() string {
	switch s {
	case Braille:
		return "braille"
	case Block:
		return "block"
	case TTY:
		return "tty"
	default:
		return fmt.Sprintf("symbol(%d)", int(s))
	}
}

// Next returns the family after s, wrapping around. Unknown values are
// drawn as braille, so they advance as braille does.
func (s Symbol) Next() Symbol {
	if s < 0 || int(s) >= len(Symbols) {
		s = Braille
	}
	return Symbols[(int(s)+1)%len(Symbols)]
}

// ParseSymbol maps a config or flag value to a Symbol.
func ParseSymbol(name string) (Symbol, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "braille", "":
		return Braille, nil
	case "block":
		return Block, nil
	case "tty":
		return TTY, nil
	default:
		return Braille, fmt.Errorf("unknown graph symbol %q", name)
	}
}

// SymbolNames returns the accepted names for ParseSymbol.
func SymbolNames() []string {
	names := make([]string, len(Symbols))
	for i, s := range Symbols {
		names[i] = s.String()
	}
	return names
}

// A glyph table is indexed by left*5 + right, where left and right are the
// quantized levels (0..4) of the two samples sharing one cell.
type table = [25]string

var brailleUp = table{
	" ", "⢀", "⢠", "⢰", "⢸",
	"⡀", "⣀", "⣠", "⣰", "⣸",
	"⡄", "⣄", "⣤", "⣴", "⣼",
	"⡆", "⣆", "⣦", "⣶", "⣾",
	"⡇", "⣇", "⣧", "⣷", "⣿",
}

var brailleDown = table{
	" ", "⠈", "⠘", "⠸", "⢸",
	"⠁", "⠉", "⠙", "⠹", "⢹",
	"⠃", "⠋", "⠛", "⠻", "⢻",
	"⠇", "⠏", "⠟", "⠿", "⢿",
	"⡇", "⡏", "⡟", "⡿", "⣿",
}

var blockUp = table{
	" ", "▗", "▗", "▐", "▐",
	"▖", "▄", "▄", "▟", "▟",
	"▖", "▄", "▄", "▟", "▟",
	"▌", "▙", "▙", "█", "█",
	"▌", "▙", "▙", "█", "█",
}

var blockDown = table{
	" ", "▝", "▝", "▐", "▐",
	"▘", "▀", "▀", "▜", "▜",
	"▘", "▀", "▀", "▜", "▜",
	"▌", "▛", "▛", "█", "█",
	"▌", "▛", "▛", "█", "█",
}

// Shade glyphs have no vertical direction, so both orientations share a table.
var ttyUp = table{
	" ", "░", "░", "▒", "▒",
	"░", "░", "▒", "▒", "█",
	"░", "▒", "▒", "▒", "█",
	"▒", "▒", "▒", "█", "█",
	"▒", "█", "█", "█", "█",
}

var ttyDown = ttyUp

// glyphs returns the table for a family and orientation. Unknown families
// fall back to braille.
func glyphs(s Symbol, inverted bool) *table {
	switch {
	case s == Braille && !inverted:
		return &brailleUp
	case s == Braille && inverted:
		return &brailleDown
	case s == Block && !inverted:
		return &blockUp
	case s == Block && inverted:
		return &blockDown
	case s == TTY && !inverted:
		return &ttyUp
	case s == TTY && inverted:
		return &ttyDown
	default:
		if inverted {
			return &brailleDown
		}
		return &brailleUp
	}
}

// glyph returns the character for a pair of quantized levels.
func glyph(s Symbol, inverted bool, left, right int) string {
	return glyphs(s, inverted)[key(left, right)]
}

func key(left, right int) int {
	k := left*5 + right
	if k < 0 {
		return 0
	}
	if k > 24 {
		return 24
	}
	return k
}
