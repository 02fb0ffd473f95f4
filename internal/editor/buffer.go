// Package editor is the script text buffer behind the in-app editor. It has no raylib
// dependency; the ui package draws it and feeds it keys.
package editor

import (
	"strings"
)

// TabWidth is the number of spaces Tab inserts.
const TabWidth = 2

// Buffer is a line-based text buffer with a single cursor.
type Buffer struct {
	lines [][]rune
	row   int
	col   int
	// goal column kept across vertical moves
	goal    int
	version uint64
}

// New returns a buffer holding text with the cursor at the start.
func New(text string) *Buffer {
	b := &Buffer{}
	b.SetText(text)
	return b
}

// SetText replaces the content and moves the cursor to the start.
func (b *Buffer) SetText(text string) {
	parts := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	b.lines = make([][]rune, len(parts))
	for i, p := range parts {
		b.lines[i] = []rune(p)
	}
	b.row, b.col, b.goal = 0, 0, 0
	b.version++
}

// Text returns the content joined with newlines.
func (b *Buffer) Text() string {
	var sb strings.Builder
	for i, l := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(l))
	}
	return sb.String()
}

// Version increments on every content change.
func (b *Buffer) Version() uint64 { return b.version }

// Lines returns the lines as strings.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return out
}

// LineCount reports the number of lines (at least 1).
func (b *Buffer) LineCount() int { return len(b.lines) }

// Cursor returns the zero-based row and column (in runes).
func (b *Buffer) Cursor() (row, col int) { return b.row, b.col }

// Insert inserts s at the cursor. Newlines split the line; tabs become spaces.
func (b *Buffer) Insert(s string) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", TabWidth))
	for i, part := range strings.Split(s, "\n") {
		if i > 0 {
			b.splitLine()
		}
		r := []rune(part)
		line := b.lines[b.row]
		nl := make([]rune, 0, len(line)+len(r))
		nl = append(nl, line[:b.col]...)
		nl = append(nl, r...)
		nl = append(nl, line[b.col:]...)
		b.lines[b.row] = nl
		b.col += len(r)
	}
	b.goal = b.col
	b.version++
}

// Newline splits the line at the cursor and copies the current line's indentation.
func (b *Buffer) Newline() {
	indent := leadingSpace(b.lines[b.row])
	if indent > b.col {
		indent = b.col
	}
	prefix := string(b.lines[b.row][:indent])
	b.splitLine()
	b.version++
	if prefix != "" {
		b.Insert(prefix)
	}
	b.goal = b.col
}

func (b *Buffer) splitLine() {
	line := b.lines[b.row]
	head := append([]rune(nil), line[:b.col]...)
	tail := append([]rune(nil), line[b.col:]...)
	b.lines[b.row] = head
	b.lines = append(b.lines, nil)
	copy(b.lines[b.row+2:], b.lines[b.row+1:])
	b.lines[b.row+1] = tail
	b.row++
	b.col = 0
}

// Backspace deletes the rune before the cursor, joining lines at column 0.
func (b *Buffer) Backspace() {
	switch {
	case b.col > 0:
		line := b.lines[b.row]
		b.lines[b.row] = append(line[:b.col-1], line[b.col:]...)
		b.col--
	case b.row > 0:
		prev := b.lines[b.row-1]
		b.col = len(prev)
		b.lines[b.row-1] = append(prev, b.lines[b.row]...)
		b.lines = append(b.lines[:b.row], b.lines[b.row+1:]...)
		b.row--
	default:
		return
	}
	b.goal = b.col
	b.version++
}

// Delete deletes the rune under the cursor, joining the next line at end of line.
func (b *Buffer) Delete() {
	line := b.lines[b.row]
	switch {
	case b.col < len(line):
		b.lines[b.row] = append(line[:b.col], line[b.col+1:]...)
	case b.row < len(b.lines)-1:
		b.lines[b.row] = append(line, b.lines[b.row+1]...)
		b.lines = append(b.lines[:b.row+1], b.lines[b.row+2:]...)
	default:
		return
	}
	b.version++
}

func (b *Buffer) Left() {
	switch {
	case b.col > 0:
		b.col--
	case b.row > 0:
		b.row--
		b.col = len(b.lines[b.row])
	}
	b.goal = b.col
}

func (b *Buffer) Right() {
	switch {
	case b.col < len(b.lines[b.row]):
		b.col++
	case b.row < len(b.lines)-1:
		b.row++
		b.col = 0
	}
	b.goal = b.col
}

func (b *Buffer) Up() {
	if b.row > 0 {
		b.row--
		b.col = min(b.goal, len(b.lines[b.row]))
	}
}

func (b *Buffer) Down() {
	if b.row < len(b.lines)-1 {
		b.row++
		b.col = min(b.goal, len(b.lines[b.row]))
	}
}

// Home moves to the first non-space rune, or to column 0 if already there.
func (b *Buffer) Home() {
	indent := leadingSpace(b.lines[b.row])
	if b.col == indent {
		b.col = 0
	} else {
		b.col = indent
	}
	b.goal = b.col
}

func (b *Buffer) End() {
	b.col = len(b.lines[b.row])
	b.goal = b.col
}

func leadingSpace(line []rune) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}
