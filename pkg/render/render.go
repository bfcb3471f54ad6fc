// Package render paints a single logical line reflowed to the terminal
// width and leaves the hardware cursor on the row and column matching a
// logical offset into that line.
package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Margin is reserved at the right edge so a cursor parked after the last
// character of a row never triggers the terminal's own wrap.
const Margin = 5

// Frame describes one paint.
type Frame struct {
	Rows      int
	CursorRow int
	CursorCol int
	Width     int
}

// Span is the number of terminal rows the paint touches. It exceeds Rows by
// one when the cursor sits just past a completely filled last row.
func (f Frame) Span() int {
	if f.CursorRow >= f.Rows {
		return f.CursorRow + 1
	}
	return f.Rows
}

// Layout maps a line of length runes and a cursor offset onto rows of
// columns-Margin cells.
func Layout(length, cursor, columns int) Frame {
	width := max(columns-Margin, 1)
	cursor = min(max(cursor, 0), length)
	rows := (length + width - 1) / width
	if rows == 0 {
		rows = 1
	}
	return Frame{
		Rows:      rows,
		CursorRow: cursor / width,
		CursorCol: cursor % width,
		Width:     width,
	}
}

// Split cuts line into consecutive chunks of width runes; the last chunk may
// be short. An empty line yields one empty row.
func Split(line []rune, width int) []string {
	if len(line) == 0 {
		return []string{""}
	}
	rows := make([]string, 0, (len(line)+width-1)/width)
	for start := 0; start < len(line); start += width {
		end := min(start+width, len(line))
		rows = append(rows, string(line[start:end]))
	}
	return rows
}

type Renderer struct {
	out     io.Writer
	columns func() int
}

// New returns a Renderer writing to out. columns is polled on every paint.
func New(out io.Writer, columns func() int) *Renderer {
	return &Renderer{out: out, columns: columns}
}

// Render paints line starting at the current row, column 0, and parks the
// cursor at the cell of cursor.
func (r *Renderer) Render(line string, cursor int) (Frame, error) {
	runes := []rune(line)
	f := Layout(len(runes), cursor, r.columns())
	rows := Split(runes, f.Width)

	var b strings.Builder
	b.WriteString(strings.Join(rows, "\r\n"))
	b.WriteString(rewind(f.Rows - 1))
	for i := 0; i <= f.CursorRow; i++ {
		var row []rune
		if i < len(rows) {
			row = []rune(rows[i])
		}
		if i == f.CursorRow {
			b.WriteString(string(row[:f.CursorCol]))
			break
		}
		b.WriteString(string(row))
		b.WriteString("\r\n")
	}
	_, err := io.WriteString(r.out, b.String())
	return f, err
}

// Erase blanks length cells of the region painted by prev and leaves the
// cursor at its first cell.
func (r *Renderer) Erase(prev Frame, length int) error {
	if _, err := io.WriteString(r.out, rewind(prev.CursorRow)); err != nil {
		return err
	}
	_, err := r.Render(strings.Repeat(" ", length), 0)
	return err
}

// rewind moves to column 0 and up n rows.
func rewind(n int) string {
	if n <= 0 {
		return "\r"
	}
	return "\r" + ansi.CursorPreviousLine(n)
}
