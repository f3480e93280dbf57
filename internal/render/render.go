// Package render writes a window of styled lines to a terminal.
//
// Each row is clipped to the terminal width and the rest of the row is
// overwritten with blanks instead of clearing the screen, which keeps
// redraws from flickering.
package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/Mr-Dark-debug/lobsters/internal/text"
	"github.com/charmbracelet/x/ansi"
)

// Size is the terminal size in cells.
type Size struct {
	Width  int
	Height int
}

// Frame controls what surrounds the rows of a frame.
type Frame struct {
	// Home is written before the first row.
	Home string
	// Break is written between rows.
	Break string
}

var (
	// RawFrame is for a terminal in raw mode: the cursor is sent home
	// first and rows are separated by CRLF.
	RawFrame = Frame{Home: ansi.CursorHomePosition, Break: "\r\n"}

	// ProgramFrame is for output handed to a bubbletea program, which
	// positions the cursor and translates newlines itself.
	ProgramFrame = Frame{Break: "\n"}
)

// Renderer draws lines. The zero value uses ProgramFrame.
type Renderer struct {
	Frame Frame
}

func (r Renderer) frame() Frame {
	if r.Frame == (Frame{}) {
		return ProgramFrame
	}
	return r.Frame
}

// Render writes lines[rowOffset:rowOffset+size.Height] to w, each row
// shifted left by colOffset columns and clipped to size.Width. Output
// depends only on the arguments.
func (r Renderer) Render(w io.Writer, lines []text.Line, rowOffset, colOffset int, size Size) error {
	f := r.frame()
	bw := bufio.NewWriter(w)

	bw.WriteString(f.Home)
	for i, line := range window(lines, rowOffset, size.Height) {
		if i > 0 {
			bw.WriteString(f.Break)
		}
		if err := writeRow(bw, line, colOffset, size.Width); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// RenderString is Render into a string.
func (r Renderer) RenderString(lines []text.Line, rowOffset, colOffset int, size Size) (string, error) {
	var b strings.Builder
	if err := r.Render(&b, lines, rowOffset, colOffset, size); err != nil {
		return "", err
	}
	return b.String(), nil
}

func window(lines []text.Line, offset, height int) []text.Line {
	start := min(max(offset, 0), len(lines))
	end := min(start+max(height, 0), len(lines))
	return lines[start:end]
}

// writeRow emits one line. The offset is consumed across spans, so a span
// entirely left of the offset is dropped and the first span straddling it
// loses its leading columns. Emission stops at the first span that does
// not fit strictly inside the width; that span is truncated with the
// strict-boundary rule and the row is padded to the full width with the
// background of the last span the row saw. That span may have been clipped
// away entirely, not only emitted, so a highlighted row stays highlighted
// when it is scrolled past its end. Empty spans write nothing.
func writeRow(w io.Writer, line text.Line, colOffset, width int) error {
	var col int
	var last text.Span
	skip := max(colOffset, 0)

	for _, span := range line {
		if skip > 0 {
			sw := span.Width()
			if sw <= skip {
				skip -= sw
				last = span.TruncateFront(sw)
				continue
			}
			span = span.TruncateFront(skip)
			skip = 0
		}

		sw := span.Width()
		if col+sw < width {
			if err := writeSpan(w, span); err != nil {
				return err
			}
			col += sw
			last = span
			continue
		}

		cut := span.Truncate(1 + width - col)
		if err := writeSpan(w, cut); err != nil {
			return err
		}
		col += cut.Width()
		last = cut
		break
	}

	if col >= width {
		return nil
	}
	pad := text.New(strings.Repeat(" ", width-col))
	if last.Bg.IsSet() {
		pad = pad.WithBg(last.Bg)
	}
	_, err := pad.WriteTo(w)
	return err
}

func writeSpan(w io.Writer, span text.Span) error {
	if span.IsEmpty() {
		return nil
	}
	_, err := span.WriteTo(w)
	return err
}
