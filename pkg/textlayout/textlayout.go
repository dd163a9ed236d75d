// Package textlayout estimates how node labels wrap and how much room they
// take, without a font rasterizer.
//
// Widths are approximations: a narrow rune is 0.6 of the font size and a
// wide (East Asian) rune is the full font size. Lines are 1.4 font sizes
// tall. That is close enough for spacing nodes; it is not meant for
// pixel-exact rendering.
package textlayout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	DefaultFontSize = 12.0

	narrowRatio     = 0.6
	wideRatio       = 1.0
	lineHeightRatio = 1.4
)

// Result is a wrapped label.
type Result struct {
	Lines  []string
	Width  float64
	Height float64
}

// Measurer wraps text for a fixed font size. The zero value uses
// [DefaultFontSize].
type Measurer struct {
	FontSize float64
}

func (m Measurer) fontSize() float64 {
	if m.FontSize <= 0 {
		return DefaultFontSize
	}
	return m.FontSize
}

// LineHeight returns the height of one line.
func (m Measurer) LineHeight() float64 { return m.fontSize() * lineHeightRatio }

// Width estimates the rendered width of s on a single line.
func (m Measurer) Width(s string) float64 {
	size := m.fontSize()
	var w float64
	for _, r := range s {
		if runewidth.RuneWidth(r) == 2 {
			w += size * wideRatio
		} else {
			w += size * narrowRatio
		}
	}
	return w
}

// Layout wraps text at word boundaries so no line is wider than maxWidth.
// A word that does not fit on a line of its own is split between runes.
// Blank text yields a single empty line of zero width.
func (m Measurer) Layout(text string, maxWidth float64) Result {
	words := strings.Fields(text)
	if len(words) == 0 {
		return Result{Lines: []string{""}, Height: m.LineHeight()}
	}

	var lines []string
	cur := ""
	for _, word := range words {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if m.Width(candidate) <= maxWidth {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
			cur = word
			if m.Width(word) <= maxWidth {
				continue
			}
		}
		parts := m.split(word, maxWidth)
		lines = append(lines, parts[:len(parts)-1]...)
		cur = parts[len(parts)-1]
	}
	if cur != "" {
		lines = append(lines, cur)
	}

	var width float64
	for _, line := range lines {
		width = max(width, m.Width(line))
	}
	return Result{
		Lines:  lines,
		Width:  width,
		Height: float64(len(lines)) * m.LineHeight(),
	}
}

// split breaks word into pieces no wider than maxWidth. A single rune wider
// than maxWidth still gets its own piece.
func (m Measurer) split(word string, maxWidth float64) []string {
	var parts []string
	var cur strings.Builder
	for _, r := range word {
		if cur.Len() > 0 && m.Width(cur.String()+string(r)) > maxWidth {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	if len(parts) == 0 {
		return []string{word}
	}
	return parts
}
