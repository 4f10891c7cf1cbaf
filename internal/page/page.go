// Package page holds the text content shown around the 3D scene and renders
// it as plain text when the scene cannot start.
package page

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

// Content is the hero, story and footer text.
type Content struct {
	Title    string
	Subtitle string
	Story    []string
	Footer   string
}

// Default returns the shipped page content.
func Default() Content {
	return Content{
		Title:    "A Quiet Measure of Days",
		Subtitle: "A character study in stillness, movement, and light",
		Story: []string{
			"I learned to measure my days by the way light settles on things.",
			"There are mornings when the world is a cool, quiet bowl — mist settling over the valley, " +
				"the distant teeth of the mountains softened by blue haze.",
			"The trail is honest work. Stones remember rain. Roots remember footsteps. " +
				"I walk alone, not because I am lonely, but because the forest speaks more clearly that way.",
			"When I come down, I carry a steadiness in my chest. " +
				"I move through the city without urgency — watching shadows stretch.",
			"At home, there is softness. A sleeping cat. A couch warmed by afternoon light.",
			"What I am learning is not speed, nor certainty. It is presence.",
		},
		Footer: "vin the pooh ~ by Mii",
	}
}

// DefaultWidth is the column WriteText wraps at.
const DefaultWidth = 72

// WriteText renders c to w as plain text wrapped at DefaultWidth.
func (c Content) WriteText(w io.Writer) error {
	return c.WriteWrapped(w, DefaultWidth)
}

// WriteWrapped renders c to w, wrapping paragraphs at width columns. A width
// below 20 disables wrapping.
func (c Content) WriteWrapped(w io.Writer, width int) error {
	bw := bufio.NewWriter(w)

	title := cases.Upper(language.English).String(c.Title)
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, strings.Repeat("=", DisplayWidth(title)))
	if c.Subtitle != "" {
		fmt.Fprintln(bw, c.Subtitle)
	}

	for _, p := range c.Story {
		fmt.Fprintln(bw)
		for _, line := range Wrap(p, width) {
			fmt.Fprintln(bw, line)
		}
	}

	if c.Footer != "" {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "~", strings.TrimSpace(c.Footer))
	}
	return bw.Flush()
}

// DisplayWidth returns the number of terminal columns s occupies. Wide and
// fullwidth East Asian runes take two columns; ambiguous ones take one.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// Wrap splits text into lines of at most width columns, breaking on spaces.
// Words longer than width get a line of their own.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width < 20 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	var line strings.Builder
	n := 0
	for _, word := range words {
		wn := DisplayWidth(word)
		if n > 0 && n+1+wn > width {
			lines = append(lines, line.String())
			line.Reset()
			n = 0
		}
		if n > 0 {
			line.WriteByte(' ')
			n++
		}
		line.WriteString(word)
		n += wn
	}
	return append(lines, line.String())
}
