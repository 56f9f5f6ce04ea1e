package text

import (
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// Segment is a run of one line with a single direction. Segments of a line
// are listed in visual order, left to right.
type Segment struct {
	Text string
	RTL  bool
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\x03", "\n")

// splitLines breaks text at CR, LF, CRLF and the ETX control character
// some exporters use for line breaks. Empty lines are kept.
func splitLines(s string) []string {
	return strings.Split(lineBreaks.Replace(s), "\n")
}

// Segments orders one line with the Unicode bidirectional algorithm.
func Segments(line string) []Segment {
	if line == "" {
		return nil
	}
	p := bidi.Paragraph{}
	if _, err := p.SetString(line, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return []Segment{{Text: line}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []Segment{{Text: line}}
	}
	segs := make([]Segment, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		segs = append(segs, Segment{
			Text: run.String(),
			RTL:  run.Direction() == bidi.RightToLeft,
		})
	}
	return segs
}
