package text

import (
	"unicode"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// Run is a maximal substring with a single direction, listed in visual
// order (leftmost run first). Start and End are rune indices into the
// original string.
type Run struct {
	Text   string
	Start  int
	End    int
	RTL    bool
	Script language.Script
}

// splitRuns resolves the bidirectional structure of text and returns its
// directional runs in visual order. For plain left-to-right text this is a
// single run covering the whole string.
func splitRuns(text string) []Run {
	if text == "" {
		return nil
	}

	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return []Run{ltrRun(text)}
	}
	ordering, err := p.Order()
	if err != nil {
		return []Run{ltrRun(text)}
	}

	runs := make([]Run, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		start, end := r.Pos()
		runs = append(runs, Run{
			Text:   r.String(),
			Start:  start,
			End:    end + 1,
			RTL:    r.Direction() == bidi.RightToLeft,
			Script: runScript(r.String()),
		})
	}
	return runs
}

func ltrRun(text string) Run {
	n := 0
	for range text {
		n++
	}
	return Run{Text: text, Start: 0, End: n, Script: runScript(text)}
}

// runScript returns the script of the first non-space rune, defaulting to
// Latin. Mixed-script runs shape with the dominant script; splitting runs
// further by script is left to the shaper's caller if it ever matters.
func runScript(text string) language.Script {
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
