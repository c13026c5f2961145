package dagobah

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// dateParser is a tolerant natural-language parser shared by all date
// comparisons, covering both literal-date KB values and free-text cell
// contents.
var dateParser = newDateParser()

func newDateParser() *when.Parser {
	p := when.New(nil)
	p.Add(en.All...)
	p.Add(common.All...)
	return p
}

// literalDateLayouts are tried before falling back to the NLP-oriented
// when parser, since most KB date literals are ISO-ish rather than
// natural-language phrases.
var literalDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01",
	"2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// parseTolerantDate parses a date string permissively, trying common literal
// layouts before falling back to natural-language parsing. ok is false if no
// layout nor the NLP parser could make sense of s.
func parseTolerantDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range literalDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	r, err := dateParser.Parse(s, time.Now())
	if err != nil || r == nil {
		return time.Time{}, false
	}
	return r.Time, true
}

// dateSimilarity scores two date strings: 1.0 if they parse to the same
// instant, 0.8 if only the years agree, 0 otherwise.
func dateSimilarity(cellText, literalValue string) float64 {
	a, okA := parseTolerantDate(cellText)
	b, okB := parseTolerantDate(literalValue)
	if !okA || !okB {
		return 0
	}
	if a.Equal(b) {
		return 1.0
	}
	if a.Year() == b.Year() {
		return 0.8
	}
	return 0
}

// periodSimilarity compares a "DateTime-Period" KB literal, encoded as
// "start:end", against a cell that must parse as a hyphen-separated pair of
// endpoints; score is 1.0 only if both endpoints match.
func periodSimilarity(cellText, literalValue string) float64 {
	litStart, litEnd, ok := splitPeriod(literalValue, ":")
	if !ok {
		return 0
	}
	cellStart, cellEnd, ok := splitPeriod(cellText, "-")
	if !ok {
		return 0
	}
	if dateSimilarity(cellStart, litStart) == 1.0 && dateSimilarity(cellEnd, litEnd) == 1.0 {
		return 1.0
	}
	return 0
}

func splitPeriod(s, sep string) (start, end string, ok bool) {
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}
