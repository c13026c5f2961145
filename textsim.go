package dagobah

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/antzucaro/matchr"
)

// literalSimilarity blends three edit ratios: the mean of the top two of
// {char-ratio, token-sort-ratio, token-set-ratio}, each in [0,1] and
// case-insensitive. Taking only the top two keeps one weak ratio from
// dragging down a match the other two agree on (e.g. "universal" vs
// "universal pictures").
func literalSimilarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	ratios := []float64{
		charRatio(a, b),
		tokenSortRatio(a, b),
		tokenSetRatio(a, b),
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ratios)))
	return (ratios[0] + ratios[1]) / 2
}

// charRatio is a normalized edit-distance similarity, taking the better of
// a Levenshtein-distance ratio and a Jaro-Winkler ratio (the latter scores
// common-prefix matches more generously, which helps with truncated
// aliases).
func charRatio(a, b string) float64 {
	lev := levenshteinRatio(a, b)
	jw := matchr.JaroWinkler(a, b, true)
	if jw > lev {
		return jw
	}
	return lev
}

func levenshteinRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	maxLen := len([]rune(a))
	if bl := len([]rune(b)); bl > maxLen {
		maxLen = bl
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

func tokenSortRatio(a, b string) float64 {
	return charRatio(sortedTokens(a), sortedTokens(b))
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// tokenSetRatio follows fuzzywuzzy's token_set_ratio: split both strings
// into token sets, take the max char-ratio among {intersection alone,
// intersection+unique-to-a, intersection+unique-to-b}, which rewards
// strings that share a core set of words even with extra trailing words
// on one side.
func tokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	intersection := make([]string, 0)
	onlyA := make([]string, 0)
	onlyB := make([]string, 0)
	for t := range tokensA {
		if _, ok := tokensB[t]; ok {
			intersection = append(intersection, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range tokensB {
		if _, ok := tokensA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(intersection)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	inter := strings.Join(intersection, " ")
	interA := strings.TrimSpace(inter + " " + strings.Join(onlyA, " "))
	interB := strings.TrimSpace(inter + " " + strings.Join(onlyB, " "))

	best := charRatio(inter, interA)
	if r := charRatio(inter, interB); r > best {
		best = r
	}
	if r := charRatio(interA, interB); r > best {
		best = r
	}
	return best
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}
