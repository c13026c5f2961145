package dagobah

import "testing"

func TestLiteralSimilarityIdentical(t *testing.T) {
	if s := literalSimilarity("Paris", "Paris"); s != 1.0 {
		t.Fatalf("expected 1.0 for identical strings, got %v", s)
	}
}

func TestLiteralSimilarityCaseInsensitive(t *testing.T) {
	if s := literalSimilarity("PARIS", "paris"); s != 1.0 {
		t.Fatalf("expected 1.0 for case-differing identical strings, got %v", s)
	}
}

func TestLiteralSimilarityUnrelated(t *testing.T) {
	if s := literalSimilarity("Paris", "xyz123"); s > 0.3 {
		t.Fatalf("expected low similarity for unrelated strings, got %v", s)
	}
}

func TestTokenSortRatioIgnoresWordOrder(t *testing.T) {
	a := tokenSortRatio("John Smith", "Smith John")
	if a != 1.0 {
		t.Fatalf("expected 1.0 for reordered tokens, got %v", a)
	}
}

func TestTokenSetRatioIgnoresExtraTokens(t *testing.T) {
	s := tokenSetRatio("New York City", "New York")
	if s < 0.8 {
		t.Fatalf("expected high similarity when one string is a token subset, got %v", s)
	}
}
