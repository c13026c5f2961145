package dagobah

import "testing"

func TestDateSimilarityExactMatch(t *testing.T) {
	if s := dateSimilarity("2006-01-02", "2006-01-02"); s != 1.0 {
		t.Fatalf("expected 1.0 for identical dates, got %v", s)
	}
}

func TestDateSimilarityYearOnlyMatch(t *testing.T) {
	if s := dateSimilarity("2006-01-02", "2006-06-15"); s != 0.8 {
		t.Fatalf("expected 0.8 for same-year dates, got %v", s)
	}
}

func TestDateSimilarityNoMatch(t *testing.T) {
	if s := dateSimilarity("2006-01-02", "2010-01-02"); s != 0 {
		t.Fatalf("expected 0 for different years, got %v", s)
	}
}

func TestDateSimilarityUnparsable(t *testing.T) {
	if s := dateSimilarity("not-a-date", "2006-01-02"); s != 0 {
		t.Fatalf("expected 0 when one side fails to parse, got %v", s)
	}
}

func TestPeriodSimilarityMatchingEndpoints(t *testing.T) {
	s := periodSimilarity("2006-2007", "2006:2007")
	if s != 1.0 {
		t.Fatalf("expected 1.0 for matching period endpoints, got %v", s)
	}
}

func TestPeriodSimilarityMalformedCell(t *testing.T) {
	if s := periodSimilarity("not a period", "2006:2007"); s != 0 {
		t.Fatalf("expected 0 for malformed cell, got %v", s)
	}
}
