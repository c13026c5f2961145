package dagobah

import "testing"

func TestStandardizeToBaseUnitKilometers(t *testing.T) {
	q, ok := standardizeToBaseUnit(5, "km")
	if !ok {
		t.Fatal("expected km to resolve")
	}
	if q.dimension != "length" || q.magnitude != 5000 {
		t.Fatalf("expected 5000m, got %+v", q)
	}
}

func TestStandardizeToBaseUnitUnknown(t *testing.T) {
	if _, ok := standardizeToBaseUnit(1, "furlong"); ok {
		t.Fatal("expected unregistered unit to fail")
	}
}

func TestQuantitySimilarityCloseMatch(t *testing.T) {
	a, _ := standardizeToBaseUnit(5, "km")
	b, _ := standardizeToBaseUnit(5000, "m")
	if s := quantitySimilarity(a, b); s != 1.0 {
		t.Fatalf("expected exact agreement to score 1.0, got %v", s)
	}
}

func TestQuantitySimilarityDimensionMismatch(t *testing.T) {
	length, _ := standardizeToBaseUnit(5, "km")
	currency, _ := standardizeToBaseUnit(5, "euro")
	if s := quantitySimilarity(length, currency); s != 0 {
		t.Fatalf("expected mismatched dimensions to score 0, got %v", s)
	}
}

func TestQuantitySimilarityCurrencyLowerThreshold(t *testing.T) {
	a, _ := standardizeToBaseUnit(100, "euro")
	b, _ := standardizeToBaseUnit(80, "euro")
	if s := quantitySimilarity(a, b); s == 0 {
		t.Fatalf("expected currency's looser threshold to accept an 80/100 ratio, got %v", s)
	}
}

func TestRegisterUnitAddsNewDimension(t *testing.T) {
	RegisterUnit("fortnight", "time", 1209600)
	q, ok := standardizeToBaseUnit(2, "fortnight")
	if !ok || q.dimension != "time" {
		t.Fatalf("expected registered unit to resolve, got %+v ok=%v", q, ok)
	}
}

func TestParseQuantityLiteralRoundTrip(t *testing.T) {
	unitID, ok := parseQuantityLiteral(formatQuantityTag("Q11573"))
	if !ok || unitID != "Q11573" {
		t.Fatalf("expected round trip to recover unit id, got %q ok=%v", unitID, ok)
	}
}
