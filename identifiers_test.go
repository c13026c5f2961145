package dagobah

import "testing"

func TestReverseDirectionRoundTrip(t *testing.T) {
	if got := reverseDirection("P31"); got != "(-)P31" {
		t.Fatalf("expected (-)P31, got %q", got)
	}
	if got := reverseDirection("(-)P31"); got != "P31" {
		t.Fatalf("expected P31, got %q", got)
	}
}

func TestIsPath(t *testing.T) {
	if isPath("P31") {
		t.Fatal("bare predicate should not be a path")
	}
	if !isPath("P31::P279") {
		t.Fatal("joined predicate should be a path")
	}
}

func TestCollapseTransitivePath(t *testing.T) {
	transitive := transitiveSet([]string{"P131"})
	collapsed, ok := collapseTransitivePath("P131", "P131", transitive)
	if !ok || collapsed != "P131" {
		t.Fatalf("expected collapse to P131, got %q ok=%v", collapsed, ok)
	}
	if _, ok := collapseTransitivePath("P131", "P279", transitive); ok {
		t.Fatal("expected no collapse for differing predicates")
	}
	if _, ok := collapseTransitivePath("P279", "P279", transitive); ok {
		t.Fatal("expected no collapse for non-transitive predicate")
	}
}

func TestExpandRelationLabelSinglePredicate(t *testing.T) {
	isValid := func(id string) bool { return id == "P31" }
	label := func(id string) string { return "instance of" }
	prefix := func(id string) string { return "http://www.wikidata.org/prop/direct/" + id }

	gotLabel, gotURI := expandRelationLabel("P31", isValid, label, prefix)
	if gotLabel != "instance of" {
		t.Fatalf("expected label substitution, got %q", gotLabel)
	}
	if gotURI != "http://www.wikidata.org/prop/direct/P31" {
		t.Fatalf("expected uri substitution, got %q", gotURI)
	}
}

func TestExpandRelationLabelBackwardPath(t *testing.T) {
	isValid := func(id string) bool { return id == "P31" || id == "P279" }
	label := func(id string) string {
		if id == "P31" {
			return "instance of"
		}
		return "subclass of"
	}
	prefix := func(id string) string { return id }

	gotLabel, _ := expandRelationLabel("(-)P31::P279", isValid, label, prefix)
	if gotLabel != "(-)instance of::subclass of" {
		t.Fatalf("expected both hops substituted with direction kept, got %q", gotLabel)
	}
}

func TestReverseRelationExpr(t *testing.T) {
	if got := reverseRelationExpr("P57"); got != "(-)P57" {
		t.Fatalf("expected (-)P57, got %q", got)
	}
	if got := reverseRelationExpr("(-)P57"); got != "P57" {
		t.Fatalf("expected P57, got %q", got)
	}
	if got := reverseRelationExpr("(-)P31::P279"); got != "P31::P279" {
		t.Fatalf("expected every backward marker dropped, got %q", got)
	}
}
