package dagobah

import "testing"

func TestCPATaskFindsDirectRelation(t *testing.T) {
	r := newGeographyRun(t)
	r.rankAllCEA(false)

	annots := r.cpaTask(0, 1, false)
	if len(annots) == 0 {
		t.Fatal("expected at least one CPA relation between the city and country columns")
	}
	found := false
	for _, a := range annots {
		if a.RelationID == "P17" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected P17 (country) among CPA relations, got %+v", annots)
	}
}

func TestCPATaskSkipsUnrelatedPair(t *testing.T) {
	r := newGeographyRun(t)
	r.rankAllCEA(false)
	r.unrelatedPairs[ColumnPair{HeadColIndex: 0, TailColIndex: 1}] = struct{}{}

	if annots := r.cpaTask(0, 1, false); annots != nil {
		t.Fatalf("expected nil for a pair marked unrelated, got %v", annots)
	}
}

func TestCPATaskOnlyOneUsesThresholdGreaterOrEqual(t *testing.T) {
	r := newGeographyRun(t)
	r.rankAllCEA(false)

	all := r.cpaTask(0, 1, false)
	top := r.cpaTask(0, 1, true)
	if len(all) == 0 || len(top) == 0 {
		t.Fatal("expected non-empty CPA results for a related entity-entity pair")
	}
	topWeighted := top[0].Coverage * top[0].Score
	for _, a := range top {
		if a.Coverage*a.Score < topWeighted {
			t.Fatalf("expected only_one entries to all meet the top weighted score via >=, got %+v", a)
		}
	}
}
