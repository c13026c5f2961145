package dagobah

import "testing"

func newGeographyRun(t *testing.T) *run {
	t.Helper()
	engine, err := New(buildGeographyKB(t), DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r, err := newRun(engine, geographyTable(), geographyLookup())
	if err != nil {
		t.Fatalf("newRun: %v", err)
	}
	r.warmSubgraphs()
	r.entityScoringTask(true, false)
	return r
}

func TestCEATaskRanksTopCandidateFirst(t *testing.T) {
	r := newGeographyRun(t)
	annots := r.ceaTask(0, 1, false)
	if len(annots) == 0 {
		t.Fatal("expected at least one CEA candidate for Paris cell")
	}
	if annots[0].EntityID != "Q90" {
		t.Fatalf("expected Q90 (Paris) to be the top candidate, got %q", annots[0].EntityID)
	}
}

func TestCEATaskOnlyOneCollapsesToTiedGroup(t *testing.T) {
	r := newGeographyRun(t)
	all := r.ceaTask(0, 1, false)
	top := r.ceaTask(0, 1, true)
	if len(top) == 0 || len(top) > len(all) {
		t.Fatalf("expected only_one to return a non-empty subset, got %d of %d", len(top), len(all))
	}
	for _, a := range top {
		if a.Score != all[0].Score {
			t.Fatalf("expected only_one entries to be tied with the top score, got %v vs %v", a.Score, all[0].Score)
		}
	}
}

func TestCEATaskEmptyCellReturnsNil(t *testing.T) {
	r := newGeographyRun(t)
	if annots := r.ceaTask(0, 99, false); annots != nil {
		t.Fatalf("expected nil for a row with no candidates, got %v", annots)
	}
}

func TestIsContextlessDefaultsFalseBeforeLastStep(t *testing.T) {
	r := newGeographyRun(t)
	if r.isContextless(Cell{RowIndex: 1, ColIndex: 0}) {
		t.Fatal("expected no cell to be marked contextless before the last pass runs")
	}
}
