package dagobah

import (
	"encoding/json"
	"testing"
)

type memStore struct {
	records map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string][]byte)}
}

func (m *memStore) put(id string, rec kbRecord) {
	raw, _ := json.Marshal(rec)
	m.records[id] = raw
}

func (m *memStore) Get(key []byte) ([]byte, bool, error) {
	v, ok := m.records[string(key)]
	return v, ok, nil
}

func (m *memStore) Close() error { return nil }

func TestKBAccessorIsValidID(t *testing.T) {
	kb := NewKBAccessor(newMemStore(), DefaultConfig(), nil)
	if !kb.IsValidID("Q42") {
		t.Fatal("expected Q42 to be valid")
	}
	if !kb.IsValidID("P31") {
		t.Fatal("expected P31 to be valid")
	}
	if kb.IsValidID("42") {
		t.Fatal("expected bare digits to be invalid")
	}
	if kb.IsValidID("Qfoo") {
		t.Fatal("expected non-numeric suffix to be invalid")
	}
}

func TestKBAccessorLabelsMissingEntity(t *testing.T) {
	kb := NewKBAccessor(newMemStore(), DefaultConfig(), nil)
	label, aliases := kb.Labels("Q999")
	if label != "" || aliases != nil {
		t.Fatalf("expected zero value for missing entity, got %q %v", label, aliases)
	}
}

func TestKBAccessorSubgraphSplitsEntityAndLiteral(t *testing.T) {
	store := newMemStore()
	store.put("Q1", kbRecord{
		Labels: []string{"France"},
		Predicates: map[string]json.RawMessage{
			"P36":       rawJSON(t, map[string]string{"Q90": "NORMAL"}),
			"(-)P17":    rawJSON(t, []string{"Q142"}),
			"P1082":     rawJSON(t, map[string]string{"67000000": "Quantity-Q1"}),
		},
	})
	kb := NewKBAccessor(store, DefaultConfig(), nil)
	sg := kb.Subgraph("Q1")

	if _, ok := sg.EntityNeighbors["Q90"]; !ok {
		t.Fatal("expected Q90 to be an entity neighbor via P36")
	}
	if _, ok := sg.EntityNeighbors["Q142"]; !ok {
		t.Fatal("expected Q142 to be an entity neighbor via backward P17")
	}
	if _, ok := sg.LiteralNeighbors["67000000"]; !ok {
		t.Fatal("expected 67000000 to be a literal neighbor via P1082")
	}
}

func TestPopularityWeightDecreasesWithEdgeCount(t *testing.T) {
	low := PopularityWeight(1)
	high := PopularityWeight(1_000_000)
	if high >= low {
		t.Fatalf("expected popularity weight to shrink as edges grow: low=%v high=%v", low, high)
	}
}

func TestHierarchicalTypesTracksMaxRank(t *testing.T) {
	store := newMemStore()
	store.put("Q1", kbRecord{
		Predicates: map[string]json.RawMessage{
			"P31": rawJSON(t, map[string]string{"Q5": "PREFERRED"}),
		},
	})
	kb := NewKBAccessor(store, DefaultConfig(), nil)
	levels := kb.HierarchicalTypes("Q1", 1)
	if rank := levels[1]["Q5"]; rank != 2 {
		t.Fatalf("expected PREFERRED rank weight 2, got %d", rank)
	}
}

func TestHierarchicalTypesUnionsAllTypeProperties(t *testing.T) {
	store := newMemStore()
	store.put("Q1", kbRecord{
		Predicates: map[string]json.RawMessage{
			"P31":  rawJSON(t, map[string]string{"Q5": "NORMAL"}),
			"P106": rawJSON(t, map[string]string{"Q82955": "NORMAL"}),
		},
	})
	kb := NewKBAccessor(store, DefaultConfig(), nil)
	levels := kb.HierarchicalTypes("Q1", 1)
	if _, ok := levels[1]["Q5"]; !ok {
		t.Fatalf("expected instance-of type Q5 in level 1, got %+v", levels[1])
	}
	if _, ok := levels[1]["Q82955"]; !ok {
		t.Fatalf("expected occupation type Q82955 in level 1 alongside instance-of, got %+v", levels[1])
	}
}

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}
