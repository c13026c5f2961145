package dagobah

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// popularEntityThreshold is the incoming-edge count above which an entity
// counts as popular for the pair negative-cache gate.
const popularEntityThreshold = 1_000_000

// caches bundles the per-engine-instance caches: subgraphs, hierarchical
// types, type adjacency, positive relation matches, and confirmed-unrelated
// popular pairs. None of them are exported or shared across engines.
type caches struct {
	subgraph      *lru.Cache[string, *Subgraph]
	ctaTypes      *lru.Cache[string, map[int]map[string]int]
	typeAdjacency *lru.Cache[string, map[string]struct{}]

	// relation caches a positive (head id, tail id) or (head id, literal
	// text) match; keyed by identifier only, row/column-agnostic.
	relation map[pairKey][]RelationCandidate
	// negative records popular-entity pairs for which no relation was
	// found (no direct edge and, with multi-hop context on, no shared
	// neighbor), so their expensive lookup is never recomputed. Only
	// pairs where both endpoints exceed popularEntityThreshold are stored,
	// bounding the map.
	negative map[pairKey]struct{}
}

type pairKey struct {
	head string
	tail string
}

// newCaches builds the bounded LRU caches with a fixed capacity; the
// relation/negative caches are plain maps since an engine instance is
// single-threaded and never shares them.
func newCaches(capacity int) *caches {
	subgraphCache, _ := lru.New[string, *Subgraph](capacity)
	ctaTypesCache, _ := lru.New[string, map[int]map[string]int](capacity)
	typeAdjacencyCache, _ := lru.New[string, map[string]struct{}](capacity)
	return &caches{
		subgraph:      subgraphCache,
		ctaTypes:      ctaTypesCache,
		typeAdjacency: typeAdjacencyCache,
		relation:      make(map[pairKey][]RelationCandidate),
		negative:      make(map[pairKey]struct{}),
	}
}

func (c *caches) getRelation(head, tail string) ([]RelationCandidate, bool) {
	rels, ok := c.relation[pairKey{head, tail}]
	return rels, ok
}

func (c *caches) putRelation(head, tail string, rels []RelationCandidate) {
	c.relation[pairKey{head, tail}] = rels
}

func (c *caches) isNegative(head, tail string) bool {
	_, ok := c.negative[pairKey{head, tail}]
	return ok
}

// markNegative records that no relation links head and tail, but only when
// both are popular enough to be worth remembering.
func (c *caches) markNegative(head, tail string, headEdges, tailEdges int) {
	if headEdges > popularEntityThreshold && tailEdges > popularEntityThreshold {
		c.negative[pairKey{head, tail}] = struct{}{}
	}
}
