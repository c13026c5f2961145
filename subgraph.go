package dagobah

// subgraphBuilder materializes and caches the one-hop neighborhood of each
// entity id encountered during scoring. A Subgraph is keyed by entity id
// only, so two candidates sharing an id share one Subgraph.
type subgraphBuilder struct {
	kb     *KBAccessor
	caches *caches
}

func newSubgraphBuilder(kb *KBAccessor, c *caches) *subgraphBuilder {
	return &subgraphBuilder{kb: kb, caches: c}
}

// Get returns the cached Subgraph for entityID, building and caching it on
// first use.
func (b *subgraphBuilder) Get(entityID string) *Subgraph {
	if sg, ok := b.caches.subgraph.Get(entityID); ok {
		return sg
	}
	sg := b.kb.Subgraph(entityID)
	b.caches.subgraph.Add(entityID, sg)
	return sg
}

// ctaTypes returns entityID's 3-level hierarchical types (type id -> rank
// weight), cached across the pipeline.
func (b *subgraphBuilder) ctaTypes(entityID string) map[int]map[string]int {
	if types, ok := b.caches.ctaTypes.Get(entityID); ok {
		return types
	}
	types := b.kb.HierarchicalTypes(entityID, 3)
	b.caches.ctaTypes.Add(entityID, types)
	return types
}

// typeAdjacency returns the one-hop entity neighborhood of a type id, used
// by the CEA task to promote types adjacent to a candidate's own types.
func (b *subgraphBuilder) typeAdjacency(typeID string) map[string]struct{} {
	if adj, ok := b.caches.typeAdjacency.Get(typeID); ok {
		return adj
	}
	sg := b.kb.Subgraph(typeID)
	adj := make(map[string]struct{}, len(sg.EntityNeighbors))
	for neighbor := range sg.EntityNeighbors {
		adj[neighbor] = struct{}{}
	}
	b.caches.typeAdjacency.Add(typeID, adj)
	return adj
}
