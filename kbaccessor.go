package dagobah

import (
	"encoding/json"
	"log/slog"
	"math"
	"strings"

	"github.com/dagobah-core/dagobah/kvstore"
)

// Rank tags distinguish an entity-valued forward edge from a literal-valued
// one: if the adjacency value is one of these three, the edge points at an
// entity with that statement rank; otherwise the value is a literal type
// tag (String, DateTime-*, Quantity-<unitId>) and the edge points at a
// literal.
const (
	rankPreferred  = "PREFERRED"
	rankNormal     = "NORMAL"
	rankDeprecated = "DEPRECATED"
)

// kbRecord is the on-disk shape of a KB entity record. Unknown fields are
// ignored by encoding/json, so readers tolerate forward-compatible
// additions to the dump format.
type kbRecord struct {
	Labels       []string                   `json:"labels"`
	Aliases      []string                   `json:"aliases"`
	Descriptions []string                   `json:"descriptions"`
	Predicates   map[string]json.RawMessage `json:"predicates"`
}

// KBAccessor is a read-only view over a persistent key-value store keyed by
// entity identifier. It decodes adjacency, labels, types, ranks, and
// popularity; swapping the underlying kvstore.Store backend changes nothing
// above this layer. All decode failures degrade to empty results — the
// accessor never panics on bad data.
type KBAccessor struct {
	store kvstore.Store
	cfg   Config
	log   *slog.Logger

	unitSymbols map[string]unitSymbolEntry
}

type unitSymbolEntry struct {
	symbol string
	ok     bool
}

// NewKBAccessor wraps store with the KB accessor contract.
func NewKBAccessor(store kvstore.Store, cfg Config, log *slog.Logger) *KBAccessor {
	if log == nil {
		log = slog.Default()
	}
	return &KBAccessor{
		store:       store,
		cfg:         cfg,
		log:         log,
		unitSymbols: make(map[string]unitSymbolEntry),
	}
}

// IsValidID is a shape check: a KB entity/property id is non-empty, starts
// with 'Q' or 'P', and the remainder is all digits.
func (a *KBAccessor) IsValidID(id string) bool {
	if len(id) < 2 {
		return false
	}
	if id[0] != 'Q' && id[0] != 'P' {
		return false
	}
	for _, r := range id[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PrefixEntity prepends the configured namespace URI to an entity or
// property id.
func (a *KBAccessor) PrefixEntity(id string) string {
	if id == "" {
		return id
	}
	switch id[0] {
	case 'Q':
		return a.cfg.EntityNamespace + id
	case 'P':
		return a.cfg.PropertyNamespace + id
	default:
		return id
	}
}

// RankWeight numerizes a statement rank tag as a relevance value.
func RankWeight(rank string) int {
	switch rank {
	case rankPreferred:
		return 2
	case rankNormal:
		return 1
	default:
		return 0
	}
}

func (a *KBAccessor) lookup(entityID string) (kbRecord, bool) {
	raw, ok, err := a.store.Get([]byte(entityID))
	if err != nil {
		a.log.Debug("kb store read failed", "entity_id", entityID, "error", err)
		return kbRecord{}, false
	}
	if !ok {
		return kbRecord{}, false
	}
	var rec kbRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		a.log.Debug("kb record decode failed", "entity_id", entityID, "error", err)
		return kbRecord{}, false
	}
	return rec, true
}

// Labels returns the primary label and aliases of an entity. Missing
// entities yield a zero Labels.
func (a *KBAccessor) Labels(entityID string) (primary string, aliases []string) {
	rec, ok := a.lookup(entityID)
	if !ok || len(rec.Labels) == 0 {
		return "", nil
	}
	return rec.Labels[0], rec.Aliases
}

// NumIncomingEdges sums adjacency-set sizes across predicates, used as node
// popularity.
func (a *KBAccessor) NumIncomingEdges(entityID string) int {
	rec, ok := a.lookup(entityID)
	if !ok {
		return 0
	}
	total := 0
	for _, raw := range rec.Predicates {
		var asMap map[string]string
		if err := json.Unmarshal(raw, &asMap); err == nil {
			total += len(asMap)
			continue
		}
		var asList []string
		if err := json.Unmarshal(raw, &asList); err == nil {
			total += len(asList)
		}
	}
	return total
}

// PopularityWeight converts an incoming-edge count into a path weight:
// 1 / (2 + log10(2 + edges)). The busier a shared neighbor is, the less a
// path through it says about the pair it connects.
func PopularityWeight(numIncomingEdges int) float64 {
	return 1.0 / (2.0 + math.Log10(2.0+float64(numIncomingEdges)))
}

// Subgraph builds the one-hop neighborhood of entityID, splitting
// forward/backward adjacency into entity and literal neighbors. It performs
// no caching; callers go through the subgraph cache.
func (a *KBAccessor) Subgraph(entityID string) *Subgraph {
	sg := newSubgraph()
	rec, ok := a.lookup(entityID)
	if !ok {
		return sg
	}
	for predicate, raw := range rec.Predicates {
		backward := strings.HasPrefix(predicate, "(-)")
		sg.PredicateSet[predicate] = struct{}{}

		if backward {
			var neighbors []string
			if err := json.Unmarshal(raw, &neighbors); err != nil {
				continue
			}
			for _, n := range neighbors {
				sg.EntityNeighbors[n] = append(sg.EntityNeighbors[n], Edge{PredicateID: predicate, Info: EdgeInfoEntity})
			}
			continue
		}

		var objects map[string]string
		if err := json.Unmarshal(raw, &objects); err != nil {
			continue
		}
		for object, tag := range objects {
			switch tag {
			case rankPreferred, rankNormal, rankDeprecated:
				sg.EntityNeighbors[object] = append(sg.EntityNeighbors[object], Edge{PredicateID: predicate, Info: EdgeInfoEntity})
			default:
				sg.LiteralNeighbors[object] = append(sg.LiteralNeighbors[object], Edge{PredicateID: predicate, Info: tag})
			}
		}
	}
	return sg
}

// SupertypesOf returns the direct subclass-of targets of a type id.
func (a *KBAccessor) SupertypesOf(typeID string) map[string]struct{} {
	rec, ok := a.lookup(typeID)
	result := make(map[string]struct{})
	if !ok {
		return result
	}
	raw, present := rec.Predicates["P279"]
	if !present {
		return result
	}
	var objects map[string]string
	if err := json.Unmarshal(raw, &objects); err != nil {
		return result
	}
	for object := range objects {
		result[object] = struct{}{}
	}
	return result
}

// HierarchicalTypes returns up to 3 levels of types for an entity, each
// level mapping type id to the best (max) rank weight observed for it:
// level 1 is the union of adjacencies over all configured type-bearing
// predicates, and each higher level is the set of direct subclass-of
// targets of the previous level's types.
func (a *KBAccessor) HierarchicalTypes(entityID string, numLevels int) map[int]map[string]int {
	levels := make(map[int]map[string]int)
	if numLevels <= 0 {
		return levels
	}
	rec, ok := a.lookup(entityID)
	level1 := make(map[string]int)
	if ok {
		for _, prop := range a.cfg.TypeProperties {
			raw, present := rec.Predicates[prop]
			if !present {
				continue
			}
			var objects map[string]string
			if err := json.Unmarshal(raw, &objects); err != nil {
				continue
			}
			for object, rank := range objects {
				if w := RankWeight(rank); w > level1[object] {
					level1[object] = w
				}
			}
		}
	}
	levels[1] = level1

	prior := levels[1]
	for level := 2; level <= numLevels; level++ {
		types := make(map[string]int)
		for t := range prior {
			for super := range a.SupertypesOf(t) {
				if w := prior[t]; w > types[super] {
					types[super] = w
				}
			}
		}
		levels[level] = types
		prior = types
	}
	return levels
}

// UnitSymbol returns the unit entity's symbol, memoized per accessor.
// Currency entities (instance-of includes Config.CurrencyTypeID) are
// special-cased to the lower-cased English label with spaces replaced by
// underscores (e.g. "united_states_dollar"), since currency symbols
// like "$" are not usable as unit-registry names.
func (a *KBAccessor) UnitSymbol(unitEntityID string) (string, bool) {
	if entry, seen := a.unitSymbols[unitEntityID]; seen {
		return entry.symbol, entry.ok
	}
	symbol, ok := a.resolveUnitSymbol(unitEntityID)
	a.unitSymbols[unitEntityID] = unitSymbolEntry{symbol: symbol, ok: ok}
	return symbol, ok
}

func (a *KBAccessor) resolveUnitSymbol(unitEntityID string) (string, bool) {
	rec, ok := a.lookup(unitEntityID)
	if !ok {
		return "", false
	}
	if raw, present := rec.Predicates["P31"]; present {
		var instanceOf map[string]string
		if err := json.Unmarshal(raw, &instanceOf); err == nil {
			if _, isCurrency := instanceOf[a.cfg.CurrencyTypeID]; isCurrency {
				label, _ := a.Labels(unitEntityID)
				return strings.ReplaceAll(strings.ToLower(label), " ", "_"), true
			}
		}
	}
	if raw, present := rec.Predicates["P5061"]; present {
		var symbols map[string]string
		if err := json.Unmarshal(raw, &symbols); err == nil && len(symbols) > 0 {
			best := ""
			for symbol := range symbols {
				if best == "" || symbol < best {
					best = symbol
				}
			}
			return best, true
		}
	}
	return "", false
}
