package dagobah

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/dagobah-core/dagobah/kvstore"
)

// Engine is the disambiguation engine: one instance wraps a KB accessor and
// its process-lifetime subgraph/type caches, and runs tables one at a time
// through Run. A process may hold several Engine instances, each with its
// own caches, to annotate tables in parallel over a shared read-only store.
type Engine struct {
	cfg    Config
	kb     *KBAccessor
	sg     *subgraphBuilder
	caches *caches
	log    *slog.Logger
}

// New builds an Engine over store, defaulting zero-valued non-boolean cfg
// fields and validating the rest; MultiHopContext, TransitivePropertyOnlyPath
// and SoftScoring are used as given.
func New(store kvstore.Store, cfg Config) (*Engine, error) {
	def := DefaultConfig()
	if cfg.K == 0 {
		cfg.K = def.K
	}
	if cfg.SemanticContextWeight == 0 {
		cfg.SemanticContextWeight = def.SemanticContextWeight
	}
	if cfg.LiteralContextWeight == 0 {
		cfg.LiteralContextWeight = def.LiteralContextWeight
	}
	if cfg.CTATaxonomyWeights == [3]float64{} {
		cfg.CTATaxonomyWeights = def.CTATaxonomyWeights
	}
	if len(cfg.TransitiveProperties) == 0 {
		cfg.TransitiveProperties = def.TransitiveProperties
	}
	if len(cfg.TypeProperties) == 0 {
		cfg.TypeProperties = def.TypeProperties
	}
	if cfg.CurrencyTypeID == "" {
		cfg.CurrencyTypeID = def.CurrencyTypeID
	}
	if cfg.EntityNamespace == "" {
		cfg.EntityNamespace = def.EntityNamespace
	}
	if cfg.PropertyNamespace == "" {
		cfg.PropertyNamespace = def.PropertyNamespace
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log := slog.Default()
	kb := NewKBAccessor(store, cfg, log)
	c := newCaches(50_000)

	return &Engine{
		cfg:    cfg,
		kb:     kb,
		sg:     newSubgraphBuilder(kb, c),
		caches: c,
		log:    log,
	}, nil
}

// WithLogger overrides the engine's logger. The logger is always an
// instance field, never a package global.
func (e *Engine) WithLogger(log *slog.Logger) *Engine {
	e.log = log
	return e
}

func newRunID() string {
	return uuid.NewString()
}
