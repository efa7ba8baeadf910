package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/vq/internal/cache"
	"github.com/Paintersrp/vq/internal/exec"
	"github.com/Paintersrp/vq/internal/index"
	"github.com/Paintersrp/vq/internal/query"
	"github.com/Paintersrp/vq/internal/vault"
)

// Options tunes engine behavior. Zero values fall back to the cache
// package defaults.
type Options struct {
	CacheTTL      time.Duration
	CacheCapacity int
}

// Engine ties the parser, indexes, cache, and executor together over one
// document collection. It performs no I/O of its own beyond the Store hook
// and holds no internal locks: the embedding host serializes Rebuild
// against Execute.
type Engine struct {
	opts     Options
	docs     []vault.Document
	store    vault.Store
	memo     *vault.MetaCache
	indexes  *index.Indexes
	cache    *cache.Cache[exec.Result]
	registry *exec.Registry
	executor *exec.Executor
	log      zerolog.Logger
}

func New(opts Options, log zerolog.Logger) *Engine {
	registry := exec.NewRegistry()
	return &Engine{
		opts: opts,
		cache: cache.New[exec.Result](cache.Options{
			TTL:      opts.CacheTTL,
			Capacity: opts.CacheCapacity,
		}),
		registry: registry,
		executor: exec.NewExecutor(registry),
		indexes:  index.Rebuild(nil),
		log:      log,
	}
}

// Registry exposes the function registry so hosts can add their own
// evaluators before running queries.
func (e *Engine) Registry() *exec.Registry {
	return e.registry
}

// Rebuild replaces the engine's collection snapshot and derives fresh
// indexes. The query cache is cleared wholesale: cached results may
// reference candidate sets that no longer hold.
func (e *Engine) Rebuild(docs []vault.Document, store vault.Store, memo *vault.MetaCache) {
	e.docs = docs
	e.store = store
	e.memo = memo
	e.indexes = index.Rebuild(docs)
	e.cache.InvalidateAll()

	e.log.Debug().
		Int("documents", len(docs)).
		Msg("indexes rebuilt, query cache invalidated")
}

// InvalidateCache clears the query cache without touching the indexes.
func (e *Engine) InvalidateCache() {
	e.cache.InvalidateAll()
}

// Indexes returns the current derived indexes.
func (e *Engine) Indexes() *index.Indexes {
	return e.indexes
}

// DocumentCount reports the size of the current collection snapshot.
func (e *Engine) DocumentCount() int {
	return len(e.docs)
}

// Execute parses and runs a query string. A fresh result is cached; a
// cached result is returned with ExecutionTime zero to signal the hit
// without pretending the original computation was free. Parse failures
// come back as an error-carrying Result with no rows.
func (e *Engine) Execute(queryText string) exec.Result {
	key := cache.Key(queryText, len(e.docs))
	if cached, ok := e.cache.Get(key); ok {
		cached.ExecutionTime = 0
		e.log.Debug().Str("query", queryText).Msg("query cache hit")
		return cached
	}

	q, err := query.Parse(queryText)
	if err != nil {
		return exec.Failure(err)
	}

	result := e.executor.Execute(q, e.docs, e.indexes, e.memo, e.store)
	e.cache.Put(key, result)

	e.log.Debug().
		Str("query", queryText).
		Int("rows", len(result.Rows)).
		Dur("elapsed", result.ExecutionTime).
		Msg("query executed")
	return result
}
