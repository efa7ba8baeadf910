package exec

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/Paintersrp/vq/internal/index"
	"github.com/Paintersrp/vq/internal/pathutil"
	"github.com/Paintersrp/vq/internal/query"
	"github.com/Paintersrp/vq/internal/vault"
)

// Row is one result entry: the matched document, its resolved metadata, the
// projected TABLE values, and the task line for TASK queries.
type Row struct {
	Document vault.Document
	Meta     map[string]any
	Values   map[string]any
	Task     *TaskLine
}

// Result packages a finished query. A cache hit is signalled by a zero
// ExecutionTime; a parse failure upstream produces Err with no rows.
type Result struct {
	Kind          query.Kind
	Rows          []Row
	Columns       []string
	Err           string
	ExecutionTime time.Duration
}

// Failure builds the result for a query that never executed.
func Failure(err error) Result {
	return Result{Err: err.Error()}
}

// Executor evaluates parsed queries over a document collection. It is a pure
// computation over in-memory structures; callers serialize Execute against
// index rebuilds.
type Executor struct {
	registry *Registry
	now      func() time.Time
}

func NewExecutor(registry *Registry) *Executor {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Executor{registry: registry, now: time.Now}
}

// Execute runs q over the collection. Per-document evaluation failures
// exclude that document only; nothing here aborts the whole query.
func (ex *Executor) Execute(
	q *query.Query,
	docs []vault.Document,
	ix *index.Indexes,
	memo *vault.MetaCache,
	store vault.Store,
) Result {
	started := ex.now()

	candidates := selectCandidates(q.From, docs, ix)

	rows := make([]Row, 0, len(candidates))
	for _, doc := range candidates {
		meta := ex.resolveMeta(doc, memo, store)

		if q.Where != nil {
			passed, err := ex.eval(q.Where, meta)
			if err != nil || !truthy(passed) {
				continue
			}
		}

		switch q.Kind {
		case query.KindTask:
			if store == nil {
				continue
			}
			text, err := store.ReadText(doc.ID)
			if err != nil {
				continue
			}
			for _, task := range scanTasks(text) {
				task := task
				rows = append(rows, Row{Document: doc, Meta: meta, Task: &task})
			}

		case query.KindTable:
			values := make(map[string]any, len(q.Fields))
			for _, field := range q.Fields {
				v, err := ex.eval(field.Expr, meta)
				if err != nil {
					v = nil
				}
				values[field.Name] = v
			}
			rows = append(rows, Row{Document: doc, Meta: meta, Values: values})

		default:
			rows = append(rows, Row{Document: doc, Meta: meta})
		}
	}

	sortRows(rows, q.Sort)

	if q.Limit != nil && len(rows) > *q.Limit {
		rows = rows[:*q.Limit]
	}

	elapsed := ex.now().Sub(started)
	if elapsed <= 0 {
		// zero is reserved for cache hits
		elapsed = time.Nanosecond
	}

	result := Result{
		Kind:          q.Kind,
		Rows:          rows,
		ExecutionTime: elapsed,
	}
	if q.Kind == query.KindTable {
		result.Columns = make([]string, len(q.Fields))
		for i, field := range q.Fields {
			result.Columns[i] = field.Name
		}
	}
	return result
}

// selectCandidates narrows the collection using the indexes. Tags intersect
// (a document must carry all listed tags), folders union with each other and
// then intersect with the tag set, and link predicates filter the survivors.
// Collection order is preserved so later sorting stays stable against it.
func selectCandidates(from *query.FromClause, docs []vault.Document, ix *index.Indexes) []vault.Document {
	if from.Empty() {
		return docs
	}

	var set index.DocSet
	restrict := func(s index.DocSet) {
		if set == nil {
			set = s.Clone()
			return
		}
		for id := range set {
			if _, ok := s[id]; !ok {
				delete(set, id)
			}
		}
	}

	for _, tag := range from.Tags {
		restrict(ix.Tag(tag))
	}

	if len(from.Folders) > 0 {
		union := make(index.DocSet)
		for _, folder := range from.Folders {
			for id := range ix.Folder(folder) {
				union[id] = struct{}{}
			}
		}
		restrict(union)
	}

	candidates := make([]vault.Document, 0, len(docs))
	for _, doc := range docs {
		if set != nil {
			if _, ok := set[doc.ID]; !ok {
				continue
			}
		}
		if !linkPredicatesHold(from, doc) {
			continue
		}
		candidates = append(candidates, doc)
	}
	return candidates
}

func linkPredicatesHold(from *query.FromClause, doc vault.Document) bool {
	for _, target := range from.LinksTo {
		if !linkMatches(doc.OutgoingLinks, target) {
			return false
		}
	}
	for _, target := range from.LinksFrom {
		if !linkMatches(doc.IncomingLinks, target) {
			return false
		}
	}
	return true
}

// linkMatches accepts full ids, basenames, and extension-less stems so
// outgoing-to("hub") matches a link to "Work/hub.md".
func linkMatches(ids []string, target string) bool {
	t := strings.ToLower(strings.Trim(strings.ReplaceAll(target, "\\", "/"), "/"))
	tStem := strings.TrimSuffix(t, ".md")
	for _, id := range ids {
		lid := strings.ToLower(id)
		if lid == t || strings.TrimSuffix(lid, ".md") == tStem {
			return true
		}
		base := path.Base(lid)
		if base == t || strings.TrimSuffix(base, ".md") == tStem {
			return true
		}
	}
	return false
}

// resolveMeta builds the metadata mapping a row's expressions evaluate
// against: frontmatter keys at the top level plus file facts under "file".
func (ex *Executor) resolveMeta(doc vault.Document, memo *vault.MetaCache, store vault.Store) map[string]any {
	fm := doc.Frontmatter
	if memo != nil && store != nil {
		if extraction, err := memo.Resolve(doc, store); err == nil {
			fm = extraction.Frontmatter
		}
	}

	meta := make(map[string]any, len(fm)+3)
	for key, value := range fm {
		meta[strings.ToLower(key)] = value
	}
	meta["title"] = doc.Title
	meta["tags"] = doc.Tags
	meta["file"] = map[string]any{
		"name":     strings.TrimSuffix(path.Base(doc.ID), ".md"),
		"path":     doc.ID,
		"folder":   pathutil.Folder(doc.ID),
		"title":    doc.Title,
		"tags":     doc.Tags,
		"mtime":    doc.ModifiedAt,
		"outlinks": doc.OutgoingLinks,
		"inlinks":  doc.IncomingLinks,
	}
	return meta
}

func (ex *Executor) eval(e query.Expr, meta map[string]any) (any, error) {
	switch e := e.(type) {
	case query.Literal:
		return e.Value, nil

	case query.FieldRef:
		value, _ := resolveField(meta, e.Name)
		return value, nil

	case query.Comparison:
		value, _ := resolveField(meta, e.Field)
		return compare(e.Op, value, e.Value.Value), nil

	case query.Not:
		inner, err := ex.eval(e.Inner, meta)
		if err != nil {
			return nil, err
		}
		return !truthy(inner), nil

	case query.Logical:
		left, err := ex.eval(e.Left, meta)
		if err != nil {
			return nil, err
		}
		if e.Op == query.OpAnd && !truthy(left) {
			return false, nil
		}
		if e.Op == query.OpOr && truthy(left) {
			return true, nil
		}
		right, err := ex.eval(e.Right, meta)
		if err != nil {
			return nil, err
		}
		return truthy(right), nil

	case query.FunctionCall:
		fn, ok := ex.registry.Lookup(e.Name)
		if !ok {
			return nil, fmt.Errorf("unknown function %q", e.Name)
		}
		args := make([]any, len(e.Args))
		for i, arg := range e.Args {
			value, err := ex.eval(arg, meta)
			if err != nil {
				return nil, err
			}
			args[i] = value
		}
		return fn(args)

	default:
		return nil, fmt.Errorf("unsupported expression %T", e)
	}
}

// sortRows applies a multi-key stable sort. Ties at every key preserve the
// candidate order; absent values sort after present ones.
func sortRows(rows []Row, keys []query.SortKey) {
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range keys {
			va, _ := resolveField(rows[i].Meta, key.Field)
			vb, _ := resolveField(rows[j].Meta, key.Field)

			// Absent values sort after present ones in either direction.
			if va == nil || vb == nil {
				if va == nil && vb == nil {
					continue
				}
				return vb == nil
			}

			c, ok := compareValues(va, vb)
			if !ok || c == 0 {
				continue
			}
			if key.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
