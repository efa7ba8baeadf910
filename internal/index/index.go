package index

import (
	"sort"
	"strings"

	"github.com/Paintersrp/vq/internal/pathutil"
	"github.com/Paintersrp/vq/internal/vault"
)

// DocSet is a set of document ids.
type DocSet map[string]struct{}

// Clone returns an independent copy of the set.
func (s DocSet) Clone() DocSet {
	out := make(DocSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Indexes holds the derived tag, folder, and frontmatter-field indexes for a
// document collection. Keys are lowercased at insert time; lookups lowercase
// again so tag and field matching stays case-insensitive end to end.
type Indexes struct {
	tags    map[string]DocSet
	folders map[string]DocSet
	fields  map[string]DocSet
	count   int
}

// Rebuild derives fresh indexes from the whole collection in a single pass.
// It is explicit and caller-triggered; per-edit staleness between rebuilds is
// an accepted trade-off.
func Rebuild(docs []vault.Document) *Indexes {
	ix := &Indexes{
		tags:    make(map[string]DocSet),
		folders: make(map[string]DocSet),
		fields:  make(map[string]DocSet),
		count:   len(docs),
	}

	for _, doc := range docs {
		for _, tag := range doc.Tags {
			add(ix.tags, strings.ToLower(strings.TrimSpace(tag)), doc.ID)
		}

		// A document under A/B/C is reachable from the A and A/B filters
		// too, so every ancestor prefix gets an entry.
		for _, prefix := range pathutil.FolderPrefixes(pathutil.Folder(doc.ID)) {
			add(ix.folders, strings.ToLower(prefix), doc.ID)
		}

		for key := range doc.Frontmatter {
			add(ix.fields, strings.ToLower(key), doc.ID)
		}
	}
	return ix
}

func add(m map[string]DocSet, key, id string) {
	if key == "" {
		return
	}
	set, ok := m[key]
	if !ok {
		set = make(DocSet)
		m[key] = set
	}
	set[id] = struct{}{}
}

// DocumentCount reports the collection size the indexes were built from.
func (ix *Indexes) DocumentCount() int {
	return ix.count
}

// Tag returns the ids of documents carrying the tag.
func (ix *Indexes) Tag(tag string) DocSet {
	return ix.tags[strings.ToLower(strings.TrimSpace(tag))]
}

// Folder returns the ids of documents at or below the folder path.
func (ix *Indexes) Folder(folder string) DocSet {
	cleaned := strings.ToLower(strings.Trim(strings.ReplaceAll(folder, "\\", "/"), "/"))
	return ix.folders[cleaned]
}

// Field returns the ids of documents that define the frontmatter key.
func (ix *Indexes) Field(key string) DocSet {
	return ix.fields[strings.ToLower(key)]
}

// TagCounts returns every indexed tag with its document count, sorted by tag.
func (ix *Indexes) TagCounts() []TagCount {
	out := make([]TagCount, 0, len(ix.tags))
	for tag, set := range ix.tags {
		out = append(out, TagCount{Tag: tag, Count: len(set)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Tag < out[j].Tag
	})
	return out
}

// TagCount pairs a tag with the number of documents carrying it.
type TagCount struct {
	Tag   string
	Count int
}
