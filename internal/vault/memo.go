package vault

import (
	"time"
)

type metaEntry struct {
	marker     time.Time
	extraction Extraction
}

// MetaCache memoizes Extractor output per document id. Entries are reused
// until the document's modification marker changes. The cache assumes a
// single writer; the embedding host serializes access.
type MetaCache struct {
	extractor Extractor
	entries   map[string]metaEntry
}

func NewMetaCache(extractor Extractor) *MetaCache {
	return &MetaCache{
		extractor: extractor,
		entries:   make(map[string]metaEntry),
	}
}

// Resolve returns the extraction for doc, re-invoking the extractor only when
// the document's modification marker moved since the cached entry was stored.
func (c *MetaCache) Resolve(doc Document, store Store) (Extraction, error) {
	if entry, ok := c.entries[doc.ID]; ok && entry.marker.Equal(doc.ModifiedAt) {
		return entry.extraction, nil
	}

	text, err := store.ReadText(doc.ID)
	if err != nil {
		return Extraction{}, err
	}

	extraction, err := c.extractor.Extract(text)
	if err != nil {
		return Extraction{}, err
	}

	c.entries[doc.ID] = metaEntry{marker: doc.ModifiedAt, extraction: extraction}
	return extraction, nil
}

// Seed stores a pre-computed extraction, letting bulk loaders avoid the lazy
// per-query parse on first access.
func (c *MetaCache) Seed(doc Document, extraction Extraction) {
	c.entries[doc.ID] = metaEntry{marker: doc.ModifiedAt, extraction: extraction}
}

// Invalidate drops every memoized extraction.
func (c *MetaCache) Invalidate() {
	c.entries = make(map[string]metaEntry)
}

func (c *MetaCache) Len() int {
	return len(c.entries)
}
