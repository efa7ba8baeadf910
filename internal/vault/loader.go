package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/vq/internal/pathutil"
)

// Config describes loader behavior.
type Config struct {
	// IgnoredFolders contains directory names that should be skipped when
	// loading. Paths containing any of these folders will not be loaded.
	IgnoredFolders []string
}

// Collection is an immutable snapshot of the vault's documents. It satisfies
// Store by re-reading note text from disk on demand.
type Collection struct {
	root string
	docs []Document
	byID map[string]int
}

// Documents returns the loaded documents in path order.
func (c *Collection) Documents() []Document {
	return c.docs
}

func (c *Collection) Len() int {
	return len(c.docs)
}

// Get returns the document with the given id.
func (c *Collection) Get(id string) (Document, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Document{}, false
	}
	return c.docs[i], true
}

// ReadText re-reads a document's raw text from disk.
func (c *Collection) ReadText(id string) ([]byte, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("vault: unknown document %q", id)
	}
	return os.ReadFile(c.docs[i].Path)
}

// Loader walks a vault directory and produces a Collection plus a pre-seeded
// metadata cache.
type Loader struct {
	root      string
	cfg       Config
	extractor Extractor
	log       zerolog.Logger
}

func NewLoader(root string, cfg Config, extractor Extractor, log zerolog.Logger) *Loader {
	return &Loader{
		root:      pathutil.NormalizePath(root),
		cfg:       cfg,
		extractor: extractor,
		log:       log,
	}
}

// Load reads every markdown file under the vault root, extracts metadata,
// resolves links between notes, and seeds the returned MetaCache so the
// first query does not pay per-document parse cost.
func (l *Loader) Load() (*Collection, *MetaCache, error) {
	started := time.Now()

	var notes []noteRef

	err := filepath.Walk(l.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("error walking the path %q: %w", path, err)
		}
		if info.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		if l.shouldIgnore(path) {
			return nil
		}

		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}

		extraction, err := l.extractor.Extract(text)
		if err != nil {
			l.log.Warn().Str("path", path).Err(err).Msg("skipping unparseable note")
			return nil
		}

		rel, err := pathutil.VaultRelative(l.root, path)
		if err != nil {
			return err
		}

		title := extraction.Title
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(path), ".md")
		}

		notes = append(notes, noteRef{
			doc: Document{
				ID:          rel,
				Path:        filepath.Clean(path),
				Title:       title,
				Tags:        extraction.Tags,
				Frontmatter: extraction.Frontmatter,
				ModifiedAt:  info.ModTime().UTC(),
			},
			extraction: extraction,
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].doc.ID < notes[j].doc.ID
	})

	collection := &Collection{
		root: l.root,
		docs: make([]Document, len(notes)),
		byID: make(map[string]int, len(notes)),
	}
	memo := NewMetaCache(l.extractor)

	aliases := buildAliases(notes)
	incoming := make(map[string][]string)
	for i, note := range notes {
		doc := note.doc
		doc.OutgoingLinks = resolveLinks(doc.ID, note.extraction.Links, aliases)
		for _, target := range doc.OutgoingLinks {
			incoming[target] = append(incoming[target], doc.ID)
		}
		collection.docs[i] = doc
		collection.byID[doc.ID] = i
	}
	for i := range collection.docs {
		refs := incoming[collection.docs[i].ID]
		sort.Strings(refs)
		collection.docs[i].IncomingLinks = refs
		memo.Seed(collection.docs[i], notes[i].extraction)
	}

	l.log.Debug().
		Int("documents", collection.Len()).
		Dur("elapsed", time.Since(started)).
		Str("root", l.root).
		Msg("vault loaded")

	return collection, memo, nil
}

func (l *Loader) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		for _, ignored := range l.cfg.IgnoredFolders {
			if ignored != "" && strings.EqualFold(segment, ignored) {
				return true
			}
		}
	}
	return false
}

type noteRef struct {
	doc        Document
	extraction Extraction
}

func buildAliases(notes []noteRef) map[string]string {
	aliases := make(map[string]string, len(notes)*3)
	for _, note := range notes {
		id := note.doc.ID
		addAlias(aliases, id, id)
		addAlias(aliases, filepath.Base(id), id)
	}
	return aliases
}

func addAlias(aliases map[string]string, candidate, id string) {
	candidate = strings.ToLower(strings.TrimSpace(filepath.ToSlash(candidate)))
	if candidate == "" {
		return
	}
	aliases[candidate] = id

	if ext := filepath.Ext(candidate); ext != "" {
		if stem := strings.TrimSuffix(candidate, ext); stem != "" {
			aliases[stem] = id
		}
	}
}

func resolveLinks(sourceID string, raw []string, aliases map[string]string) []string {
	seen := make(map[string]struct{})
	for _, link := range raw {
		target := resolveLink(sourceID, link, aliases)
		if target == "" || target == sourceID {
			continue
		}
		seen[target] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for target := range seen {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

func resolveLink(sourceID, link string, aliases map[string]string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(link), "\\", "/")
	if hash := strings.Index(cleaned, "#"); hash >= 0 {
		cleaned = cleaned[:hash]
	}
	cleaned = strings.Trim(cleaned, "/")
	if cleaned == "" {
		return ""
	}

	lowered := strings.ToLower(cleaned)
	if strings.Contains(lowered, "://") || strings.HasPrefix(lowered, "mailto:") {
		return ""
	}

	if target, ok := aliases[lowered]; ok {
		return target
	}

	// Relative links resolve against the source note's folder.
	joined := filepath.ToSlash(filepath.Join(pathutil.Folder(sourceID), cleaned))
	if target, ok := aliases[strings.ToLower(joined)]; ok {
		return target
	}
	return ""
}
