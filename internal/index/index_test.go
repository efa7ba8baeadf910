package index

import (
	"fmt"
	"testing"

	"github.com/Paintersrp/vq/internal/vault"
)

func doc(id string, tags []string, fm map[string]any) vault.Document {
	return vault.Document{ID: id, Tags: tags, Frontmatter: fm}
}

func TestRebuildTagIndexHoldsEveryTaggedDocument(t *testing.T) {
	docs := []vault.Document{
		doc("a.md", []string{"Project", "urgent"}, nil),
		doc("b.md", []string{"project"}, nil),
		doc("c.md", nil, nil),
	}

	ix := Rebuild(docs)

	for _, d := range docs {
		for _, tag := range d.Tags {
			set := ix.Tag(tag)
			if _, ok := set[d.ID]; !ok {
				t.Errorf("expected %s in TagIndex[%s], got %v", d.ID, tag, set)
			}
		}
	}

	if got := len(ix.Tag("project")); got != 2 {
		t.Fatalf("expected 2 documents under project, got %d", got)
	}
}

func TestRebuildTagLookupIsCaseInsensitive(t *testing.T) {
	ix := Rebuild([]vault.Document{
		doc("a.md", []string{"PROJECT"}, nil),
		doc("b.md", []string{"project"}, nil),
	})

	for _, probe := range []string{"Project", "project", "PROJECT"} {
		if got := len(ix.Tag(probe)); got != 2 {
			t.Errorf("Tag(%q) returned %d documents, want 2", probe, got)
		}
	}
}

func TestRebuildFolderIndexIncludesAncestors(t *testing.T) {
	ix := Rebuild([]vault.Document{
		doc("A/B/C.md", nil, nil),
		doc("A/other.md", nil, nil),
		doc("root.md", nil, nil),
	})

	if _, ok := ix.Folder("A")["A/B/C.md"]; !ok {
		t.Error("expected A/B/C.md under FolderIndex[A]")
	}
	if _, ok := ix.Folder("A/B")["A/B/C.md"]; !ok {
		t.Error("expected A/B/C.md under FolderIndex[A/B]")
	}
	if _, ok := ix.Folder("A")["A/other.md"]; !ok {
		t.Error("expected A/other.md under FolderIndex[A]")
	}
	if _, ok := ix.Folder("A/B")["A/other.md"]; ok {
		t.Error("A/other.md must not appear under FolderIndex[A/B]")
	}
	if set := ix.Folder(""); set != nil {
		t.Errorf("root documents have no folder entry, got %v", set)
	}
}

func TestRebuildFieldIndexLowercasesKeys(t *testing.T) {
	ix := Rebuild([]vault.Document{
		doc("a.md", nil, map[string]any{"Status": "open"}),
		doc("b.md", nil, map[string]any{"status": "done", "due": "2025-01-01"}),
	})

	if got := len(ix.Field("STATUS")); got != 2 {
		t.Fatalf("expected 2 documents defining status, got %d", got)
	}
	if got := len(ix.Field("due")); got != 1 {
		t.Fatalf("expected 1 document defining due, got %d", got)
	}
	if got := len(ix.Field("missing")); got != 0 {
		t.Fatalf("expected no documents for unknown key, got %d", got)
	}
}

func TestRebuildCountsDocuments(t *testing.T) {
	var docs []vault.Document
	for i := 0; i < 7; i++ {
		docs = append(docs, doc(fmt.Sprintf("n%d.md", i), nil, nil))
	}

	ix := Rebuild(docs)
	if ix.DocumentCount() != 7 {
		t.Fatalf("DocumentCount = %d, want 7", ix.DocumentCount())
	}
}

func TestTagCountsSorted(t *testing.T) {
	ix := Rebuild([]vault.Document{
		doc("a.md", []string{"zebra", "alpha"}, nil),
		doc("b.md", []string{"alpha"}, nil),
	})

	counts := ix.TagCounts()
	if len(counts) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(counts))
	}
	if counts[0].Tag != "alpha" || counts[0].Count != 2 {
		t.Errorf("unexpected first entry: %+v", counts[0])
	}
	if counts[1].Tag != "zebra" || counts[1].Count != 1 {
		t.Errorf("unexpected second entry: %+v", counts[1])
	}
}
