package pathutil

import (
	"reflect"
	"testing"
)

func TestFolderStripsFileName(t *testing.T) {
	cases := []struct {
		rel  string
		want string
	}{
		{"note.md", ""},
		{"Work/a.md", "Work"},
		{"Work/Projects/roadmap.md", "Work/Projects"},
		{"/Work/a.md", "Work"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Folder(tc.rel); got != tc.want {
			t.Errorf("Folder(%q) = %q, want %q", tc.rel, got, tc.want)
		}
	}
}

func TestFolderPrefixesExpandsAncestors(t *testing.T) {
	got := FolderPrefixes("a/b/c")
	want := []string{"a", "a/b", "a/b/c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FolderPrefixes(a/b/c) = %v, want %v", got, want)
	}

	if got := FolderPrefixes(""); got != nil {
		t.Fatalf("expected no prefixes for empty folder, got %v", got)
	}

	if got := FolderPrefixes("single"); !reflect.DeepEqual(got, []string{"single"}) {
		t.Fatalf("FolderPrefixes(single) = %v", got)
	}
}

func TestVaultRelativeUsesForwardSlashes(t *testing.T) {
	rel, err := VaultRelative("/vault", "/vault/Work/a.md")
	if err != nil {
		t.Fatalf("VaultRelative returned error: %v", err)
	}
	if rel != "Work/a.md" {
		t.Fatalf("expected Work/a.md, got %s", rel)
	}
}
