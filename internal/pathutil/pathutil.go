package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// VaultRelative returns the path to target relative to the provided vault directory.
// The returned path always uses forward slashes to simplify downstream processing
// and ensure platform agnosticism.
func VaultRelative(vaultDir, target string) (string, error) {
	base := NormalizePath(vaultDir)
	cleanedTarget := NormalizePath(target)

	rel, err := filepath.Rel(base, cleanedTarget)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// Folder returns the slash-separated directory portion of a vault-relative
// document path, or "" for documents at the vault root.
func Folder(rel string) string {
	cleaned := strings.Trim(filepath.ToSlash(rel), "/")
	if cleaned == "" {
		return ""
	}
	dir := filepath.ToSlash(filepath.Dir(cleaned))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// FolderPrefixes expands a slash-separated folder path into every ancestor
// prefix, shortest first. "a/b/c" yields ["a", "a/b", "a/b/c"]. An empty
// folder yields nil.
func FolderPrefixes(folder string) []string {
	cleaned := strings.Trim(filepath.ToSlash(folder), "/")
	if cleaned == "" || cleaned == "." {
		return nil
	}

	parts := strings.Split(cleaned, "/")
	prefixes := make([]string, 0, len(parts))
	for i := range parts {
		prefixes = append(prefixes, strings.Join(parts[:i+1], "/"))
	}
	return prefixes
}
