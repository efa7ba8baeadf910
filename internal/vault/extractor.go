package vault

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extraction holds everything the engine derives from a note's raw text:
// the frontmatter mapping plus the text-borne file facts.
type Extraction struct {
	Frontmatter map[string]any
	Title       string
	Tags        []string
	Links       []string
}

// Extractor turns raw note text into an Extraction. The default
// implementation parses YAML frontmatter; hosts may substitute their own.
type Extractor interface {
	Extract(text []byte) (Extraction, error)
}

// FrontmatterExtractor is the default Extractor. It splits a leading YAML
// frontmatter block from the body, decodes the mapping, and collects wiki
// and markdown links from the body.
type FrontmatterExtractor struct{}

var (
	frontmatterRe = regexp.MustCompile(`(?ms)^---\s*\n(.*?)\n---\s*\n?`)
	wikiLinkRe    = regexp.MustCompile(`\[\[(.+?)\]\]`)
	mdLinkRe      = regexp.MustCompile(`\[[^\]]+\]\(([^)]+)\)`)
)

func (FrontmatterExtractor) Extract(text []byte) (Extraction, error) {
	fm, body := splitFrontmatter(text)

	mapping := make(map[string]any)
	if len(fm) > 0 {
		if err := yaml.Unmarshal(fm, &mapping); err != nil {
			return Extraction{}, fmt.Errorf("parse front matter: %w", err)
		}
	}

	ex := Extraction{
		Frontmatter: normalizeKeys(mapping),
		Tags:        stringList(mapping["tags"]),
		Links:       extractLinks(body),
	}
	if title, ok := mapping["title"].(string); ok {
		ex.Title = strings.TrimSpace(title)
	}
	return ex, nil
}

func splitFrontmatter(data []byte) ([]byte, []byte) {
	loc := frontmatterRe.FindSubmatchIndex(data)
	if len(loc) < 4 {
		return nil, data
	}
	return data[loc[2]:loc[3]], data[loc[1]:]
}

// normalizeKeys rewrites nested mapping keys decoded as map[any]any into
// map[string]any so dotted field paths resolve uniformly.
func normalizeKeys(mapping map[string]any) map[string]any {
	out := make(map[string]any, len(mapping))
	for key, value := range mapping {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return normalizeKeys(v)
	case map[any]any:
		nested := make(map[string]any, len(v))
		for key, inner := range v {
			nested[fmt.Sprint(key)] = normalizeValue(inner)
		}
		return nested
	case []any:
		items := make([]any, len(v))
		for i, inner := range v {
			items[i] = normalizeValue(inner)
		}
		return items
	default:
		return value
	}
}

func stringList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func extractLinks(body []byte) []string {
	content := string(body)
	seen := make(map[string]struct{})

	for _, match := range wikiLinkRe.FindAllStringSubmatch(content, -1) {
		if len(match) > 1 {
			seen[strings.TrimSpace(match[1])] = struct{}{}
		}
	}
	for _, match := range mdLinkRe.FindAllStringSubmatch(content, -1) {
		if len(match) > 1 {
			seen[strings.TrimSpace(match[1])] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for link := range seen {
		out = append(out, link)
	}
	sort.Strings(out)
	return out
}
