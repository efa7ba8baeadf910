package vault

import (
	"reflect"
	"testing"
)

func TestExtractFrontmatterAndTags(t *testing.T) {
	text := []byte(`---
title: Roadmap
status: open
priority: 5
tags:
  - project
  - Urgent
---

Body with a [[hub]] link and a [ref](other.md).
`)

	ex, err := FrontmatterExtractor{}.Extract(text)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if ex.Title != "Roadmap" {
		t.Errorf("title = %q", ex.Title)
	}
	if ex.Frontmatter["status"] != "open" {
		t.Errorf("status = %#v", ex.Frontmatter["status"])
	}
	if ex.Frontmatter["priority"] != 5 {
		t.Errorf("priority = %#v", ex.Frontmatter["priority"])
	}
	if !reflect.DeepEqual(ex.Tags, []string{"project", "Urgent"}) {
		t.Errorf("tags = %v", ex.Tags)
	}
	if !reflect.DeepEqual(ex.Links, []string{"hub", "other.md"}) {
		t.Errorf("links = %v", ex.Links)
	}
}

func TestExtractScalarTagBecomesSingletonList(t *testing.T) {
	ex, err := FrontmatterExtractor{}.Extract([]byte("---\ntags: solo\n---\nbody"))
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !reflect.DeepEqual(ex.Tags, []string{"solo"}) {
		t.Fatalf("tags = %v", ex.Tags)
	}
}

func TestExtractWithoutFrontmatter(t *testing.T) {
	ex, err := FrontmatterExtractor{}.Extract([]byte("just a body, no frontmatter\n"))
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(ex.Frontmatter) != 0 || len(ex.Tags) != 0 || ex.Title != "" {
		t.Fatalf("expected empty extraction, got %+v", ex)
	}
}

func TestExtractMalformedYAMLIsAnError(t *testing.T) {
	_, err := FrontmatterExtractor{}.Extract([]byte("---\n: : bad : :\n\t tabs\n---\nbody"))
	if err == nil {
		t.Fatal("expected parse error for malformed frontmatter")
	}
}

func TestExtractNestedMappings(t *testing.T) {
	text := []byte(`---
review:
  cadence: weekly
  count: 3
---
`)

	ex, err := FrontmatterExtractor{}.Extract(text)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	nested, ok := ex.Frontmatter["review"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested mapping, got %#v", ex.Frontmatter["review"])
	}
	if nested["cadence"] != "weekly" || nested["count"] != 3 {
		t.Fatalf("unexpected nested values: %#v", nested)
	}
}
