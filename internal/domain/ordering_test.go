package domain

import (
	"testing"
	"time"
)

func TestSortByRecency(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stored := []Bookmark{
		{URL: "https://old.example", Title: "Old", CreatedAt: base},
		{URL: "https://new.example", Title: "New", CreatedAt: base.Add(2 * time.Hour)},
		{URL: "https://mid.example", Title: "Mid", CreatedAt: base.Add(time.Hour)},
	}

	sorted := SortByRecency(stored)

	want := []string{"New", "Mid", "Old"}
	for i, title := range want {
		if sorted[i].Title != title {
			t.Errorf("sorted[%d].Title = %v, want %v", i, sorted[i].Title, title)
		}
	}

	// Stored order must be untouched
	if stored[0].Title != "Old" || stored[1].Title != "New" || stored[2].Title != "Mid" {
		t.Errorf("SortByRecency() mutated its input: %v", stored)
	}
}

func TestSortByRecencyKeepsOrderOnTies(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stored := []Bookmark{
		{Title: "first", CreatedAt: ts},
		{Title: "second", CreatedAt: ts},
	}

	sorted := SortByRecency(stored)
	if sorted[0].Title != "first" || sorted[1].Title != "second" {
		t.Errorf("SortByRecency() reordered equal timestamps: %v", sorted)
	}
}

func TestSortByRecencyEmpty(t *testing.T) {
	if got := SortByRecency(nil); len(got) != 0 {
		t.Errorf("SortByRecency(nil) = %v, want empty", got)
	}
}

func TestAppend(t *testing.T) {
	existing := []Bookmark{{Title: "a"}}
	out := Append(existing, Bookmark{Title: "b"})

	if len(out) != 2 || out[1].Title != "b" {
		t.Fatalf("Append() = %v, want [a b]", out)
	}
	if len(existing) != 1 {
		t.Errorf("Append() changed the input length to %d", len(existing))
	}
}

func TestNewBookmark(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 15, 123456789, time.FixedZone("CEST", 2*3600))
	b := NewBookmark("  https://example.com ", " Example ", " An example site\n", now)

	if b.URL != "https://example.com" {
		t.Errorf("URL = %q, want trimmed", b.URL)
	}
	if b.Title != "Example" {
		t.Errorf("Title = %q, want trimmed", b.Title)
	}
	if b.Description != "An example site" {
		t.Errorf("Description = %q, want trimmed", b.Description)
	}
	if b.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", b.CreatedAt.Location())
	}
	if b.CreatedAt.Nanosecond() != 123000000 {
		t.Errorf("CreatedAt nanos = %d, want millisecond precision", b.CreatedAt.Nanosecond())
	}
}
