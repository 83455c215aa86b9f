package descriptor_test

import (
	"testing"

	"github.com/banux/manga-server/internal/descriptor"
)

func TestParse_RequiresID(t *testing.T) {
	_, err := descriptor.Parse([]byte(`title = "Alpha"`))
	if err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestParse_RequiresTitle(t *testing.T) {
	_, err := descriptor.Parse([]byte(`id = "a"`))
	if err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestParse_Minimal(t *testing.T) {
	d, err := descriptor.Parse([]byte(`
id = "a"
title = "Alpha"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.ID != "a" || d.Title != "Alpha" {
		t.Errorf("got id=%q title=%q", d.ID, d.Title)
	}
	if d.Status != descriptor.StatusUnknown {
		t.Errorf("default status: got %v, want Unknown", d.Status)
	}
	if d.Cover != nil {
		t.Error("expected no cover")
	}
}

func TestParse_StatusNames(t *testing.T) {
	cases := map[string]descriptor.Status{
		"unknown":             descriptor.StatusUnknown,
		"ongoing":             descriptor.StatusOngoing,
		"completed":           descriptor.StatusCompleted,
		"licensed":            descriptor.StatusLicensed,
		"publishingfinished":  descriptor.StatusPublishingFinished,
		"cancelled":           descriptor.StatusCancelled,
		"onhiatus":            descriptor.StatusOnHiatus,
	}
	for name, want := range cases {
		d, err := descriptor.Parse([]byte(`id = "a"
title = "t"
status = "` + name + `"
`))
		if err != nil {
			t.Fatalf("status %q: Parse: %v", name, err)
		}
		if d.Status != want {
			t.Errorf("status %q: got %d, want %d", name, d.Status, want)
		}
	}
}

func TestParse_UnknownStatus(t *testing.T) {
	_, err := descriptor.Parse([]byte(`
id = "a"
title = "t"
status = "bogus"
`))
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParse_FlatList_StringForm(t *testing.T) {
	d, err := descriptor.Parse([]byte(`
id = "a"
title = "t"
authors = "Solo Author"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if string(d.Authors) != "Solo Author" {
		t.Errorf("got %q", d.Authors)
	}
}

func TestParse_FlatList_ArrayForm(t *testing.T) {
	d, err := descriptor.Parse([]byte(`
id = "a"
title = "t"
authors = ["One", "Two", "Three"]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if string(d.Authors) != "One, Two, Three" {
		t.Errorf("got %q", d.Authors)
	}
}

func TestParse_FlatList_EmptyArray(t *testing.T) {
	d, err := descriptor.Parse([]byte(`
id = "a"
title = "t"
tags = []
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if string(d.Tags) != "" {
		t.Errorf("got %q, want empty", d.Tags)
	}
}

func TestParse_Cover_FileForm(t *testing.T) {
	d, err := descriptor.Parse([]byte(`
id = "a"
title = "t"
cover = "cover.jpg"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Cover == nil || d.Cover.Form != descriptor.CoverFormFile || d.Cover.Path != "cover.jpg" {
		t.Errorf("got %+v", d.Cover)
	}
}

func TestParse_Cover_PageForm(t *testing.T) {
	d, err := descriptor.Parse([]byte(`
id = "a"
title = "t"
cover = { ch = 1, pg = 2 }
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Cover == nil || d.Cover.Form != descriptor.CoverFormPage || d.Cover.Chapter != 1 || d.Cover.Page != 2 {
		t.Errorf("got %+v", d.Cover)
	}
}

func TestParse_Cover_PageForm_Aliases(t *testing.T) {
	d, err := descriptor.Parse([]byte(`
id = "a"
title = "t"
cover = { chapter = 3, page = 4 }
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Cover == nil || d.Cover.Chapter != 3 || d.Cover.Page != 4 {
		t.Errorf("got %+v", d.Cover)
	}
}

func TestParse_Chapters(t *testing.T) {
	d, err := descriptor.Parse([]byte(`
id = "a"
title = "t"
chapters = [
    { path = "01", title = "One" },
    { path = "02.cbz", title = "Two", date = 12345 },
]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d.Chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(d.Chapters))
	}
	if d.Chapters[0].Path != "01" || d.Chapters[0].Title != "One" || d.Chapters[0].Date != 0 {
		t.Errorf("chapter 0: %+v", d.Chapters[0])
	}
	if d.Chapters[1].Date != 12345 {
		t.Errorf("chapter 1 date: got %d, want 12345", d.Chapters[1].Date)
	}
}
