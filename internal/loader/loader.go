// Package loader builds an immutable store.LibraryStore from a filesystem tree:
// it walks the library root, parses each work's info.toml descriptor,
// resolves every chapter's pages (loose directory or zip/cbz archive), and
// emits the pre-encoded JSON bodies the server hands out for the rest of
// the process's lifetime.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/dustin/go-humanize"

	"github.com/banux/manga-server/internal/cache"
	"github.com/banux/manga-server/internal/descriptor"
	"github.com/banux/manga-server/internal/library"
	"github.com/banux/manga-server/internal/store"
)

// defaultConcurrency is the cap on simultaneously open directory handles
// during the walk (spec.md §4.2 step 1, §5 Resource bounds).
const defaultConcurrency = 128

// Options configures a Load call. All fields have sane zero-value defaults.
type Options struct {
	// Concurrency bounds simultaneously open directory/archive handles.
	// Defaults to 128 when <= 0.
	Concurrency int64
	// GzipThreshold overrides the raw-length threshold above which a gzip
	// alternative payload is computed. Defaults to 64 when <= 0.
	GzipThreshold int
	// Cache, if non-nil, accelerates repeat archive indexing across runs.
	Cache *cache.Index
	// DisableFileTypeInference skips the magic-byte fallback for archive
	// chapters whose path has no recognized extension (so such chapters
	// fail to resolve instead of being sniffed). Off by default.
	DisableFileTypeInference bool
	// Warnf receives non-fatal problems encountered while loading. If nil,
	// defaults to log.Printf.
	Warnf func(format string, args ...interface{})
}

// Load walks root and builds a complete, immutable store.LibraryStore.
func Load(ctx context.Context, root string, opts Options) (*store.LibraryStore, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	warn := opts.Warnf
	if warn == nil {
		warn = log.Printf
	}

	sem := semaphore.NewWeighted(concurrency)
	found, err := walkLibrary(ctx, root, sem, warn)
	if err != nil {
		return nil, err
	}

	resolved := make([]*library.Work, len(found))
	g, gctx := errgroup.WithContext(ctx)
	for i, fw := range found {
		i, fw := i, fw
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			work, err := resolveWork(fw.dir, fw.desc, opts.Cache, opts.DisableFileTypeInference)
			sem.Release(1)
			if err != nil {
				warn("%s: %v", fw.dir, err)
				return nil
			}
			resolved[i] = work
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}

	// Duplicate work ids: last write wins (spec.md §9 / §3), deterministic
	// for a given traversal order. The listing entry keeps its original
	// position but reflects the surviving (last) work's title; the per-id
	// map entry is simply overwritten.
	type listItem struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	var listing []listItem
	position := make(map[string]int)
	sourceDir := make(map[string]string)
	byID := make(map[string]*store.WorkEntry)
	pageCount := 0
	workCount := 0

	for _, w := range resolved {
		if w == nil {
			continue
		}
		workCount++
		for _, ch := range w.Chapters {
			pageCount += ch.Pages.Len()
		}

		body, err := buildWorkJSON(w)
		if err != nil {
			warn("%s: serialize work body: %v", w.SourceDir, err)
			continue
		}
		entry := &store.WorkEntry{
			Body:     store.NewJSONPayload(body, opts.GzipThreshold),
			Cover:    w.Cover,
			Chapters: w.Chapters,
		}

		if pos, dup := position[w.ID]; dup {
			warn("duplicate work id %q: %q overrides %q", w.ID, w.SourceDir, sourceDir[w.ID])
			listing[pos] = listItem{ID: w.ID, Title: w.Title}
		} else {
			position[w.ID] = len(listing)
			listing = append(listing, listItem{ID: w.ID, Title: w.Title})
		}
		sourceDir[w.ID] = w.SourceDir
		byID[w.ID] = entry
	}

	if listing == nil {
		listing = []listItem{}
	}
	listingJSON, err := json.Marshal(listing)
	if err != nil {
		return nil, fmt.Errorf("serialize library listing: %w", err)
	}

	log.Printf("loaded %s works, %s pages from %q",
		humanize.Comma(int64(workCount)), humanize.Comma(int64(pageCount)), root)

	return store.New(store.NewJSONPayload(listingJSON, opts.GzipThreshold), byID), nil
}

// resolveWork turns a parsed descriptor plus its directory into a fully
// resolved library.Work: every chapter's pages located, the cover path
// (if file-form) made absolute. Any chapter resolution failure drops the
// entire work (spec.md §7, ChapterResolutionFailure).
func resolveWork(dir string, desc *descriptor.Descriptor, idx *cache.Index, disableSniff bool) (*library.Work, error) {
	chapters := make([]library.Chapter, len(desc.Chapters))
	for i, ci := range desc.Chapters {
		pages, err := resolveChapterPages(dir, ci.Path, idx, disableSniff)
		if err != nil {
			return nil, fmt.Errorf("chapter %q: %w", ci.Path, err)
		}
		chapters[i] = library.Chapter{Title: ci.Title, Date: ci.Date, Pages: pages}
	}

	var cover *library.Cover
	if desc.Cover != nil {
		switch desc.Cover.Form {
		case descriptor.CoverFormFile:
			cover = &library.Cover{Kind: library.CoverFile, Path: filepath.Join(dir, desc.Cover.Path)}
		case descriptor.CoverFormPage:
			cover = &library.Cover{Kind: library.CoverPage, Chapter: desc.Cover.Chapter, Page: desc.Cover.Page}
		}
	}

	return &library.Work{
		ID:          desc.ID,
		Title:       desc.Title,
		SourceDir:   dir,
		Status:      int(desc.Status),
		Description: desc.Description,
		Authors:     string(desc.Authors),
		Artists:     string(desc.Artists),
		Tags:        string(desc.Tags),
		Cover:       cover,
		Chapters:    chapters,
	}, nil
}

// resolveChapterPages resolves a single chapter's path (relative to the
// work directory) into a PageSource, per spec.md §4.2 steps 4-5.
func resolveChapterPages(workDir, relPath string, idx *cache.Index, disableSniff bool) (library.PageSource, error) {
	full := filepath.Join(workDir, relPath)
	info, err := os.Stat(full)
	if err != nil {
		return library.PageSource{}, fmt.Errorf("stat %q: %w", full, err)
	}

	if info.IsDir() {
		entries, err := os.ReadDir(full)
		if err != nil {
			return library.PageSource{}, fmt.Errorf("read dir %q: %w", full, err)
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			fi, err := e.Info()
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			files = append(files, e.Name())
		}
		sort.Strings(files)
		for i, name := range files {
			files[i] = filepath.Join(full, name)
		}
		return library.PageSource{Kind: library.PageSourceLoose, Files: files}, nil
	}

	if !isArchiveFile(full, disableSniff) {
		return library.PageSource{}, fmt.Errorf("unrecognized archive type: %q", full)
	}
	entries, err := indexArchive(full, idx)
	if err != nil {
		return library.PageSource{}, err
	}
	return library.PageSource{Kind: library.PageSourceArchive, ArchivePath: full, Entries: entries}, nil
}

// isArchiveFile decides whether path should be treated as a zip archive:
// by extension first, falling back to a magic-byte sniff when the
// extension is missing or unrecognized (spec.md §4.2 step 4).
func isArchiveFile(path string, disableSniff bool) bool {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "zip", "cbz":
		return true
	}
	if disableSniff {
		return false
	}
	return sniffZipMagic(path)
}

// buildWorkJSON serializes a work's per-work response body: the full
// descriptor minus id, cover, and path fields, with empty fields elided
// per spec.md §3/§6.2. The chapters array itself is never omitted, even
// when empty, matching §6.2's literal (non-bracketed) "chapters" field.
func buildWorkJSON(w *library.Work) ([]byte, error) {
	out := workBody{
		Title:       w.Title,
		Description: w.Description,
		Authors:     w.Authors,
		Artists:     w.Artists,
		Tags:        w.Tags,
		Chapters:    make([]chapterBody, len(w.Chapters)),
	}
	out.Status = w.Status
	for i, ch := range w.Chapters {
		n := ch.Pages.Len()
		if n > math.MaxUint32 {
			panic(fmt.Sprintf("chapter %d of work %q: page count %d exceeds uint32 range", i, w.ID, n))
		}
		out.Chapters[i] = chapterBody{Title: ch.Title, Date: ch.Date, Pages: uint32(n)}
	}
	return json.Marshal(out)
}

type workBody struct {
	Title       string        `json:"title"`
	Status      int           `json:"status,omitempty"`
	Description string        `json:"description,omitempty"`
	Authors     string        `json:"authors,omitempty"`
	Artists     string        `json:"artists,omitempty"`
	Tags        string        `json:"tags,omitempty"`
	Chapters    []chapterBody `json:"chapters"`
}

type chapterBody struct {
	Title string `json:"title"`
	Date  uint64 `json:"date,omitempty"`
	Pages uint32 `json:"pages"`
}
