package loader

import (
	"archive/zip"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/banux/manga-server/internal/cache"
	"github.com/banux/manga-server/internal/library"
)

// indexArchive returns the archive's entries sorted by name (the page
// order), consulting and populating idx if non-nil. Entries whose
// compression method is neither Store nor Deflate are still recorded
// (as library.MethodOther); failing the page only happens at request time,
// not at load time, since an unreadable page shouldn't take down the whole
// chapter's listing.
func indexArchive(path string, idx *cache.Index) ([]library.ArchiveEntry, error) {
	var size int64
	var mtime time.Time
	if idx != nil {
		if info, err := os.Stat(path); err == nil {
			size, mtime = info.Size(), info.ModTime()
			if cached, ok := idx.Get(path, size, mtime); ok {
				return cached, nil
			}
		}
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w", path, err)
	}
	defer zr.Close()

	entries := make([]library.ArchiveEntry, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		offset, err := f.DataOffset()
		if err != nil {
			return nil, fmt.Errorf("archive %q: entry %q: data offset: %w", path, f.Name, err)
		}
		method := library.MethodOther
		switch f.Method {
		case zip.Store:
			method = library.MethodStore
		case zip.Deflate:
			method = library.MethodDeflate
		}
		entries = append(entries, library.ArchiveEntry{
			Name:             f.Name,
			Method:           method,
			Offset:           offset,
			CompressedSize:   f.CompressedSize64,
			UncompressedSize: f.UncompressedSize64,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	if idx != nil && !mtime.IsZero() {
		if err := idx.Put(path, size, mtime, entries); err != nil {
			// A cache write failure doesn't affect correctness of this load.
			return entries, nil
		}
	}
	return entries, nil
}
