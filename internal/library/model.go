// Package library holds the in-memory domain types produced by the loader
// and served by the HTTP layer. None of these types perform I/O.
package library

// Method is the compression method recorded for an archive entry.
type Method int

const (
	MethodStore Method = iota
	MethodDeflate
	MethodOther
)

// ArchiveEntry describes one page inside a zip/cbz archive, with enough
// information to seek directly to its compressed bytes without re-reading
// the central directory.
type ArchiveEntry struct {
	Name             string
	Method           Method
	Offset           int64
	CompressedSize   uint64
	UncompressedSize uint64
}

// PageSourceKind distinguishes how a chapter's pages are stored on disk.
type PageSourceKind int

const (
	PageSourceNone PageSourceKind = iota
	PageSourceLoose
	PageSourceArchive
)

// PageSource is the resolved location of a chapter's pages: either a sorted
// list of loose files, or an archive path plus its indexed entries.
type PageSource struct {
	Kind        PageSourceKind
	Files       []string // PageSourceLoose: absolute paths, in page order
	ArchivePath string   // PageSourceArchive
	Entries     []ArchiveEntry
}

// Len returns the number of pages available from this source.
func (p PageSource) Len() int {
	switch p.Kind {
	case PageSourceLoose:
		return len(p.Files)
	case PageSourceArchive:
		return len(p.Entries)
	default:
		return 0
	}
}

// Chapter is one resolved chapter of a work.
type Chapter struct {
	Title string
	Date  uint64
	Pages PageSource
}

// CoverKind distinguishes the two forms a work's cover may take.
type CoverKind int

const (
	CoverNone CoverKind = iota
	CoverFile
	CoverPage
)

// Cover is a work's resolved cover image source.
type Cover struct {
	Kind    CoverKind
	Path    string // CoverFile: absolute path
	Chapter int    // CoverPage
	Page    int    // CoverPage
}

// Work is a single loaded manga/comic directory, fully resolved.
type Work struct {
	ID          string
	Title       string
	SourceDir   string
	Status      int
	Description string
	Authors     string
	Artists     string
	Tags        string
	Cover       *Cover
	Chapters    []Chapter
}
