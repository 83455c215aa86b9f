package server

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/klauspost/compress/flate"

	"github.com/banux/manga-server/internal/library"
)

// servePage implements the Page Streamer (spec.md §4.5): it resolves a
// chapter's page source and writes the page's bytes to w, choosing the
// stored-bytes, pass-through-deflate, or decode-deflate path as the
// entry's compression method and the client's negotiated encodings allow.
func servePage(w http.ResponseWriter, r *http.Request, pages library.PageSource, index int) {
	enc, ok := parseAcceptEncoding(r)
	if !ok {
		w.WriteHeader(http.StatusNotAcceptable)
		return
	}

	switch pages.Kind {
	case library.PageSourceLoose:
		if index < 0 || index >= len(pages.Files) {
			http.NotFound(w, r)
			return
		}
		streamLooseFile(w, pages.Files[index])
	case library.PageSourceArchive:
		if index < 0 || index >= len(pages.Entries) {
			http.NotFound(w, r)
			return
		}
		streamArchiveEntry(w, pages.ArchivePath, pages.Entries[index], enc)
	default:
		http.NotFound(w, r)
	}
}

func streamLooseFile(w http.ResponseWriter, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("page read error %q: %v", path, err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	w.Write(data)
}

func streamArchiveEntry(w http.ResponseWriter, archivePath string, e library.ArchiveEntry, enc acceptedEncodings) {
	f, err := os.Open(archivePath)
	if err != nil {
		log.Printf("archive open error %q: %v", archivePath, err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	if _, err := f.Seek(e.Offset, io.SeekStart); err != nil {
		log.Printf("archive seek error %q entry %q: %v", archivePath, e.Name, err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	clamped := io.LimitReader(f, int64(e.CompressedSize))

	switch e.Method {
	case library.MethodStore:
		buf, err := readInto(clamped, e.UncompressedSize)
		if err != nil {
			log.Printf("archive read error %q entry %q: %v", archivePath, e.Name, err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}
		w.Write(buf)

	case library.MethodDeflate:
		if enc.deflate {
			w.Header().Set("Content-Encoding", "deflate")
			if _, err := io.Copy(w, clamped); err != nil {
				log.Printf("archive passthrough error %q entry %q: %v", archivePath, e.Name, err)
			}
			return
		}
		fr := flate.NewReader(clamped)
		defer fr.Close()
		buf, err := readInto(fr, e.UncompressedSize)
		if err != nil {
			log.Printf("archive inflate error %q entry %q: %v", archivePath, e.Name, err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}
		w.Write(buf)

	default:
		log.Printf("%s: entry %q uses an unsupported compression method", archivePath, e.Name)
		http.Error(w, "", http.StatusInternalServerError)
	}
}

// readInto reads r fully into a buffer pre-sized to capacity, per spec.md
// §4.5's buffer pre-sizing note.
func readInto(r io.Reader, capacity uint64) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, capacity))
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
