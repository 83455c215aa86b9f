package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/banux/manga-server/internal/library"
	"github.com/banux/manga-server/internal/store"
)

func writeJSONPayload(w http.ResponseWriter, r *http.Request, p store.Payload) {
	enc, ok := parseAcceptEncoding(r)
	if !ok {
		w.WriteHeader(http.StatusNotAcceptable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if enc.gzip && p.Gzip != nil {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(p.Gzip)
		return
	}
	w.Write(p.Raw)
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	writeJSONPayload(w, r, s.store.Listing)
}

func (s *Server) handleWork(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, ok := s.store.Work(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSONPayload(w, r, entry.Body)
}

func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, ok := s.store.Work(id)
	if !ok || entry.Cover == nil {
		http.NotFound(w, r)
		return
	}
	switch entry.Cover.Kind {
	case library.CoverFile:
		if _, ok := parseAcceptEncoding(r); !ok {
			w.WriteHeader(http.StatusNotAcceptable)
			return
		}
		streamLooseFile(w, entry.Cover.Path)
	case library.CoverPage:
		// A page-form cover is equivalent to GET /<workid>/<ch>/<pg>.
		servePageFromWork(w, r, entry, entry.Cover.Chapter, entry.Cover.Page)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entry, ok := s.store.Work(vars["id"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	ch, err := strconv.Atoi(vars["ch"])
	if err != nil || ch < 0 {
		http.NotFound(w, r)
		return
	}
	pg, err := strconv.Atoi(vars["pg"])
	if err != nil || pg < 0 {
		http.NotFound(w, r)
		return
	}
	servePageFromWork(w, r, entry, ch, pg)
}

func servePageFromWork(w http.ResponseWriter, r *http.Request, entry *store.WorkEntry, ch, pg int) {
	if ch < 0 || ch >= len(entry.Chapters) {
		http.NotFound(w, r)
		return
	}
	servePage(w, r, entry.Chapters[ch].Pages, pg)
}
