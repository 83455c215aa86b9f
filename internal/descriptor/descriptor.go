// Package descriptor parses the per-work info.toml descriptor file.
package descriptor

import (
	"fmt"
	"strings"
)

// Status mirrors the work's publication status. It deserializes from the
// lowercase names below but is always re-serialized as an integer (0-6).
type Status int

const (
	StatusUnknown Status = iota
	StatusOngoing
	StatusCompleted
	StatusLicensed
	StatusPublishingFinished
	StatusCancelled
	StatusOnHiatus
)

var statusNames = map[string]Status{
	"unknown":             StatusUnknown,
	"ongoing":             StatusOngoing,
	"completed":           StatusCompleted,
	"licensed":            StatusLicensed,
	"publishingfinished":  StatusPublishingFinished,
	"cancelled":           StatusCancelled,
	"onhiatus":            StatusOnHiatus,
}

// UnmarshalTOML implements go-toml's Unmarshaler for the status field, which
// is always written as a lowercase string in the descriptor file.
func (s *Status) UnmarshalTOML(i interface{}) error {
	str, ok := i.(string)
	if !ok {
		return fmt.Errorf("status: expected a string, got %T", i)
	}
	st, ok := statusNames[str]
	if !ok {
		return fmt.Errorf("status: unknown value %q", str)
	}
	*s = st
	return nil
}

// MarshalJSON always emits the integer form, per the wire format.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%d", int(s))), nil
}

// FlatList decodes either a single TOML string or an array of strings, and
// flattens to a single string joined by ", " (the wire representation for
// authors/artists/tags).
type FlatList string

// UnmarshalTOML accepts either form the descriptor allows: a bare string or
// an array of strings.
func (f *FlatList) UnmarshalTOML(i interface{}) error {
	switch v := i.(type) {
	case string:
		*f = FlatList(v)
		return nil
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected a string list entry, got %T", item)
			}
			parts = append(parts, s)
		}
		*f = FlatList(strings.Join(parts, ", "))
		return nil
	default:
		return fmt.Errorf("expected a string or array of strings, got %T", i)
	}
}

// CoverForm distinguishes the two shapes a cover field may take.
type CoverForm int

const (
	CoverFormFile CoverForm = iota
	CoverFormPage
)

// Cover is either a bare path (relative to the work directory) or an inline
// table referencing a chapter/page pair whose rendered page doubles as the
// cover image.
type Cover struct {
	Form    CoverForm
	Path    string
	Chapter int
	Page    int
}

// UnmarshalTOML accepts a bare string (file form) or an inline table with
// ch/chapter and pg/page keys (page form).
func (c *Cover) UnmarshalTOML(i interface{}) error {
	switch v := i.(type) {
	case string:
		c.Form = CoverFormFile
		c.Path = v
		return nil
	case map[string]interface{}:
		c.Form = CoverFormPage
		ch, ok := firstInt(v, "ch", "chapter")
		if !ok {
			return fmt.Errorf("cover: table form requires a ch/chapter key")
		}
		pg, ok := firstInt(v, "pg", "page")
		if !ok {
			return fmt.Errorf("cover: table form requires a pg/page key")
		}
		c.Chapter = ch
		c.Page = pg
		return nil
	default:
		return fmt.Errorf("cover: expected a string or table, got %T", i)
	}
}

func firstInt(m map[string]interface{}, keys ...string) (int, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case int64:
			return int(n), true
		case int:
			return n, true
		}
	}
	return 0, false
}

// ChapterInfo is a single chapters[] entry from the descriptor.
type ChapterInfo struct {
	Path  string `toml:"path"`
	Title string `toml:"title"`
	Date  uint64 `toml:"date"`
}

// Descriptor is the parsed contents of an info.toml file.
type Descriptor struct {
	ID          string        `toml:"id"`
	Title       string        `toml:"title"`
	Cover       *Cover        `toml:"cover"`
	Status      Status        `toml:"status"`
	Description string        `toml:"description"`
	Authors     FlatList      `toml:"authors"`
	Artists     FlatList      `toml:"artists"`
	Tags        FlatList      `toml:"tags"`
	Chapters    []ChapterInfo `toml:"chapters"`
}
