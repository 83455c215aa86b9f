package store_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/banux/manga-server/internal/store"
)

func TestNewJSONPayload_BelowThreshold_NoGzip(t *testing.T) {
	p := store.NewJSONPayload([]byte(`{"a":1}`), 64)
	if p.Gzip != nil {
		t.Errorf("expected no gzip alternative for small payload, got %d bytes", len(p.Gzip))
	}
	if !bytes.Equal(p.Raw, []byte(`{"a":1}`)) {
		t.Errorf("raw mismatch")
	}
}

func TestNewJSONPayload_Compressible_KeepsGzip(t *testing.T) {
	raw := []byte(`{"value":"` + strings.Repeat("a", 1000) + `"}`)
	p := store.NewJSONPayload(raw, 64)
	if p.Gzip == nil {
		t.Fatal("expected a gzip alternative for a highly compressible payload")
	}
	if len(p.Gzip) >= len(p.Raw) {
		t.Errorf("gzip alternative (%d bytes) not smaller than raw (%d bytes)", len(p.Gzip), len(p.Raw))
	}
}

func TestNewJSONPayload_DefaultThreshold(t *testing.T) {
	small := []byte(strings.Repeat("x", 30))
	p := store.NewJSONPayload(small, 0)
	if p.Gzip != nil {
		t.Error("expected default threshold (64) to skip gzip for a 30-byte payload")
	}
}

func TestNewJSONPayload_IncompressibleAboveThreshold_NoGzipKept(t *testing.T) {
	// Random-looking bytes that gzip can't shrink below the raw size.
	raw := []byte("{\"blob\":\"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ!@#$%^&*()\"}")
	p := store.NewJSONPayload(raw, 10)
	if p.Gzip != nil && len(p.Gzip) >= len(p.Raw) {
		t.Error("gzip alternative kept despite not being smaller")
	}
}
