package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banux/manga-server/internal/config"
)

func TestDefault_Values(t *testing.T) {
	cfg := config.Default()
	if cfg.WalkConcurrency != 128 {
		t.Errorf("WalkConcurrency: got %d, want 128", cfg.WalkConcurrency)
	}
	if cfg.GzipThresholdBytes != 64 {
		t.Errorf("GzipThresholdBytes: got %d, want 64", cfg.GzipThresholdBytes)
	}
	if !cfg.InferFileTypes {
		t.Error("InferFileTypes: got false, want true")
	}
	if !cfg.CacheEnabled {
		t.Error("CacheEnabled: got false, want true")
	}
}

func TestLoad_EmptyPath_UsesDefaults(t *testing.T) {
	t.Setenv("WALK_CONCURRENCY", "")
	t.Setenv("GZIP_THRESHOLD_BYTES", "")
	t.Setenv("INFER_FILE_TYPES", "")
	t.Setenv("CACHE_ENABLED", "")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.WalkConcurrency != 128 {
		t.Errorf("WalkConcurrency: got %d, want 128", cfg.WalkConcurrency)
	}
}

func TestLoad_FromYAMLFile(t *testing.T) {
	yaml := `
walk_concurrency: 64
gzip_threshold_bytes: 128
infer_file_types: false
cache_enabled: false
`
	path := writeTemp(t, "config.yaml", yaml)

	t.Setenv("WALK_CONCURRENCY", "")
	t.Setenv("GZIP_THRESHOLD_BYTES", "")
	t.Setenv("INFER_FILE_TYPES", "")
	t.Setenv("CACHE_ENABLED", "")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.WalkConcurrency != 64 {
		t.Errorf("WalkConcurrency: got %d, want 64", cfg.WalkConcurrency)
	}
	if cfg.GzipThresholdBytes != 128 {
		t.Errorf("GzipThresholdBytes: got %d, want 128", cfg.GzipThresholdBytes)
	}
	if cfg.InferFileTypes {
		t.Error("InferFileTypes: got true, want false")
	}
	if cfg.CacheEnabled {
		t.Error("CacheEnabled: got true, want false")
	}
}

func TestLoad_PartialYAML_UsesDefaults(t *testing.T) {
	yaml := `walk_concurrency: 32`
	path := writeTemp(t, "partial.yaml", yaml)

	t.Setenv("WALK_CONCURRENCY", "")
	t.Setenv("GZIP_THRESHOLD_BYTES", "")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.WalkConcurrency != 32 {
		t.Errorf("WalkConcurrency: got %d, want 32", cfg.WalkConcurrency)
	}
	if cfg.GzipThresholdBytes != 64 {
		t.Errorf("GzipThresholdBytes: got %d, want 64 (default)", cfg.GzipThresholdBytes)
	}
}

func TestLoad_EnvVarsOverrideFile(t *testing.T) {
	yaml := `walk_concurrency: 64`
	path := writeTemp(t, "config.yaml", yaml)

	t.Setenv("WALK_CONCURRENCY", "16")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.WalkConcurrency != 16 {
		t.Errorf("WalkConcurrency: got %d, want 16 (from env)", cfg.WalkConcurrency)
	}
}

func TestLoad_EnvVarsOverrideDefaults(t *testing.T) {
	t.Setenv("WALK_CONCURRENCY", "8")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.WalkConcurrency != 8 {
		t.Errorf("WalkConcurrency: got %d, want 8", cfg.WalkConcurrency)
	}
}

func TestLoad_NonexistentFile_ReturnsError(t *testing.T) {
	_, err := config.Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent config file, got nil")
	}
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeTemp(t, "bad.yaml", "{ invalid yaml: [")
	_, err := config.Load(path)
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestFindConfigFile_EnvVar(t *testing.T) {
	path := writeTemp(t, "explicit.yaml", "walk_concurrency: 1")
	t.Setenv("MANGA_SERVER_CONFIG", path)

	found := config.FindConfigFile()
	if found != path {
		t.Errorf("FindConfigFile: got %q, want %q", found, path)
	}
}

func TestFindConfigFile_NoFile_ReturnsEmpty(t *testing.T) {
	t.Setenv("MANGA_SERVER_CONFIG", "")

	orig, _ := os.Getwd()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	_ = os.Chdir(dir)
	defer func() { _ = os.Chdir(orig) }()

	found := config.FindConfigFile()
	if found != "" {
		t.Errorf("FindConfigFile: got %q, want \"\" with no config file present", found)
	}
}

// writeTemp creates a temporary file with the given content and returns its path.
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writeTemp: %v", err)
	}
	return path
}
