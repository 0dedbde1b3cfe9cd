package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `{
	"L21_V001": {"watch_url": "https://www.youtube.com/watch?v=abc123", "fps": 25},
	"L21_V002": {"watch_url": "https://youtu.be/def456", "fps": 30}
}`

func TestLoad_OK(t *testing.T) {
	p := filepath.Join(t.TempDir(), "final_videos.json")
	if err := os.WriteFile(p, []byte(sampleCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	meta, err := c.Lookup("L21_V001")
	if err != nil {
		t.Fatal(err)
	}
	if meta.WatchURL != "https://www.youtube.com/watch?v=abc123" || meta.FPS != 25 {
		t.Fatalf("bad entry: %+v", meta)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_BadJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(p, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Fatal("expected error")
	}
}

func TestLookup_Miss(t *testing.T) {
	c := Catalog{}
	if _, err := c.Lookup("ghost"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestLookup_NilCatalog(t *testing.T) {
	var c Catalog
	if _, err := c.Lookup("any"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}
