package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFeedsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feeds.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write feeds file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFeedsFile(t, `feeds:
  - name: Blog
    url: https://blog.example/feed.xml
  - name: Podcast
    url: https://pod.example/rss
`)

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(sources) != 2 {
		t.Fatalf("Expected 2 sources, got: %d", len(sources))
	}
	if sources[0].Name != "Blog" {
		t.Errorf("Expected name 'Blog', got: %s", sources[0].Name)
	}
	if sources[0].URL != "https://blog.example/feed.xml" {
		t.Errorf("Expected blog feed URL, got: %s", sources[0].URL)
	}
	if sources[1].Name != "Podcast" {
		t.Errorf("Expected name 'Podcast', got: %s", sources[1].Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeFeedsFile(t, "feeds: [name: {")

	_, err := Load(path)
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadMissingName(t *testing.T) {
	path := writeFeedsFile(t, `feeds:
  - url: https://blog.example/feed.xml
`)

	_, err := Load(path)
	if err == nil {
		t.Error("Expected error for source without name")
	}
}

func TestLoadMissingURL(t *testing.T) {
	path := writeFeedsFile(t, `feeds:
  - name: Blog
`)

	_, err := Load(path)
	if err == nil {
		t.Error("Expected error for source without URL")
	}
}

func TestLoadEmptyList(t *testing.T) {
	path := writeFeedsFile(t, "feeds: []\n")

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("Expected no sources, got: %d", len(sources))
	}
}
