package content

import (
	"os"
	"testing"

	"github.com/andyrewlee/nimbus/internal/config"
)

func TestDefaultContentParses(t *testing.T) {
	site, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if site.Title == "" {
		t.Fatal("expected a title")
	}
	if len(site.Sections) == 0 {
		t.Fatal("expected sections")
	}
	if site.Contact.Email == "" {
		t.Fatal("expected a contact email")
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	paths := config.PathsIn(t.TempDir())
	site, err := Load(paths)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def, _ := Default()
	if site.Title != def.Title {
		t.Fatalf("expected default title %q, got %q", def.Title, site.Title)
	}
}

func TestLoadUserOverride(t *testing.T) {
	paths := config.PathsIn(t.TempDir())
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	data := `
title: override
sections:
  - heading: Only section
    body: hi
`
	if err := os.WriteFile(paths.ContentPath, []byte(data), 0644); err != nil {
		t.Fatalf("write content: %v", err)
	}

	site, err := Load(paths)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if site.Title != "override" {
		t.Fatalf("expected override title, got %q", site.Title)
	}
	if len(site.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(site.Sections))
	}
}

func TestLoadRejectsInvalidContent(t *testing.T) {
	paths := config.PathsIn(t.TempDir())
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if err := os.WriteFile(paths.ContentPath, []byte("tagline: no title here"), 0644); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if _, err := Load(paths); err == nil {
		t.Fatal("expected validation error for missing title")
	}
}
