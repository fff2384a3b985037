package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.FilesDir != "./files" {
		t.Errorf("Unexpected files dir: %s", cfg.FilesDir)
	}
	if cfg.Separator() != ',' {
		t.Errorf("Expected comma separator, got %q", cfg.Separator())
	}
	want := filepath.Join("files", "reference", "IPTC-PhotometadataRef-Std2019.1.json")
	if cfg.ReferencePath() != want {
		t.Errorf("Expected %s, got %s", want, cfg.ReferencePath())
	}
}

func TestLoadFile(t *testing.T) {
	content := `
filesdir: /data/pmd
reference: ref.json
techguide: guide.yml
csvseparator: ";"
`
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.FilesDir != "/data/pmd" {
		t.Errorf("Unexpected files dir: %s", cfg.FilesDir)
	}
	if cfg.ReferencePath() != filepath.Join("/data/pmd", "ref.json") {
		t.Errorf("Unexpected reference path: %s", cfg.ReferencePath())
	}
	if cfg.Separator() != ';' {
		t.Errorf("Expected semicolon separator, got %q", cfg.Separator())
	}
	// Unset sections keep their defaults.
	if cfg.TestDir != "test" {
		t.Errorf("Expected default test dir, got %s", cfg.TestDir)
	}
}

func TestGuideSelection(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantCheck string
	}{
		{
			name:      "technical guide preferred",
			cfg:       Config{FilesDir: "w", Guide: "old.yml", TechGuide: "tech.yml"},
			wantCheck: filepath.Join("w", "tech.yml"),
		},
		{
			name:      "fallback to plain guide",
			cfg:       Config{FilesDir: "w", Guide: "old.yml"},
			wantCheck: filepath.Join("w", "old.yml"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.CheckGuidePath(); got != tt.wantCheck {
				t.Errorf("Expected %s, got %s", tt.wantCheck, got)
			}
		})
	}
}

func TestEnvOverridesExiftoolPath(t *testing.T) {
	t.Setenv("PMDCHECKER_EXIFTOOL", "/opt/exiftool/exiftool")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.ExiftoolPath != "/opt/exiftool/exiftool" {
		t.Errorf("Expected env override, got %s", cfg.ExiftoolPath)
	}
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	content := "reference: \"\"\nguide: \"\"\ntechguide: \"\"\n"
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Expected an error for a config without reference document")
	}
}
