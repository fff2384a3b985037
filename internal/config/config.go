// Package config loads the checker's run configuration from a YAML file,
// with environment overrides for machine-local settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the run configuration. Relative paths under the working files
// directory describe the fixed layout of a checking workspace.
type Config struct {
	// FilesDir is the root of the checking workspace.
	FilesDir string `yaml:"filesdir"`
	// Reference is the canonical metadata document, relative to FilesDir.
	Reference string `yaml:"reference"`
	// Guide is the property name guide used by the divergence check.
	Guide string `yaml:"guide"`
	// TechGuide is the technical guide used by the inventory mode.
	TechGuide string `yaml:"techguide"`

	TestDir    string `yaml:"testdir"`
	ResultsDir string `yaml:"resultsdir"`
	CacheDir   string `yaml:"cachedir"`
	BackupDir  string `yaml:"backupdir"`

	// CSVSeparator is the inventory CSV delimiter, "," when empty.
	CSVSeparator string `yaml:"csvseparator"`
	// ExiftoolPath overrides the exiftool binary location. The
	// PMDCHECKER_EXIFTOOL environment variable takes precedence.
	ExiftoolPath string `yaml:"exiftoolpath"`
}

// Default returns the configuration matching the conventional workspace
// layout.
func Default() Config {
	return Config{
		FilesDir:   "./files",
		Reference:  "reference/IPTC-PhotometadataRef-Std2019.1.json",
		Guide:      "config/pmdinvestigationguide.yml",
		TechGuide:  "config/iptc-pmd-techguide.yml",
		TestDir:    "test",
		ResultsDir: "testresults",
		CacheDir:   "cache",
		BackupDir:  "backup",
	}
}

// Load reads a configuration file and applies defaults and environment
// overrides. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("PMDCHECKER_EXIFTOOL"); v != "" {
		cfg.ExiftoolPath = v
	}
	if v := os.Getenv("PMDCHECKER_FILESDIR"); v != "" {
		cfg.FilesDir = v
	}

	if cfg.Reference == "" {
		return cfg, fmt.Errorf("config is missing the reference document path")
	}
	if cfg.Guide == "" && cfg.TechGuide == "" {
		return cfg, fmt.Errorf("config names no property guide")
	}
	return cfg, nil
}

// ReferencePath returns the absolute location of the reference document.
func (c Config) ReferencePath() string { return c.resolve(c.Reference) }

// CheckGuidePath returns the guide for the divergence check. The technical
// guide is preferred since it also carries the IIM/XMP mapping the value
// synchronization checks need.
func (c Config) CheckGuidePath() string {
	if c.TechGuide != "" {
		return c.resolve(c.TechGuide)
	}
	return c.resolve(c.Guide)
}

// InventoryGuidePath returns the technical guide the inventory mode is
// driven by.
func (c Config) InventoryGuidePath() string { return c.resolve(c.TechGuide) }

// TestPath returns the directory holding the images to check.
func (c Config) TestPath() string { return filepath.Join(c.FilesDir, c.TestDir) }

// ResultsPath returns the directory result files are written to.
func (c Config) ResultsPath() string { return filepath.Join(c.FilesDir, c.ResultsDir) }

// CachePath returns the directory extracted metadata documents are kept in.
func (c Config) CachePath() string { return filepath.Join(c.FilesDir, c.CacheDir) }

// BackupPath returns the directory processed images are moved to.
func (c Config) BackupPath() string { return filepath.Join(c.FilesDir, c.BackupDir) }

// RunLogPath returns the shared log receiving all runs' findings.
func (c Config) RunLogPath() string {
	return filepath.Join(c.ResultsPath(), "testresults_all.txt")
}

// Separator returns the CSV delimiter as a rune.
func (c Config) Separator() rune {
	if c.CSVSeparator == "" {
		return ','
	}
	return []rune(c.CSVSeparator)[0]
}

// resolve treats absolute paths as-is and anchors relative ones under the
// files directory.
func (c Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.FilesDir, p)
}
