package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultHasAllTables(t *testing.T) {
	cfg := Default()

	if len(cfg.Keywords.Pricing) == 0 {
		t.Fatal("default pricing keywords empty")
	}
	if len(cfg.Keywords.Legal) == 0 {
		t.Fatal("default legal keywords empty")
	}
	if len(cfg.Keywords.Completion) == 0 {
		t.Fatal("default completion verbs empty")
	}
	if len(cfg.Markers.Unknown) == 0 || len(cfg.Markers.FileReference) == 0 {
		t.Fatal("default markers empty")
	}
	if cfg.Alerts.Threshold != "HIGH" {
		t.Fatalf("default alert threshold = %s, want HIGH", cfg.Alerts.Threshold)
	}
}

func TestLoadOverlaysOnDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gate.yaml")
	raw := `
keywords:
  pricing: ["kostet", "tarif"]
alerts:
  threshold: MEDIUM
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Keywords.Pricing) != 2 || cfg.Keywords.Pricing[0] != "kostet" {
		t.Fatalf("pricing keywords not overridden: %v", cfg.Keywords.Pricing)
	}
	// Lists absent from the file must keep defaults.
	if len(cfg.Keywords.Legal) == 0 {
		t.Fatal("legal keywords lost their defaults")
	}
	if cfg.Alerts.Threshold != "MEDIUM" {
		t.Fatalf("alert threshold = %s, want MEDIUM", cfg.Alerts.Threshold)
	}
}

func TestLoadMissingFileReturnsDefaultsAndError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if len(cfg.Keywords.Pricing) == 0 {
		t.Fatal("expected defaults alongside the error")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("keywords: [not, a, map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
