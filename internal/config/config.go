package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region config
// Config holds the keyword tables driving the content analyzer. Reason weights
// and score thresholds are fixed in the taxonomy package and deliberately not
// configurable here.
type Config struct {
	Keywords Keywords `yaml:"keywords"`
	Markers  Markers  `yaml:"markers"`
	Alerts   Alerts   `yaml:"alerts"`
}

// Keywords are the case-insensitive risk vocabularies.
type Keywords struct {
	Pricing    []string `yaml:"pricing"`
	Legal      []string `yaml:"legal"`
	Completion []string `yaml:"completion"`
}

// Markers are mitigating phrases that suppress a reason when present.
type Markers struct {
	Unknown       []string `yaml:"unknown"`
	FileReference []string `yaml:"file_reference"`
}

// Alerts configures the batch scorer's alert threshold.
type Alerts struct {
	Threshold string `yaml:"threshold"` // LOW | MEDIUM | HIGH | CRITICAL
}

// #endregion config

// #region defaults
// Default returns the compiled-in keyword tables.
func Default() Config {
	return Config{
		Keywords: Keywords{
			Pricing: []string{
				"$", "€", "usd", "eur", "chf",
				"price", "pricing", "cost", "costs", "fee", "tariff",
				"per month", "/month", "per seat",
			},
			Legal: []string{
				"legal", "illegal", "law", "lawful", "liability", "liable",
				"warranty", "guarantee", "guaranteed", "regulation",
				"compliant", "compliance", "contractually",
			},
			Completion: []string{
				"implemented", "deployed", "connected", "integrated",
				"scraped", "completed",
			},
		},
		Markers: Markers{
			Unknown: []string{
				"unknown", "requires approval", "needs clarification", "tbd",
			},
			FileReference: []string{
				"file:", "files:", "path:", "see diff",
			},
		},
		Alerts: Alerts{Threshold: "HIGH"},
	}
}

// #endregion defaults

// #region load
// Load reads a YAML config file and overlays it on the defaults. Lists that
// are absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if len(file.Keywords.Pricing) > 0 {
		cfg.Keywords.Pricing = file.Keywords.Pricing
	}
	if len(file.Keywords.Legal) > 0 {
		cfg.Keywords.Legal = file.Keywords.Legal
	}
	if len(file.Keywords.Completion) > 0 {
		cfg.Keywords.Completion = file.Keywords.Completion
	}
	if len(file.Markers.Unknown) > 0 {
		cfg.Markers.Unknown = file.Markers.Unknown
	}
	if len(file.Markers.FileReference) > 0 {
		cfg.Markers.FileReference = file.Markers.FileReference
	}
	if file.Alerts.Threshold != "" {
		cfg.Alerts.Threshold = file.Alerts.Threshold
	}

	return cfg, nil
}

// #endregion load
