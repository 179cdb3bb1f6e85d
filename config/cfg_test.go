package config

import (
	"testing"
)

func TestDefaultConfiguration(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("version: got %d, want 1", cfg.Version)
	}
	if cfg.Document.BlockWidth != 860 {
		t.Errorf("block_width: got %d, want 860", cfg.Document.BlockWidth)
	}
	if cfg.Document.Export.Supersample != 2 {
		t.Errorf("supersample: got %d, want 2", cfg.Document.Export.Supersample)
	}
	if cfg.Document.Export.JPEGQuality != 95 {
		t.Errorf("jpeg_quality_level: got %d, want 95", cfg.Document.Export.JPEGQuality)
	}
	if len(cfg.Fonts.Sources) == 0 {
		t.Error("expected default font sources")
	}
	if cfg.Storage.Path == "" {
		t.Error("expected default storage path")
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if _, err := unmarshalConfig(data, &Config{}, false); err != nil {
		t.Fatalf("dumped configuration does not parse back: %v", err)
	}
}
