package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jcobol-labs/osm2mc/internal/geom"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Defaults()
	if cfg != want {
		t.Fatalf("Load(missing) = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("Load(\"\") did not return defaults")
	}
}

func TestLoadOverlaysPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "osm2mc.yaml")
	writeFile(t, path, "ground_level: 80\nelevation:\n  max_zoom: 12\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GroundLevel != 80 {
		t.Errorf("GroundLevel = %d, want 80", cfg.GroundLevel)
	}
	if cfg.Elevation.MaxZoom != 12 {
		t.Errorf("Elevation.MaxZoom = %d, want 12", cfg.Elevation.MaxZoom)
	}
	if cfg.Elevation.MinZoom != Defaults().Elevation.MinZoom {
		t.Errorf("Elevation.MinZoom = %d, want untouched default %d", cfg.Elevation.MinZoom, Defaults().Elevation.MinZoom)
	}
	if cfg.Water != Defaults().Water {
		t.Errorf("Water tunables should remain at defaults when omitted from the file")
	}
}

func TestLoadMalformedFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "ground_level: [this is not an int\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for malformed YAML")
	}
}

func TestRailOrientationDefaultsToHorizontal(t *testing.T) {
	r := Railway{}
	if r.RailOrientation() != geom.Horizontal {
		t.Fatalf("expected default orientation Horizontal for empty field")
	}
	r.DefaultOrientation = "vertical"
	if r.RailOrientation() != geom.Vertical {
		t.Fatalf("expected Vertical when configured")
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
