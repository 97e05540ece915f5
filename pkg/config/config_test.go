package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Chart.HoleRadius != 0.35 || cfg.Chart.RingWidth != 0.25 {
		t.Errorf("chart defaults: %+v", cfg.Chart)
	}
	if cfg.Chart.MaxDepth != 3 {
		t.Errorf("max depth default: got %d", cfg.Chart.MaxDepth)
	}
	if cfg.Snapshot.Width != 600 || cfg.Snapshot.Height != 600 || !cfg.Snapshot.ShowLabels {
		t.Errorf("snapshot defaults: %+v", cfg.Snapshot)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	content := []byte("chart:\n  max_depth: 2\nsnapshot:\n  background: \"#101010\"\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Chart.MaxDepth != 2 {
		t.Errorf("max_depth override lost: got %d", cfg.Chart.MaxDepth)
	}
	if cfg.Snapshot.Background != "#101010" {
		t.Errorf("background override lost: got %q", cfg.Snapshot.Background)
	}
	// Untouched fields keep defaults.
	if cfg.Chart.RingWidth != 0.25 {
		t.Errorf("unset field lost its default: %v", cfg.Chart.RingWidth)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file must error")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("chart: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("unparseable yaml must error")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("chart:\n  ring_width: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); err == nil {
		t.Error("invalid tuning must fail validation")
	}
}

func TestValidate(t *testing.T) {
	breakages := []func(*Config){
		func(c *Config) { c.Chart.RingWidth = 0 },
		func(c *Config) { c.Chart.HoleRadius = -0.1 },
		func(c *Config) { c.Chart.MaxDepth = 0 },
		func(c *Config) { c.Chart.Margin = 0 },
		func(c *Config) { c.Chart.Margin = 1.5 },
		func(c *Config) { c.Chart.DarkenFactor = 0 },
		func(c *Config) { c.Chart.DarkenFactor = 2 },
	}
	for i, mutate := range breakages {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("breakage %d passed validation", i)
		}
	}
}

func TestTuningConversion(t *testing.T) {
	cfg := Default()
	cfg.Chart.MaxDepth = 5
	tuning := cfg.Tuning()
	if tuning.MaxDepth != 5 || tuning.HoleRadius != cfg.Chart.HoleRadius {
		t.Errorf("conversion: %+v", tuning)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	cfgDir := filepath.Join(root, ConfigDirName)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(cfgDir, ConfigFileName)
	if err := os.WriteFile(cfgPath, []byte("chart:\n  max_depth: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok := Discover(nested)
	if !ok || got != cfgPath {
		t.Errorf("discover from nested dir: got %q ok=%v, want %q", got, ok, cfgPath)
	}

	if _, ok := Discover(t.TempDir()); ok {
		t.Error("discover in a bare tree must find nothing")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("no explicit path: %v", err)
	}
	if cfg.Chart.MaxDepth == 0 {
		t.Error("defaults not applied")
	}

	path := filepath.Join(t.TempDir(), "analysis.yaml")
	if err := os.WriteFile(path, []byte("chart:\n  max_depth: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("explicit path: %v", err)
	}
	if cfg.Chart.MaxDepth != 4 {
		t.Errorf("explicit config ignored: %d", cfg.Chart.MaxDepth)
	}
}
