package cli

import (
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"home fallback", "", filepath.Join(home, ".cache", "analogtopo")},
		{"XDG_CACHE_HOME", "/tmp/xdg-cache", filepath.Join("/tmp/xdg-cache", "analogtopo")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		input, suffix, want string
	}{
		{"ota.sp", "_constraints.json", "ota_constraints.json"},
		{"dir/amp.cir", "_c.json", "dir/amp_c.json"},
		{"netlist", "_constraints.json", "netlist_constraints.json"},
		{"ota.tb.sp", "_constraints.json", "ota.tb_constraints.json"},
		{"runs.v2/ota", "_constraints.json", "runs.v2/ota_constraints.json"},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.input, tt.suffix); got != tt.want {
			t.Errorf("defaultOutput(%q, %q) = %q, want %q", tt.input, tt.suffix, got, tt.want)
		}
	}
}

// Cache entries and default outputs must never collide: the cache lives under
// its own directory, outputs sit next to the netlist.
func TestDefaultOutputOutsideCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(t.TempDir(), "ota.sp")
	out := defaultOutput(input, "_constraints.json")
	if filepath.Dir(out) != filepath.Dir(input) {
		t.Errorf("defaultOutput(%q) = %q, want a sibling of the netlist", input, out)
	}
	if rel, err := filepath.Rel(dir, out); err == nil && filepath.IsLocal(rel) {
		t.Errorf("default output %q lies inside the cache %q", out, dir)
	}
}
