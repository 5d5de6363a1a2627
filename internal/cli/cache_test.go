package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileCacheDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))

	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndir = \"/srv/dust\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cli  CLI
		want string
	}{
		{"flag", CLI{cacheURL: "/tmp/flag", configPath: cfgPath}, "/tmp/flag"},
		{"config", CLI{configPath: cfgPath}, "/srv/dust"},
		{"redis flag falls through", CLI{cacheURL: "redis://x:6379", configPath: cfgPath}, "/srv/dust"},
		{"default", CLI{}, filepath.Join(dir, "xdg", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cli.fileCacheDir()
			if err != nil {
				t.Fatalf("fileCacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("fileCacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}
