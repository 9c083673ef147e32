package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL || cfg.Keys.Add != "a" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "api_url") {
		t.Errorf("written config missing api_url:\n%s", data)
	}

	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatal(err)
	}
	if again != cfg {
		t.Errorf("reloading defaults changed the config: %+v", again)
	}
}

func TestLoadOrCreate_ReadsFileAndFillsBlanks(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `api_url = "http://tasks.internal:9090/"
default_sort = "dueDate"
request_timeout = "5s"

[keys]
add = "n"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://tasks.internal:9090" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.DefaultSort != "dueDate" {
		t.Errorf("DefaultSort = %q", cfg.DefaultSort)
	}
	if cfg.Keys.Add != "n" || cfg.Keys.Quit != "q" {
		t.Errorf("keys not merged with defaults: %+v", cfg.Keys)
	}
	if d, err := cfg.Timeout(); err != nil || d != 5*time.Second {
		t.Errorf("Timeout() = %v, %v", d, err)
	}
}

func TestLoadOrCreate_EnvOverridesURL(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://api.example.test/")
	cfg, err := LoadOrCreate(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "https://api.example.test" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
}

func TestLoadOrCreate_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"bad toml":    "api_url = ",
		"bad timeout": `request_timeout = "soon"`,
		"negative":    `request_timeout = "-1s"`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadOrCreate(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	if got := ResolveConfigPath(); got != "/tmp/custom.toml" {
		t.Errorf("ResolveConfigPath() = %q", got)
	}

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := ResolveConfigPath(); got != filepath.Join("/xdg", AppName, DefaultConfigFileName) {
		t.Errorf("ResolveConfigPath() = %q", got)
	}
}
