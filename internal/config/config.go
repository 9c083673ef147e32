package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "taskmgr"
	DefaultConfigFileName = "config.toml"
	DefaultAPIURL         = "http://localhost:8080"

	EnvConfigPath = "TASKMGR_CONFIG"
	EnvAPIURL     = "TASKMGR_API_URL"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Edit       string `toml:"edit"`
	Delete     string `toml:"delete"`
	StatusNext string `toml:"status_next"`
	StatusPrev string `toml:"status_prev"`
	SortCycle  string `toml:"sort_cycle"`
	Refresh    string `toml:"refresh"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	Submit     string `toml:"submit"`
	NextField  string `toml:"next_field"`
	PrevField  string `toml:"prev_field"`
	ConfirmYes string `toml:"confirm_yes"`
	ConfirmNo  string `toml:"confirm_no"`
}

type Config struct {
	APIURL         string `toml:"api_url"`
	DefaultSort    string `toml:"default_sort"`
	RequestTimeout string `toml:"request_timeout"`
	LogPath        string `toml:"log_path"`
	Keys           Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file: $TASKMGR_CONFIG, then
// $XDG_CONFIG_HOME/taskmgr/config.toml, then ~/.config/taskmgr/config.toml.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), DefaultConfigFileName)
}

func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Unset values fall back to defaults and
// $TASKMGR_API_URL overrides api_url.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return applyEnv(cfg), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Keys = fillKeys(cfg.Keys, defaultConfig().Keys)
	if strings.TrimSpace(cfg.APIURL) == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = "none"
	}
	if _, err := cfg.Timeout(); err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

// Timeout parses request_timeout. Empty means no client-side timeout.
func (c Config) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.RequestTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid request_timeout %q: negative", c.RequestTimeout)
	}
	return d, nil
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// fillKeys keeps user bindings and fills the ones left blank.
func fillKeys(k, def Keymap) Keymap {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Keymap{
		Quit:       pick(k.Quit, def.Quit),
		Add:        pick(k.Add, def.Add),
		Up:         pick(k.Up, def.Up),
		Down:       pick(k.Down, def.Down),
		Edit:       pick(k.Edit, def.Edit),
		Delete:     pick(k.Delete, def.Delete),
		StatusNext: pick(k.StatusNext, def.StatusNext),
		StatusPrev: pick(k.StatusPrev, def.StatusPrev),
		SortCycle:  pick(k.SortCycle, def.SortCycle),
		Refresh:    pick(k.Refresh, def.Refresh),
		Confirm:    pick(k.Confirm, def.Confirm),
		Cancel:     pick(k.Cancel, def.Cancel),
		Submit:     pick(k.Submit, def.Submit),
		NextField:  pick(k.NextField, def.NextField),
		PrevField:  pick(k.PrevField, def.PrevField),
		ConfirmYes: pick(k.ConfirmYes, def.ConfirmYes),
		ConfirmNo:  pick(k.ConfirmNo, def.ConfirmNo),
	}
}

func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		APIURL:      DefaultAPIURL,
		DefaultSort: "none",
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			Up:         "k",
			Down:       "j",
			Edit:       "e",
			Delete:     "d",
			StatusNext: "s",
			StatusPrev: "S",
			SortCycle:  "o",
			Refresh:    "r",
			Confirm:    "enter",
			Cancel:     "esc",
			Submit:     "ctrl+s",
			NextField:  "tab",
			PrevField:  "shift+tab",
			ConfirmYes: "y",
			ConfirmNo:  "n",
		},
	}
}
