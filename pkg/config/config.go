package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"lab47.dev/esyopam/pkg/overrides"
)

// Config is built once at startup and handed to whatever needs it. Nothing
// in here touches the process environment after Load returns.
type Config struct {
	path string

	GHOrgName     string `json:"gh-org-name"`
	NPMScope      string `json:"npm-scope"`
	OpamPackages  string `json:"opam-packages"`
	OverridesPath string `json:"overrides,omitempty"`

	// Credentials only ever come from the environment. Empty means
	// unauthenticated.
	GHUser  string `json:"-"`
	GHToken string `json:"-"`
}

const (
	DefaultConfigPath   = "~/.config/esyopam/config.json"
	DefaultGHOrgName    = "esy-ocaml"
	DefaultNPMScope     = "opam"
	DefaultOpamPackages = "opam-repository/packages"
)

type LoadOptions struct {
	// ConfigPath forces a specific config file. It must exist.
	ConfigPath string
}

func Load(opts LoadOptions) (*Config, error) {
	if opts.ConfigPath != "" {
		return loadFile(opts.ConfigPath)
	}

	if loc := os.Getenv("ESYOPAM_CONFIG"); loc != "" {
		return loadFile(loc)
	}

	path, err := homedir.Expand(DefaultConfigPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		return loadFile(path)
	}

	cfg := &Config{
		GHOrgName:    DefaultGHOrgName,
		NPMScope:     DefaultNPMScope,
		OpamPackages: DefaultOpamPackages,
	}

	return updateFromEnv(cfg)
}

func loadFile(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening config %s", path)
	}

	defer f.Close()

	var cfg Config

	err = json.NewDecoder(f).Decode(&cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding config %s", path)
	}

	cfg.path = path

	if cfg.GHOrgName == "" {
		cfg.GHOrgName = DefaultGHOrgName
	}

	if cfg.NPMScope == "" {
		cfg.NPMScope = DefaultNPMScope
	}

	if cfg.OpamPackages == "" {
		cfg.OpamPackages = DefaultOpamPackages
	} else if !filepath.IsAbs(cfg.OpamPackages) && !strings.HasPrefix(cfg.OpamPackages, "~") {
		// Relative to the config file, not the working directory.
		cfg.OpamPackages = filepath.Join(filepath.Dir(path), cfg.OpamPackages)
	}

	return updateFromEnv(&cfg)
}

func updateFromEnv(cfg *Config) (*Config, error) {
	cfg.GHUser = os.Getenv("GH_USER")
	cfg.GHToken = os.Getenv("GH_TOKEN")

	if org := os.Getenv("ESYOPAM_ORG"); org != "" {
		cfg.GHOrgName = org
	}

	if scope := os.Getenv("ESYOPAM_SCOPE"); scope != "" {
		cfg.NPMScope = scope
	}

	if path := os.Getenv("ESYOPAM_OPAM_PACKAGES"); path != "" {
		cfg.OpamPackages = path
	}

	if path := os.Getenv("ESYOPAM_OVERRIDES"); path != "" {
		cfg.OverridesPath = path
	}

	for _, p := range []*string{&cfg.OpamPackages, &cfg.OverridesPath} {
		if *p == "" {
			continue
		}

		expanded, err := homedir.Expand(*p)
		if err != nil {
			return nil, err
		}

		*p = expanded
	}

	return cfg, nil
}

// Path is the config file that was read, or empty when running on defaults.
func (c *Config) Path() string {
	return c.path
}

// Authenticated reports whether both GitHub credentials were provided.
func (c *Config) Authenticated() bool {
	return c.GHUser != "" && c.GHToken != ""
}

func (c *Config) Target() Target {
	return Target{Org: c.GHOrgName, Scope: c.NPMScope}
}

// Registry builds the rule registry: the builtin tables, extended by the
// overrides file when one is configured.
func (c *Config) Registry() (*overrides.Registry, error) {
	tables := overrides.Builtin()

	if c.OverridesPath != "" {
		overlay, err := overrides.LoadTablesFile(c.OverridesPath)
		if err != nil {
			return nil, err
		}

		tables = overrides.Merge(tables, overlay)
	}

	return overrides.New(tables), nil
}
