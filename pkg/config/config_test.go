package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, k := range []string{
		"GH_USER", "GH_TOKEN",
		"ESYOPAM_CONFIG", "ESYOPAM_ORG", "ESYOPAM_SCOPE",
		"ESYOPAM_OPAM_PACKAGES", "ESYOPAM_OVERRIDES",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	// Keep the developer's own ~/.config out of the picture.
	t.Setenv("HOME", t.TempDir())
	homedir.Reset()
}

func TestLoad(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)

		assert.Equal(t, "esy-ocaml", cfg.GHOrgName)
		assert.Equal(t, "opam", cfg.NPMScope)
		assert.Equal(t, DefaultOpamPackages, cfg.OpamPackages)
		assert.Empty(t, cfg.Path())
	})

	t.Run("missing credentials are empty, not an error", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)

		assert.Equal(t, "", cfg.GHUser)
		assert.Equal(t, "", cfg.GHToken)
		assert.False(t, cfg.Authenticated())
	})

	t.Run("credentials from the environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GH_USER", "octocat")

		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)

		assert.Equal(t, "octocat", cfg.GHUser)
		assert.False(t, cfg.Authenticated())

		t.Setenv("GH_TOKEN", "s3cret")

		cfg, err = Load(LoadOptions{})
		require.NoError(t, err)

		assert.True(t, cfg.Authenticated())
	})

	t.Run("config file with env overrides", func(t *testing.T) {
		clearEnv(t)

		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")

		err := os.WriteFile(path, []byte(`{"gh-org-name": "esy-ocaml-test", "opam-packages": "repo/packages"}`), 0644)
		require.NoError(t, err)

		t.Setenv("ESYOPAM_SCOPE", "opam-alpha")

		cfg, err := Load(LoadOptions{ConfigPath: path})
		require.NoError(t, err)

		assert.Equal(t, path, cfg.Path())
		assert.Equal(t, "esy-ocaml-test", cfg.GHOrgName)
		assert.Equal(t, "opam-alpha", cfg.NPMScope)
		assert.Equal(t, filepath.Join(dir, "repo/packages"), cfg.OpamPackages)
	})

	t.Run("ESYOPAM_CONFIG selects the file", func(t *testing.T) {
		clearEnv(t)

		path := filepath.Join(t.TempDir(), "c.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"npm-scope": "ocaml"}`), 0644))

		t.Setenv("ESYOPAM_CONFIG", path)

		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)

		assert.Equal(t, "ocaml", cfg.NPMScope)
		assert.Equal(t, DefaultGHOrgName, cfg.GHOrgName)
	})

	t.Run("explicit config must exist", func(t *testing.T) {
		clearEnv(t)

		_, err := Load(LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "nope.json")})
		assert.Error(t, err)
	})

	t.Run("environment never leaks into PATH", func(t *testing.T) {
		clearEnv(t)

		before := os.Getenv("PATH")

		_, err := Load(LoadOptions{})
		require.NoError(t, err)

		assert.Equal(t, before, os.Getenv("PATH"))
	})
}

func TestRegistry(t *testing.T) {
	t.Run("builtin only", func(t *testing.T) {
		cfg := &Config{}

		r, err := cfg.Registry()
		require.NoError(t, err)

		assert.False(t, r.IsDependencyAllowed("cohttp", "mirage-net"))
	})

	t.Run("with an overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "overrides.yaml")
		require.NoError(t, os.WriteFile(path, []byte("package_blacklist: [lwt.2.7.0]\n"), 0644))

		cfg := &Config{OverridesPath: path}

		r, err := cfg.Registry()
		require.NoError(t, err)

		assert.True(t, r.IsPackageVersionBlacklisted("lwt.2.7.0"))
		assert.True(t, r.IsPackageVersionBlacklisted("inotify.2.2"))
	})

	t.Run("broken overrides file", func(t *testing.T) {
		cfg := &Config{OverridesPath: filepath.Join(t.TempDir(), "missing.yaml")}

		_, err := cfg.Registry()
		assert.Error(t, err)
	})
}

func TestTarget(t *testing.T) {
	tgt := Target{Org: "esy-ocaml", Scope: "opam"}

	assert.Equal(t, "@opam/cohttp", tgt.PackageName("cohttp"))
	assert.Equal(t, "github.com/esy-ocaml/cohttp", tgt.RepoID("cohttp"))
	assert.Equal(t, "https://github.com/esy-ocaml/cohttp", tgt.RepoURL("cohttp"))

	name, ok := tgt.OpamName("@opam/lambda-term")
	assert.True(t, ok)
	assert.Equal(t, "lambda-term", name)

	_, ok = tgt.OpamName("@esy/lambda-term")
	assert.False(t, ok)

	_, ok = tgt.OpamName("@opam/")
	assert.False(t, ok)
}
