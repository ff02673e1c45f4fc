package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lab47.dev/esyopam/pkg/config"
	"lab47.dev/esyopam/pkg/overrides"
)

func TestDependencyVerdict(t *testing.T) {
	reg := overrides.Default()

	ok, why := dependencyVerdict(reg, "cohttp", "lwt")
	assert.True(t, ok)
	assert.Equal(t, "allowed", why)

	ok, why = dependencyVerdict(reg, "unknown-pkg", "ocamlbuild")
	assert.False(t, ok)
	assert.Equal(t, "excluded for every package", why)

	ok, why = dependencyVerdict(reg, "cohttp", "mirage-net")
	assert.False(t, ok)
	assert.Equal(t, "excluded by the cohttp override", why)
}

func TestOpamName(t *testing.T) {
	tgt := config.Target{Org: "esy-ocaml", Scope: "opam"}

	assert.Equal(t, "lambda-term", opamName(tgt, "@opam/lambda-term"))
	assert.Equal(t, "lambda-term", opamName(tgt, "lambda-term"))
	assert.Equal(t, "@esy/lambda-term", opamName(tgt, "@esy/lambda-term"))
}

func TestReadPackage(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads a parsed package", func(t *testing.T) {
		path := filepath.Join(dir, "cohttp.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
  "name": "cohttp",
  "version": "0.22.0",
  "depends": [{"name": "lwt", "constraint": ">= 2.5.0"}, {"name": "mirage-net"}],
  "build": ["make"]
}`), 0644))

		pkg, err := readPackage(path)
		require.NoError(t, err)

		assert.Equal(t, "cohttp.0.22.0", pkg.ID())
		assert.Len(t, pkg.Depends, 2)
		assert.Equal(t, ">= 2.5.0", pkg.Depends[0].Constraint)
		assert.Equal(t, []string{"make"}, pkg.Build)
	})

	t.Run("needs name and version", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name": "cohttp"}`), 0644))

		_, err := readPackage(path)
		assert.Error(t, err)
	})

	t.Run("reads several packages", func(t *testing.T) {
		a := filepath.Join(dir, "lwt.json")
		b := filepath.Join(dir, "react.json")
		require.NoError(t, os.WriteFile(a, []byte(`{"name": "lwt", "version": "2.5.2"}`), 0644))
		require.NoError(t, os.WriteFile(b, []byte(`{"name": "react", "version": "1.2.0"}`), 0644))

		pkgs, err := readPackages([]string{a, b})
		require.NoError(t, err)
		require.Len(t, pkgs, 2)

		assert.Equal(t, "lwt.2.5.2", pkgs[0].ID())
		assert.Equal(t, "react.1.2.0", pkgs[1].ID())
	})

	t.Run("stdin only once", func(t *testing.T) {
		_, err := readPackages([]string{"-", "-"})
		assert.Error(t, err)
	})
}
