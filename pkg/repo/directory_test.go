package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkVersion(t *testing.T, root, name, version string) {
	t.Helper()

	dir := filepath.Join(root, "packages", name, name+"."+version)

	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, OpamFile), []byte(`opam-version: "2.0"`), 0644))
}

func TestDirectory(t *testing.T) {
	top := t.TempDir()

	mkVersion(t, top, "cohttp", "0.9.2")
	mkVersion(t, top, "cohttp", "0.22.0")
	mkVersion(t, top, "cohttp", "0.10.0")
	mkVersion(t, top, "lambda-term", "1.10")
	mkVersion(t, top, "inotify", "2.2")

	require.NoError(t, os.MkdirAll(filepath.Join(top, "packages", "empty"), 0755))

	t.Run("opens the repository root", func(t *testing.T) {
		d, err := NewDirectory(top)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(top, "packages"), d.PackagesPath())
		assert.Equal(t, filepath.Base(top), d.RepoId())
	})

	t.Run("opens the packages dir directly", func(t *testing.T) {
		d, err := NewDirectory(filepath.Join(top, "packages"))
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(top, "packages"), d.PackagesPath())
		assert.Equal(t, filepath.Base(top), d.RepoId())
	})

	t.Run("lists names", func(t *testing.T) {
		d, err := NewDirectory(top)
		require.NoError(t, err)

		names, err := d.Names()
		require.NoError(t, err)

		assert.Equal(t, []string{"cohttp", "empty", "inotify", "lambda-term"}, names)
	})

	t.Run("versions sort numerically", func(t *testing.T) {
		d, err := NewDirectory(top)
		require.NoError(t, err)

		ents, err := d.Lookup("cohttp")
		require.NoError(t, err)

		var ids []string
		for _, e := range ents {
			ids = append(ids, e.ID())
		}

		assert.Equal(t, []string{"cohttp.0.9.2", "cohttp.0.10.0", "cohttp.0.22.0"}, ids)

		e := ents[0]
		assert.Equal(t, filepath.Join(top, "packages", "cohttp", "cohttp.0.9.2", OpamFile), e.OpamPath())
	})

	t.Run("missing packages", func(t *testing.T) {
		d, err := NewDirectory(top)
		require.NoError(t, err)

		_, err = d.Lookup("nope")
		assert.Equal(t, ErrNotFound, err)

		_, err = d.Lookup("empty")
		assert.Equal(t, ErrNotFound, err)

		_, err = d.Lookup("../packages")
		assert.Equal(t, ErrNotFound, err)
	})

	t.Run("walks everything", func(t *testing.T) {
		d, err := NewDirectory(top)
		require.NoError(t, err)

		var ids []string

		err = d.Walk(func(e *Entry) error {
			ids = append(ids, e.ID())
			return nil
		})
		require.NoError(t, err)

		assert.Equal(t, []string{
			"cohttp.0.9.2", "cohttp.0.10.0", "cohttp.0.22.0",
			"inotify.2.2",
			"lambda-term.1.10",
		}, ids)
	})

	t.Run("open returns the directory", func(t *testing.T) {
		r, err := Open(top)
		require.NoError(t, err)

		ents, err := r.Lookup("inotify")
		require.NoError(t, err)
		require.Len(t, ents, 1)
		assert.Equal(t, r.RepoId(), ents[0].RepoId())
	})

	t.Run("rejects files", func(t *testing.T) {
		_, err := NewDirectory(filepath.Join(top, "packages", "inotify", "inotify.2.2", OpamFile))
		assert.Error(t, err)
	})
}

func TestRepoIdFromGit(t *testing.T) {
	top := t.TempDir()
	mkVersion(t, top, "lwt", "2.6.0")

	r, err := git.PlainInit(top, false)
	require.NoError(t, err)

	_, err = r.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:ocaml/opam-repository.git"},
	})
	require.NoError(t, err)

	d, err := NewDirectory(top)
	require.NoError(t, err)

	assert.Equal(t, "github.com/ocaml/opam-repository", d.RepoId())

	ents, err := d.Lookup("lwt")
	require.NoError(t, err)
	assert.Equal(t, "github.com/ocaml/opam-repository", ents[0].RepoId())
}

func TestGitRemoteRepoId(t *testing.T) {
	for _, tc := range []struct {
		url, id string
	}{
		{"git@github.com:ocaml/opam-repository.git", "github.com/ocaml/opam-repository"},
		{"https://github.com/ocaml/opam-repository.git", "github.com/ocaml/opam-repository"},
		{"https://github.com/esy-ocaml/opam-repository", "github.com/esy-ocaml/opam-repository"},
	} {
		id, err := gitRemoteRepoId(tc.url)
		require.NoError(t, err)
		assert.Equal(t, tc.id, id, tc.url)
	}

	_, err := gitRemoteRepoId("/srv/opam-repository")
	assert.Error(t, err)
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, 0, CompareVersions("1.2.3", "1.2.3"))
	assert.Equal(t, -1, CompareVersions("1.2", "1.10"))
	assert.Equal(t, 1, CompareVersions("113.33.00", "113.24.02"))
	assert.Equal(t, -1, CompareVersions("1.0~beta", "1.0"))
	assert.Equal(t, -1, CompareVersions("4.02+system", "4.03+system"))
	assert.Equal(t, 1, CompareVersions("1.0.1", "1.0"))
}
