package repo

import (
	"path/filepath"
	"strings"
)

// Entry is one package version directory, e.g.
// packages/cohttp/cohttp.0.22.0. The opam file is not parsed here.
type Entry struct {
	repoId string

	Name    string
	Version string
	Dir     string
}

func (e *Entry) ID() string {
	return e.Name + "." + e.Version
}

func (e *Entry) RepoId() string {
	return e.repoId
}

func (e *Entry) OpamPath() string {
	return filepath.Join(e.Dir, OpamFile)
}

// Pulled over from net/http
func containsDotDot(v string) bool {
	if !strings.Contains(v, "..") {
		return false
	}
	for _, ent := range strings.FieldsFunc(v, isSlashRune) {
		if ent == ".." {
			return true
		}
	}
	return false
}

func isSlashRune(r rune) bool { return r == '/' || r == '\\' }

// splitID splits "name.version" on the first dot following name.
func splitID(name, dirName string) (string, bool) {
	prefix := name + "."
	if !strings.HasPrefix(dirName, prefix) || len(dirName) == len(prefix) {
		return "", false
	}

	return dirName[len(prefix):], true
}
