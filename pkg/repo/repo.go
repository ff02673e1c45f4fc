package repo

import (
	"errors"
)

// OpamFile is the metadata file inside each package version directory.
const OpamFile = "opam"

var (
	ErrNotFound = errors.New("package not found")
)

type Repo interface {
	RepoId() string
	Names() ([]string, error)
	Lookup(name string) ([]*Entry, error)
	Walk(fn func(*Entry) error) error
}

// Open returns the repository checked out at path.
func Open(path string) (Repo, error) {
	return NewDirectory(path)
}
