package repo

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Directory is a checkout of an opam-repository. It accepts either the
// repository root or its packages/ directory.
type Directory struct {
	repoId   string
	rootPath string
	pkgPath  string
}

func NewDirectory(path string) (*Directory, error) {
	path = filepath.Clean(path)

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !fi.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path)
	}

	rootPath := path

	pkgDir := filepath.Join(path, "packages")

	if fi, err := os.Stat(pkgDir); err == nil && fi.IsDir() {
		path = pkgDir
	} else if filepath.Base(path) == "packages" {
		rootPath = filepath.Dir(path)
	}

	d := &Directory{
		rootPath: rootPath,
		pkgPath:  path,
	}

	d.repoId, err = detectRepoId(rootPath)
	if err != nil {
		return nil, err
	}

	return d, nil
}

var _ Repo = (*Directory)(nil)

func (d *Directory) RepoId() string {
	return d.repoId
}

func (d *Directory) PackagesPath() string {
	return d.pkgPath
}

// Names lists every package name in the repository, sorted.
func (d *Directory) Names() ([]string, error) {
	ents, err := ioutil.ReadDir(d.pkgPath)
	if err != nil {
		return nil, err
	}

	var names []string

	for _, ent := range ents {
		if !ent.IsDir() || ent.Name()[0] == '.' {
			continue
		}

		names = append(names, ent.Name())
	}

	sort.Strings(names)

	return names, nil
}

// Lookup returns every version of name, oldest first.
func (d *Directory) Lookup(name string) ([]*Entry, error) {
	if name == "" || containsDotDot(name) {
		return nil, ErrNotFound
	}

	dir := filepath.Join(d.pkgPath, name)

	ents, err := ioutil.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	var entries []*Entry

	for _, ent := range ents {
		if !ent.IsDir() {
			continue
		}

		version, ok := splitID(name, ent.Name())
		if !ok {
			continue
		}

		entries = append(entries, &Entry{
			repoId:  d.repoId,
			Name:    name,
			Version: version,
			Dir:     filepath.Join(dir, ent.Name()),
		})
	}

	if len(entries) == 0 {
		return nil, ErrNotFound
	}

	sort.Slice(entries, func(i, j int) bool {
		return CompareVersions(entries[i].Version, entries[j].Version) < 0
	})

	return entries, nil
}

// Walk calls fn for every package version in the repository, grouped by
// name in sorted order.
func (d *Directory) Walk(fn func(*Entry) error) error {
	names, err := d.Names()
	if err != nil {
		return err
	}

	for _, name := range names {
		entries, err := d.Lookup(name)
		if err != nil {
			if err == ErrNotFound {
				continue
			}

			return err
		}

		for _, e := range entries {
			if err := fn(e); err != nil {
				return err
			}
		}
	}

	return nil
}

// CompareVersions orders versions the way a reader would: runs of digits
// compare numerically, everything else byte-wise, and '~' sorts before
// anything including the end of the string.
func CompareVersions(a, b string) int {
	for a != "" || b != "" {
		na, ra := leadingNonDigits(a)
		nb, rb := leadingNonDigits(b)

		if c := compareNonDigits(na, nb); c != 0 {
			return c
		}

		da, ra := leadingDigits(ra)
		db, rb := leadingDigits(rb)

		ia, _ := strconv.ParseUint(da, 10, 64)
		ib, _ := strconv.ParseUint(db, 10, 64)

		switch {
		case ia < ib:
			return -1
		case ia > ib:
			return 1
		}

		a, b = ra, rb
	}

	return 0
}

func leadingNonDigits(s string) (string, string) {
	i := 0
	for i < len(s) && !isDigit(s[i]) {
		i++
	}

	return s[:i], s[i:]
}

func leadingDigits(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}

	return s[:i], s[i:]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func compareNonDigits(a, b string) int {
	for i := 0; ; i++ {
		ca, cb := charOrder(a, i), charOrder(b, i)

		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		case i >= len(a) && i >= len(b):
			return 0
		}
	}
}

func charOrder(s string, i int) int {
	if i >= len(s) {
		return 0
	}

	if s[i] == '~' {
		return -1
	}

	return int(s[i]) + 1
}
