package config

import (
	"fmt"
	"strings"
)

// Target is where converted packages are published: the GitHub
// organization holding one repo per package and the npm scope used for
// package names.
type Target struct {
	Org   string
	Scope string
}

// PackageName maps an opam name to its esy name, e.g. "@opam/cohttp".
func (t Target) PackageName(name string) string {
	return fmt.Sprintf("@%s/%s", t.Scope, name)
}

// OpamName is the inverse of PackageName.
func (t Target) OpamName(pkg string) (string, bool) {
	prefix := "@" + t.Scope + "/"
	if !strings.HasPrefix(pkg, prefix) || len(pkg) == len(prefix) {
		return "", false
	}

	return pkg[len(prefix):], true
}

func (t Target) RepoID(name string) string {
	return "github.com/" + t.Org + "/" + name
}

func (t Target) RepoURL(name string) string {
	return "https://" + t.RepoID(name)
}
