package overrides

import (
	"encoding/json"
	"sort"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// GlobalExclusion is never allowed as a dependency edge. esy drives the
// build itself so ocamlbuild only ever shows up as a tool opam needed.
const GlobalExclusion = "ocamlbuild"

type set map[string]struct{}

func newSet(items []string) set {
	s := make(set, len(items))
	for _, i := range items {
		s[i] = struct{}{}
	}

	return s
}

func (s set) has(item string) bool {
	_, ok := s[item]
	return ok
}

// Registry answers every question the converter asks about a package. It
// is built once and never mutated, so concurrent readers need no locking.
type Registry struct {
	tables *Tables

	blacklist set
	depopts   set
	excludes  map[string]set

	fingerprint string
}

// New builds a Registry from a private copy of t.
func New(t *Tables) *Registry {
	tables := copyTables(t)

	r := &Registry{
		tables:    tables,
		blacklist: newSet(tables.PackageBlacklist),
		depopts:   newSet(tables.DepoptBlacklist),
		excludes:  make(map[string]set),
	}

	for name, o := range tables.Overrides {
		if len(o.ExcludeDependencies) > 0 {
			r.excludes[name] = newSet(o.ExcludeDependencies)
		}
	}

	r.fingerprint = fingerprint(tables)

	return r
}

// Default returns a Registry over the builtin tables.
func Default() *Registry {
	return New(Builtin())
}

// IsDependencyAllowed reports whether the dep edge from name survives into
// the converted manifest.
func (r *Registry) IsDependencyAllowed(name, dep string) bool {
	if dep == GlobalExclusion {
		return false
	}

	return !r.excludes[name].has(dep)
}

// IsPackageVersionBlacklisted takes a "name.version" identifier.
func (r *Registry) IsPackageVersionBlacklisted(id string) bool {
	return r.blacklist.has(id)
}

func (r *Registry) IsDepoptBlacklisted(name string) bool {
	return r.depopts.has(name)
}

// Override returns a copy of the override record for name.
func (r *Registry) Override(name string) (*Override, bool) {
	o, ok := r.tables.Overrides[name]
	if !ok || o == nil {
		return nil, false
	}

	return o.clone(), true
}

// ExtraDependencies returns the deps to append for name, in order. The
// result is never nil.
func (r *Registry) ExtraDependencies(name string) []string {
	return append([]string{}, r.tables.ExtraDeps[name]...)
}

// Names returns the packages with an override record, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tables.Overrides))
	for name := range r.tables.Overrides {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *Registry) Tables() *Tables {
	return copyTables(r.tables)
}

// Fingerprint identifies the rule set. Two registries built from the same
// tables always share a fingerprint.
func (r *Registry) Fingerprint() string {
	return r.fingerprint
}

func copyTables(t *Tables) *Tables {
	c := &Tables{
		ExtraDeps: make(map[string][]string),
		Overrides: make(map[string]*Override),
	}

	if t == nil {
		return c
	}

	c.PackageBlacklist = sortedUnique(t.PackageBlacklist)
	c.DepoptBlacklist = sortedUnique(t.DepoptBlacklist)

	for name, deps := range t.ExtraDeps {
		c.ExtraDeps[name] = append([]string{}, deps...)
	}

	for name, o := range t.Overrides {
		if o == nil {
			continue
		}

		oc := o.clone()
		if oc.ExcludeDependencies != nil {
			oc.ExcludeDependencies = sortedUnique(oc.ExcludeDependencies)
		}

		c.Overrides[name] = oc
	}

	return c
}

func sortedUnique(in []string) []string {
	out := make([]string, 0, len(in))

	seen := make(set, len(in))
	for _, s := range in {
		if seen.has(s) {
			continue
		}

		seen[s] = struct{}{}
		out = append(out, s)
	}

	sort.Strings(out)

	return out
}

// encoding/json sorts map keys, which with the sorted sets above makes the
// encoding canonical.
func fingerprint(t *Tables) string {
	data, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}

	sum := blake2b.Sum256(data)
	return base58.Encode(sum[:])
}
