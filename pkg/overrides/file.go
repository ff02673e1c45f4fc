package overrides

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadTablesFile reads a YAML overlay of rules, typically merged on top of
// Builtin.
func LoadTablesFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading overrides file %s", path)
	}

	var t Tables

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&t); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "parsing overrides file %s", path)
	}

	return &t, nil
}

// Merge returns a new Tables holding base extended by overlay. Sets are
// unioned; an overlay entry for a name replaces the base entry whole.
func Merge(base, overlay *Tables) *Tables {
	out := copyTables(base)

	if overlay == nil {
		return out
	}

	out.PackageBlacklist = sortedUnique(append(out.PackageBlacklist, overlay.PackageBlacklist...))
	out.DepoptBlacklist = sortedUnique(append(out.DepoptBlacklist, overlay.DepoptBlacklist...))

	for name, deps := range overlay.ExtraDeps {
		out.ExtraDeps[name] = append([]string{}, deps...)
	}

	for name, o := range overlay.Overrides {
		if o == nil {
			continue
		}

		out.Overrides[name] = o.clone()
	}

	return out
}
