package overrides

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// VersionTransform names a pure rewrite applied to the version reported by
// opam before it is used as the esy package version.
type VersionTransform int

const (
	VersionAsIs VersionTransform = iota
	VersionStripBeta
)

var transformNames = map[VersionTransform]string{
	VersionAsIs:      "none",
	VersionStripBeta: "strip-beta-suffix",
}

func (v VersionTransform) String() string {
	if s, ok := transformNames[v]; ok {
		return s
	}

	return fmt.Sprintf("VersionTransform(%d)", int(v))
}

// Apply rewrites version according to the transform.
func (v VersionTransform) Apply(version string) string {
	switch v {
	case VersionStripBeta:
		return strings.ReplaceAll(version, "-beta", "")
	default:
		return version
	}
}

func (v VersionTransform) MarshalText() ([]byte, error) {
	s, ok := transformNames[v]
	if !ok {
		return nil, errors.Errorf("unknown version transform: %d", int(v))
	}

	return []byte(s), nil
}

func (v *VersionTransform) UnmarshalText(b []byte) error {
	for k, s := range transformNames {
		if s == string(b) {
			*v = k
			return nil
		}
	}

	if len(b) == 0 {
		*v = VersionAsIs
		return nil
	}

	return errors.Errorf("unknown version transform: %s", string(b))
}

type ExportScope string

const (
	ScopeGlobal ExportScope = "global"
	ScopeLocal  ExportScope = "local"
)

// ExportedVar describes a variable a built package injects into the
// environment of its dependents. Val is left untouched; esy substitutes
// the $opam_*__lib placeholders itself.
type ExportedVar struct {
	Scope ExportScope `json:"scope" yaml:"scope"`
	Val   string      `json:"val" yaml:"val"`
}

// NoopBuild is the build step used for packages that need no build at all.
const NoopBuild = "true"

// BuildSteps is an ordered list of shell-invocable build commands. A nil
// value means the override does not touch the build.
type BuildSteps []string

func (b *BuildSteps) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*b = BuildSteps{node.Value}
		return nil
	case yaml.SequenceNode:
		var steps []string
		if err := node.Decode(&steps); err != nil {
			return err
		}

		*b = BuildSteps(steps)
		return nil
	}

	return errors.Errorf("line %d: build must be a string or a list of strings", node.Line)
}

func (b *BuildSteps) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*b = BuildSteps{single}
		return nil
	}

	var steps []string
	if err := json.Unmarshal(data, &steps); err != nil {
		return errors.Wrap(err, "build must be a string or a list of strings")
	}

	*b = BuildSteps(steps)
	return nil
}

// Override is the per-package record that takes precedence over whatever
// the converter derives from the opam metadata. Zero-valued fields are
// treated as absent.
type Override struct {
	Version             VersionTransform       `json:"version,omitempty" yaml:"version,omitempty"`
	Build               BuildSteps             `json:"build,omitempty" yaml:"build,omitempty"`
	ExportedEnv         map[string]ExportedVar `json:"exportedEnv,omitempty" yaml:"exportedEnv,omitempty"`
	ExcludeDependencies []string               `json:"exclude_dependencies,omitempty" yaml:"exclude_dependencies,omitempty"`
}

func (o *Override) clone() *Override {
	c := &Override{Version: o.Version}

	if o.Build != nil {
		c.Build = append(BuildSteps{}, o.Build...)
	}

	if o.ExportedEnv != nil {
		c.ExportedEnv = make(map[string]ExportedVar, len(o.ExportedEnv))
		for k, v := range o.ExportedEnv {
			c.ExportedEnv[k] = v
		}
	}

	if o.ExcludeDependencies != nil {
		c.ExcludeDependencies = append([]string{}, o.ExcludeDependencies...)
	}

	return c
}

// Tables is the raw, serializable form of every rule the registry serves.
type Tables struct {
	PackageBlacklist []string             `json:"package_blacklist,omitempty" yaml:"package_blacklist,omitempty"`
	DepoptBlacklist  []string             `json:"depopt_blacklist,omitempty" yaml:"depopt_blacklist,omitempty"`
	ExtraDeps        map[string][]string  `json:"extra_deps,omitempty" yaml:"extra_deps,omitempty"`
	Overrides        map[string]*Override `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}
