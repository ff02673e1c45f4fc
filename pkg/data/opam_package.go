package data

// Dependency is one edge from an opam depends or depopts field.
type Dependency struct {
	Name       string `json:"name"`
	Constraint string `json:"constraint,omitempty"`
}

// OpamPackage is the metadata of one opam package version, already parsed
// by the driver. Build and ExportedEnv carry whatever the driver derived
// from the opam build instructions before any override is applied.
type OpamPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	Depends []Dependency `json:"depends,omitempty"`
	Depopts []Dependency `json:"depopts,omitempty"`

	Build       []string               `json:"build,omitempty"`
	ExportedEnv map[string]ExportedVar `json:"exportedEnv,omitempty"`
}

// ID is the "name.version" form used by opam-repository and the version
// blacklist.
func (p *OpamPackage) ID() string {
	return p.Name + "." + p.Version
}
