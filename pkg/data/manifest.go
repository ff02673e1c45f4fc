package data

type ExportedVar struct {
	Scope string `json:"scope"`
	Val   string `json:"val"`
}

type EsyConfig struct {
	Build       []string               `json:"build"`
	ExportedEnv map[string]ExportedVar `json:"exportedEnv,omitempty"`
}

// Manifest is the esy package.json for one converted opam package.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	Repository Repository `json:"repository"`

	Dependencies         map[string]string `json:"dependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies,omitempty"`

	Esy EsyConfig `json:"esy"`

	Opam ManifestSource `json:"_opam"`
}

// Repository is the published git repository holding the manifest.
type Repository struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// ManifestSource records where a manifest came from.
type ManifestSource struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Repo    string `json:"repo,omitempty"`
	Rules   string `json:"rules"`
}
