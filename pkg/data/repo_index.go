package data

import "time"

// ScanEntry is one package version found in an opam-repository checkout.
type ScanEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Dir     string `json:"dir"`
	Opam    string `json:"opam"`

	Skip   bool   `json:"skip,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type ScanIndex struct {
	CreatedAt time.Time   `json:"created_at"`
	Repo      string      `json:"repo"`
	Rules     string      `json:"rules"`
	Entries   []ScanEntry `json:"entries"`
}

func (s *ScanIndex) Skipped() int {
	var n int

	for _, e := range s.Entries {
		if e.Skip {
			n++
		}
	}

	return n
}
