package ops

import (
	"context"
	"time"

	"lab47.dev/esyopam/pkg/data"
	"lab47.dev/esyopam/pkg/overrides"
	"lab47.dev/esyopam/pkg/progress"
	"lab47.dev/esyopam/pkg/repo"
)

const ReasonBlacklisted = "blacklisted"

// RepoScan lists every package version in an opam-repository checkout and
// marks the ones the converter must skip.
type RepoScan struct {
	common

	Registry *overrides.Registry

	// Only, when set, restricts the scan to these package names.
	Only []string
}

func (r *RepoScan) Scan(ctx context.Context, d repo.Repo) (*data.ScanIndex, error) {
	var entries []*repo.Entry

	if len(r.Only) > 0 {
		for _, name := range r.Only {
			ents, err := d.Lookup(name)
			if err != nil {
				if err == repo.ErrNotFound {
					r.L().Warn("package not found in repository", "name", name)
					continue
				}

				return nil, track(err)
			}

			entries = append(entries, ents...)
		}
	} else {
		err := d.Walk(func(e *repo.Entry) error {
			entries = append(entries, e)
			return nil
		})
		if err != nil {
			return nil, track(err)
		}
	}

	idx := &data.ScanIndex{
		CreatedAt: time.Now(),
		Repo:      d.RepoId(),
		Rules:     r.Registry.Fingerprint(),
	}

	bar := progress.Count(ctx, int64(len(entries)), "scan")
	defer bar.Close()

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bar.On(e.Name)

		se := data.ScanEntry{
			ID:      e.ID(),
			Name:    e.Name,
			Version: e.Version,
			Dir:     e.Dir,
			Opam:    e.OpamPath(),
		}

		if r.Registry.IsPackageVersionBlacklisted(e.ID()) {
			se.Skip = true
			se.Reason = ReasonBlacklisted
		}

		idx.Entries = append(idx.Entries, se)

		bar.Tick()
	}

	r.L().Info("scanned repository",
		"repo", idx.Repo,
		"versions", len(idx.Entries),
		"skipped", idx.Skipped())

	return idx, nil
}
