package ops

import (
	"context"

	"golang.org/x/sync/errgroup"
	"lab47.dev/esyopam/pkg/config"
	"lab47.dev/esyopam/pkg/data"
	"lab47.dev/esyopam/pkg/overrides"
)

// AnyVersion is the constraint used for deps that opam declares without
// one, and for deps injected from the extra dependency table.
const AnyVersion = "*"

// PackageConvert applies the override registry to one parsed opam package,
// producing the esy manifest for it.
type PackageConvert struct {
	common

	Registry *overrides.Registry
	Target   config.Target

	// Repo is recorded in the manifest as the source of the package.
	Repo string
}

// Convert returns ErrBlacklisted for versions that must not be converted.
func (p *PackageConvert) Convert(pkg *data.OpamPackage) (*data.Manifest, error) {
	L := p.L().With("package", pkg.ID())

	if p.Registry.IsPackageVersionBlacklisted(pkg.ID()) {
		L.Debug("skipping blacklisted package version")
		return nil, track(ErrBlacklisted)
	}

	o, hasOverride := p.Registry.Override(pkg.Name)
	if !hasOverride {
		o = &overrides.Override{}
	}

	m := &data.Manifest{
		Name:         p.Target.PackageName(pkg.Name),
		Version:      o.Version.Apply(pkg.Version),
		Repository: data.Repository{
			Type: "git",
			URL:  p.Target.RepoURL(pkg.Name),
		},
		Dependencies: map[string]string{},
		Opam: data.ManifestSource{
			Name:    pkg.Name,
			Version: pkg.Version,
			Repo:    p.Repo,
			Rules:   p.Registry.Fingerprint(),
		},
	}

	if m.Version != pkg.Version {
		L.Debug("rewrote version", "transform", o.Version, "version", m.Version)
	}

	for _, dep := range pkg.Depends {
		if !p.Registry.IsDependencyAllowed(pkg.Name, dep.Name) {
			L.Debug("dropping dependency", "dep", dep.Name)
			continue
		}

		addDep(m.Dependencies, p.Target.PackageName(dep.Name), dep.Constraint)
	}

	for _, name := range p.Registry.ExtraDependencies(pkg.Name) {
		if !p.Registry.IsDependencyAllowed(pkg.Name, name) {
			L.Warn("dropping excluded extra dependency", "dep", name)
			continue
		}

		addDep(m.Dependencies, p.Target.PackageName(name), AnyVersion)
	}

	// A hard dependency wins over the same name listed as optional.
	for _, dep := range pkg.Depopts {
		if p.Registry.IsDepoptBlacklisted(dep.Name) || !p.Registry.IsDependencyAllowed(pkg.Name, dep.Name) {
			L.Debug("dropping optional dependency", "dep", dep.Name)
			continue
		}

		name := p.Target.PackageName(dep.Name)
		if _, ok := m.Dependencies[name]; ok {
			continue
		}

		if m.OptionalDependencies == nil {
			m.OptionalDependencies = map[string]string{}
		}

		addDep(m.OptionalDependencies, name, dep.Constraint)
	}

	m.Esy.Build = append([]string{}, pkg.Build...)
	if o.Build != nil {
		m.Esy.Build = append([]string{}, o.Build...)
	}

	if len(pkg.ExportedEnv) > 0 {
		m.Esy.ExportedEnv = make(map[string]data.ExportedVar, len(pkg.ExportedEnv))
		for k, v := range pkg.ExportedEnv {
			m.Esy.ExportedEnv[k] = v
		}
	}

	if o.ExportedEnv != nil {
		m.Esy.ExportedEnv = make(map[string]data.ExportedVar, len(o.ExportedEnv))
		for k, v := range o.ExportedEnv {
			m.Esy.ExportedEnv[k] = data.ExportedVar{Scope: string(v.Scope), Val: v.Val}
		}
	}

	return m, nil
}

// ConvertAll converts pkgs using up to workers goroutines. The result is
// aligned with pkgs; blacklisted versions leave a nil slot.
func (p *PackageConvert) ConvertAll(ctx context.Context, pkgs []*data.OpamPackage, workers int) ([]*data.Manifest, error) {
	if workers < 1 {
		workers = 1
	}

	// Resolve the logger up front so workers only ever read it.
	p.L()

	out := make([]*data.Manifest, len(pkgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, pkg := range pkgs {
		i, pkg := i, pkg

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			m, err := p.Convert(pkg)
			if err != nil {
				if IsBlacklisted(err) {
					return nil
				}

				return err
			}

			out[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// addDep keeps the first constraint seen for a name.
func addDep(deps map[string]string, name, constraint string) {
	if _, ok := deps[name]; ok {
		return
	}

	if constraint == "" {
		constraint = AnyVersion
	}

	deps[name] = constraint
}
