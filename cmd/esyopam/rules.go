package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"lab47.dev/esyopam/pkg/config"
	"lab47.dev/esyopam/pkg/data"
	"lab47.dev/esyopam/pkg/ops"
	"lab47.dev/esyopam/pkg/overrides"
)

func setup(path string) (*config.Config, *overrides.Registry, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigPath: path})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to load configuration")
	}

	reg, err := cfg.Registry()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to load override rules")
	}

	hclog.L().Debug("loaded rules", "fingerprint", reg.Fingerprint(), "overrides", cfg.OverridesPath)

	return cfg, reg, nil
}

// opamName accepts either an opam name or its scoped esy name.
func opamName(tgt config.Target, arg string) string {
	if name, ok := tgt.OpamName(arg); ok {
		return name
	}

	return arg
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func configF(ctx context.Context, opts struct {
	Config string `short:"c" long:"config" description:"config file to use"`
}) error {
	cfg, reg, err := setup(opts.Config)
	if err != nil {
		return err
	}

	path := cfg.Path()
	if path == "" {
		path = "(defaults)"
	}

	tgt := cfg.Target()

	fmt.Printf("Config File: %s\n", path)
	fmt.Printf("GitHub Org: %s\n", tgt.Org)
	fmt.Printf("NPM Scope: %s\n", tgt.Scope)
	fmt.Printf("Publish To: %s\n", tgt.RepoURL("<name>"))
	fmt.Printf("Opam Packages: %s\n", cfg.OpamPackages)

	if cfg.OverridesPath != "" {
		fmt.Printf("Overrides File: %s\n", cfg.OverridesPath)
	}

	if cfg.Authenticated() {
		fmt.Printf("GitHub Auth: %s\n", cfg.GHUser)
	} else {
		fmt.Printf("GitHub Auth: none\n")
	}

	fmt.Printf("Rules: %s\n", reg.Fingerprint())

	return nil
}

// dependencyVerdict explains the result of IsDependencyAllowed.
func dependencyVerdict(reg *overrides.Registry, name, dep string) (bool, string) {
	if reg.IsDependencyAllowed(name, dep) {
		return true, "allowed"
	}

	if dep == overrides.GlobalExclusion {
		return false, "excluded for every package"
	}

	return false, "excluded by the " + name + " override"
}

func allowedF(ctx context.Context, opts struct {
	Config string `short:"c" long:"config" description:"config file to use"`

	Pos struct {
		Package    string `positional-arg-name:"package" required:"yes"`
		Dependency string `positional-arg-name:"dependency" required:"yes"`
	} `positional-args:"yes"`
}) error {
	cfg, reg, err := setup(opts.Config)
	if err != nil {
		return err
	}

	tgt := cfg.Target()
	name, dep := opamName(tgt, opts.Pos.Package), opamName(tgt, opts.Pos.Dependency)

	_, why := dependencyVerdict(reg, name, dep)

	fmt.Printf("%s -> %s: %s\n", name, dep, why)

	return nil
}

func blacklistedF(ctx context.Context, opts struct {
	Config string `short:"c" long:"config" description:"config file to use"`

	Pos struct {
		ID string `positional-arg-name:"name.version" required:"yes"`
	} `positional-args:"yes"`
}) error {
	_, reg, err := setup(opts.Config)
	if err != nil {
		return err
	}

	if !strings.Contains(opts.Pos.ID, ".") {
		return fmt.Errorf("expected name.version, got %q", opts.Pos.ID)
	}

	if reg.IsPackageVersionBlacklisted(opts.Pos.ID) {
		fmt.Printf("%s: blacklisted, will not be converted\n", opts.Pos.ID)
	} else {
		fmt.Printf("%s: ok\n", opts.Pos.ID)
	}

	return nil
}

func depoptF(ctx context.Context, opts struct {
	Config string `short:"c" long:"config" description:"config file to use"`

	Pos struct {
		Name string `positional-arg-name:"name" required:"yes"`
	} `positional-args:"yes"`
}) error {
	cfg, reg, err := setup(opts.Config)
	if err != nil {
		return err
	}

	name := opamName(cfg.Target(), opts.Pos.Name)

	if reg.IsDepoptBlacklisted(name) {
		fmt.Printf("%s: dropped when optional\n", name)
	} else {
		fmt.Printf("%s: kept as an optional dependency\n", name)
	}

	return nil
}

func overrideF(ctx context.Context, opts struct {
	Config string `short:"c" long:"config" description:"config file to use"`
	List   bool   `short:"l" long:"list" description:"list every package with an override"`

	Pos struct {
		Name string `positional-arg-name:"name"`
	} `positional-args:"yes"`
}) error {
	cfg, reg, err := setup(opts.Config)
	if err != nil {
		return err
	}

	if opts.List || opts.Pos.Name == "" {
		for _, name := range reg.Names() {
			fmt.Println(name)
		}

		return nil
	}

	name := opamName(cfg.Target(), opts.Pos.Name)

	o, ok := reg.Override(name)
	if !ok {
		fmt.Printf("%s: no override\n", name)
		return nil
	}

	return writeJSON(os.Stdout, o)
}

func extraF(ctx context.Context, opts struct {
	Config string `short:"c" long:"config" description:"config file to use"`

	Pos struct {
		Name string `positional-arg-name:"name" required:"yes"`
	} `positional-args:"yes"`
}) error {
	cfg, reg, err := setup(opts.Config)
	if err != nil {
		return err
	}

	for _, dep := range reg.ExtraDependencies(opamName(cfg.Target(), opts.Pos.Name)) {
		fmt.Println(dep)
	}

	return nil
}

func readPackage(path string) (*data.OpamPackage, error) {
	var r io.Reader = os.Stdin

	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}

		defer f.Close()

		r = f
	}

	var pkg data.OpamPackage

	if err := json.NewDecoder(r).Decode(&pkg); err != nil {
		return nil, errors.Wrapf(err, "decoding package from %s", path)
	}

	if pkg.Name == "" || pkg.Version == "" {
		return nil, fmt.Errorf("package in %s needs a name and version", path)
	}

	return &pkg, nil
}

func readPackages(paths []string) ([]*data.OpamPackage, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	var stdin int
	for _, path := range paths {
		if path == "-" {
			stdin++
		}
	}

	if stdin > 1 {
		return nil, fmt.Errorf("stdin can only be read once")
	}

	var pkgs []*data.OpamPackage

	for _, path := range paths {
		pkg, err := readPackage(path)
		if err != nil {
			return nil, err
		}

		pkgs = append(pkgs, pkg)
	}

	return pkgs, nil
}

func explainF(ctx context.Context, opts struct {
	Config string `short:"c" long:"config" description:"config file to use"`
	Jobs   int    `short:"j" long:"jobs" default:"4" description:"packages to convert in parallel"`

	Pos struct {
		Paths []string `positional-arg-name:"package.json" description:"parsed opam packages, - or none for stdin"`
	} `positional-args:"yes"`
}) error {
	cfg, reg, err := setup(opts.Config)
	if err != nil {
		return err
	}

	pkgs, err := readPackages(opts.Pos.Paths)
	if err != nil {
		return err
	}

	pc := &ops.PackageConvert{
		Registry: reg,
		Target:   cfg.Target(),
	}
	pc.SetLogger(hclog.L())

	manifests, err := pc.ConvertAll(ctx, pkgs, opts.Jobs)
	if err != nil {
		return err
	}

	for i, m := range manifests {
		if m == nil {
			fmt.Printf("%s: blacklisted, will not be converted\n", pkgs[i].ID())
			continue
		}

		if err := writeJSON(os.Stdout, m); err != nil {
			return err
		}
	}

	return nil
}

func debugF(ctx context.Context, opts struct {
	Config string `short:"c" long:"config" description:"config file to use"`
}) error {
	cfg, reg, err := setup(opts.Config)
	if err != nil {
		return err
	}

	spew.Dump(cfg.Target())
	spew.Dump(reg.Tables())

	fmt.Printf("Rules: %s\n", reg.Fingerprint())

	return nil
}
