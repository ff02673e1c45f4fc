package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"lab47.dev/esyopam/pkg/ops"
	"lab47.dev/esyopam/pkg/repo"
)

func scanF(ctx context.Context, opts struct {
	Config  string `short:"c" long:"config" description:"config file to use"`
	JSON    bool   `long:"json" description:"output the scan index as json"`
	Skipped bool   `short:"s" long:"skipped" description:"only show versions that will be skipped"`
	Repo    string `short:"r" long:"repo" description:"opam repository to scan instead of the configured one"`

	Pos struct {
		Names []string `positional-arg-name:"name"`
	} `positional-args:"yes"`
}) error {
	cfg, reg, err := setup(opts.Config)
	if err != nil {
		return err
	}

	path := cfg.OpamPackages
	if opts.Repo != "" {
		path = opts.Repo
	}

	d, err := repo.Open(path)
	if err != nil {
		return errors.Wrapf(err, "unable to open opam repository")
	}

	rs := &ops.RepoScan{
		Registry: reg,
		Only:     opts.Pos.Names,
	}
	rs.SetLogger(hclog.L())

	idx, err := rs.Scan(ctx, d)
	if err != nil {
		return err
	}

	if opts.JSON {
		return writeJSON(os.Stdout, idx)
	}

	tw := tabwriter.NewWriter(os.Stdout, 4, 2, 1, ' ', 0)
	defer tw.Flush()

	for _, e := range idx.Entries {
		if opts.Skipped && !e.Skip {
			continue
		}

		status := "convert"
		if e.Skip {
			status = "skip (" + e.Reason + ")"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cfg.Target().PackageName(e.Name), e.Version, status, e.ID)
	}

	fmt.Fprintf(tw, "\n%d versions, %d skipped\t\t\t\n", len(idx.Entries), idx.Skipped())

	return nil
}
