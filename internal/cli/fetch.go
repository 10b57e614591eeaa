package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type fetchCmd struct {
	app    *App
	update bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "refresh prices and all-time highs of the catalog" }
func (*fetchCmd) Usage() string {
	return `athctl fetch [-update]

Refreshes every asset of the catalog and writes a timestamped backup of the
result. The catalog itself is only overwritten with -update.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "update", false, "overwrite the catalog with the refreshed assets")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(c.app.Out, "no arguments expected")
		return subcommands.ExitUsageError
	}

	svc, closeStore, err := c.app.openService()
	if err != nil {
		fmt.Fprintln(c.app.Out, "Error:", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	result, err := svc.Refresh(ctx, c.update)
	if err != nil {
		fmt.Fprintln(c.app.Out, "Error during fetch:", err)
		return subcommands.ExitFailure
	}

	report := result.Report
	fmt.Fprintf(c.app.Out, "Fetched %d assets (%d refreshed, %d stale) in run %s\n",
		len(report.Assets), report.Refreshed, report.Stale, report.RunID)
	fmt.Fprintf(c.app.Out, "Backup saved to: %s\n", result.BackupPath)
	if result.Saved {
		fmt.Fprintln(c.app.Out, "Catalog updated")
	} else {
		fmt.Fprintln(c.app.Out, "Tip: run with -update to overwrite the catalog")
	}
	return subcommands.ExitSuccess
}
