package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/athtracker/athtracker-backend/internal/service"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

type listCmd struct {
	app  *App
	sort string
	desc bool
	raw  bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "print the catalog with the distance to each all-time high" }
func (*listCmd) Usage() string {
	return `athctl list [-sort name|label|currentPrice|ath|percentBelow] [-desc] [-raw]

Prints the stored catalog as a table. -raw prints the markdown source
instead of rendering it for the terminal.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sort, "sort", "percentBelow", "sort key")
	f.BoolVar(&c.desc, "desc", false, "sort in descending order")
	f.BoolVar(&c.raw, "raw", false, "print markdown without rendering")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	assets, err := svc.Assets(ctx)
	if err != nil {
		fmt.Fprintln(c.app.Out, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := service.SortAssets(assets, c.sort, c.desc); err != nil {
		fmt.Fprintln(c.app.Out, "Error:", err)
		return subcommands.ExitUsageError
	}

	md := markdownTable(assets)
	if c.raw {
		fmt.Fprint(c.app.Out, md)
		return subcommands.ExitSuccess
	}

	rendered, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprintln(c.app.Out, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Fprint(c.app.Out, rendered)
	return subcommands.ExitSuccess
}

func markdownTable(assets []model.Asset) string {
	var b strings.Builder
	b.WriteString("| Name | Label | Source | Price | ATH | ATH date | Below ATH |\n")
	b.WriteString("|---|---|---|---:|---:|---|---:|\n")
	for _, a := range assets {
		athDate := "-"
		if a.ATHDate != nil {
			athDate = a.ATHDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s%% |\n",
			a.Symbol, a.Label, a.Source,
			a.CurrentPrice.StringFixed(2), a.ATH.StringFixed(2), athDate,
			a.PercentBelow.StringFixed(1))
	}
	return b.String()
}
