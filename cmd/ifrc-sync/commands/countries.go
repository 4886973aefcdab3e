package commands

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"ifrc-sync/internal/ifrc"
)

func (a *App) installCountries() {
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the ISO3 to IFRC country id table",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return a.countries(cmd) },
	}
	a.cmd.AddCommand(cmd)
}

func (a *App) countries(cmd *cobra.Command) error {
	r, err := a.runner(ifrc.Options{})
	if err != nil {
		return err
	}
	ids, _, err := r.Countries(cmd.Context())
	if err != nil {
		return err
	}
	names := r.Names()

	codes := make([]string, 0, len(ids))
	for iso3 := range ids {
		codes = append(codes, iso3)
	}
	sort.Strings(codes)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ISO3", "Name", "IFRC id"})
	for _, iso3 := range codes {
		name, ok := names.NameForISO3(iso3)
		if !ok {
			name = "?"
		}
		t.AppendRow(table.Row{iso3, name, ids[iso3]})
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return err
}
