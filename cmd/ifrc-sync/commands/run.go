package commands

import (
	"github.com/spf13/cobra"

	"ifrc-sync/internal/config"
	"ifrc-sync/internal/ifrc"
	"ifrc-sync/internal/state"
	"ifrc-sync/internal/summary"
)

func (a *App) installRun() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch every feed, write the datasets and advance the last run date",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return a.sync(cmd) },
	}
	a.cmd.AddCommand(cmd)
}

func (a *App) sync(cmd *cobra.Command) (err error) {
	if err := a.config.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := state.Open(ctx, a.config.StateDB)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := ifrc.Options{
		State:              store,
		OutDir:             a.config.OutputDir,
		DefaultLastRunDate: a.config.DefaultLastRunDate,
		Workers:            a.config.Workers,
	}
	if a.config.Upload {
		opts.SFTP = config.LoadSFTP()
	}
	r, err := a.runner(opts)
	if err != nil {
		return err
	}

	s, err := r.Run(ctx)
	if err != nil {
		return err
	}
	return summary.Render(cmd.OutOrStdout(), s)
}
