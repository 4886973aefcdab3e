// Package commands wires the ifrc-sync cobra commands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ifrc-sync/internal/cli"
	"ifrc-sync/internal/config"
	"ifrc-sync/internal/httpx"
	"ifrc-sync/internal/ifrc"
	"ifrc-sync/internal/retriever"
)

const (
	cmdName   = "ifrc-sync"
	envPrefix = "IFRC"
)

// Version is set at build time with -ldflags "-X ifrc-sync/cmd/ifrc-sync/commands.Version=...".
var Version = "dev"

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config config.Runtime
}

// New creates a new App instance with default values.
func New() (*App, error) {
	a := App{viper: viper.New()}

	a.cmd = &cobra.Command{
		Use:           cmdName,
		Short:         "Fetch IFRC appeals and 3W projects and build HXL datasets",
		Long:          "ifrc-sync walks the IFRC GO API, aggregates appeals and who-what-where projects and writes global and per-country CSV datasets with their descriptors.",
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs)
			if err := cli.InitViperConfig(cmdName, envPrefix, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to decode configuration into struct: %w", err)
			}
			slog.Debug("got app config", "config", a.config)

			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sync(cmd)
		},
	}
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootFlags(&a)
	cli.InstallConfigFlag(a.cmd)
	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	a.installRun()
	a.installCountries()
	a.installVersion()

	return &a, nil
}

func installRootFlags(a *App) {
	flags := a.cmd.PersistentFlags()
	c := &a.config

	flags.CountVarP(&c.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")
	flags.BoolVar(&c.JSONLogs, "json-logs", false, "enable JSON formatted logs")

	flags.StringVar(&c.ProjectConfig, "project-config", "config/project_configuration.yml", "project configuration file")
	flags.StringVar(&c.BaseDir, "base-dir", ".", "directory relative paths of the project configuration are resolved from")
	flags.StringVarP(&c.OutputDir, "output-dir", "o", "output", "directory receiving CSV resources and dataset descriptors")
	flags.StringVar(&c.StateDB, "state-db", "ifrc-sync.db", "sqlite database keeping the last run date")
	flags.StringVar(&c.DefaultLastRunDate, "default-last-run-date", "2000-01-01", "appeals lower bound when no run has completed yet")
	flags.StringVar(&c.UserAgent, "user-agent", "ifrc-sync/"+Version, "User-Agent sent to the API")
	flags.Float64Var(&c.RequestsPerSecond, "requests-per-second", 2, "API request rate, 0 disables pacing")
	flags.DurationVar(&c.Timeout, "timeout", 2*time.Minute, "per-request timeout")
	flags.IntVar(&c.Retries, "retries", httpx.DefaultRetryConfig().MaxAttempts, "attempts per request")
	flags.IntVar(&c.Workers, "workers", 4, "concurrent country dataset writers")
	flags.BoolVar(&c.Upload, "upload", false, "upload generated files over SFTP (SFTP_* environment)")

	if err := a.cmd.MarkPersistentFlagDirname("output-dir"); err != nil {
		panic(fmt.Errorf("failed to mark output-dir flag as directory: %w", err))
	}
	if err := a.cmd.MarkPersistentFlagFilename("project-config", "yml", "yaml"); err != nil {
		panic(fmt.Errorf("failed to mark project-config flag as filename: %w", err))
	}
}

// Run executes the command and associated process, returning an error if any.
func (a App) Run(ctx context.Context) error {
	return a.cmd.ExecuteContext(ctx)
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// RootCmd returns the root command.
func (a App) RootCmd() *cobra.Command {
	return a.cmd
}

// SetArgs sets arguments for the command, used by tests.
func (a *App) SetArgs(args ...string) {
	a.cmd.SetArgs(args)
}

// Config returns the settings resolved for the last execution.
func (a App) Config() config.Runtime {
	return a.config
}

// runner builds an ifrc.Runner from the resolved settings. opts is completed by the caller.
func (a *App) runner(opts ifrc.Options) (*ifrc.Runner, error) {
	project, err := config.LoadProject(a.config.ProjectConfig)
	if err != nil {
		return nil, err
	}
	retry := httpx.DefaultRetryConfig()
	retry.MaxAttempts = a.config.Retries

	opts.Project = project
	opts.ProjectDir = a.config.BaseDir
	opts.Fetcher = retriever.New(retriever.Config{
		UserAgent:         a.config.UserAgent,
		Timeout:           a.config.Timeout,
		RequestsPerSecond: a.config.RequestsPerSecond,
		Retry:             retry,
	})
	return ifrc.New(opts)
}
