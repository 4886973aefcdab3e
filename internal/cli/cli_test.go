package cli_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ifrc-sync/internal/cli"
)

// hacky way to allow us to reset the default logger.
var defaultLogger = *slog.Default()

func TestSetVerbosity(t *testing.T) {
	testCases := []struct {
		name    string
		pattern []int
	}{
		{name: "info", pattern: []int{1}},
		{name: "none", pattern: []int{0}},
		{name: "info none", pattern: []int{1, 0}},
		{name: "info debug none", pattern: []int{1, 2, 0}},
		{name: "debug", pattern: []int{2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			slog.SetDefault(&defaultLogger)
			ctx := context.Background()

			for _, p := range tc.pattern {
				cli.SetVerbosity(p)

				switch p {
				case 0:
					assert.True(t, slog.Default().Enabled(ctx, cli.DefaultLogLevel))
					assert.False(t, slog.Default().Enabled(ctx, cli.DefaultLogLevel-1))
				case 1:
					assert.True(t, slog.Default().Enabled(ctx, slog.LevelInfo))
					assert.False(t, slog.Default().Enabled(ctx, slog.LevelInfo-1))
				default:
					assert.True(t, slog.Default().Enabled(ctx, slog.LevelDebug))
					assert.False(t, slog.Default().Enabled(ctx, slog.LevelDebug-1))
				}
			}
		})
	}
}

func TestSetSlog(t *testing.T) {
	testCases := []struct {
		name    string
		level   int
		jsonLog bool
	}{
		{name: "none", level: 0},
		{name: "info json", level: 1, jsonLog: true},
		{name: "debug json", level: 2, jsonLog: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			slog.SetDefault(&defaultLogger)
			cli.SetSlog(tc.level, tc.jsonLog)

			_, isJSON := slog.Default().Handler().(*slog.JSONHandler)
			assert.Equal(t, tc.jsonLog, isJSON, "unexpected log handler type")
		})
	}
	slog.SetDefault(&defaultLogger)
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cli.InstallConfigFlag(cmd)
	return cmd
}

func TestInitViperConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ifrc-sync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output-dir: /tmp/out\nworkers: 3\n"), 0o600))

	cmd := newCmd()
	require.NoError(t, cmd.PersistentFlags().Set("config", path))

	vip := viper.New()
	require.NoError(t, cli.InitViperConfig("ifrc-sync", "IFRC", cmd, vip))
	assert.Equal(t, "/tmp/out", vip.GetString("output-dir"))
	assert.Equal(t, 3, vip.GetInt("workers"))
}

func TestInitViperConfigEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IFRC_STATE_DB", "/var/lib/ifrc/state.db")

	vip := viper.New()
	require.NoError(t, cli.InitViperConfig("ifrc-sync", "IFRC", newCmd(), vip))
	assert.Equal(t, "/var/lib/ifrc/state.db", vip.GetString("state-db"))
}

func TestInitViperConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [\n"), 0o600))

	cmd := newCmd()
	require.NoError(t, cmd.PersistentFlags().Set("config", path))
	require.Error(t, cli.InitViperConfig("ifrc-sync", "IFRC", cmd, viper.New()))
}
