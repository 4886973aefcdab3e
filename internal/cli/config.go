package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// InitViperConfig reads the optional configuration file and binds envPrefix_* variables.
// IFRC_OUTPUT_DIR binds to the "output-dir" key.
func InitViperConfig(cmdName, envPrefix string, cmd *cobra.Command, vip *viper.Viper) error {
	if v, err := cmd.Flags().GetString("config"); err == nil && v != "" {
		vip.SetConfigFile(v)
	} else {
		vip.SetConfigName(cmdName)
		vip.AddConfigPath(".")
		vip.AddConfigPath("/etc/" + cmdName)
	}
	if err := vip.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if errors.As(err, &e) {
			slog.Info("No configuration file, using defaults, env variables and flags")
		} else {
			return fmt.Errorf("invalid configuration file: %w", err)
		}
	} else {
		slog.Info("Using configuration file", "file", vip.ConfigFileUsed())
	}

	vip.SetEnvPrefix(envPrefix)
	vip.AutomaticEnv()

	// AutomaticEnv alone is not seen by Unmarshal, so bind every matching variable explicitly.
	prefix := strings.ToUpper(envPrefix) + "_"
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, prefix) {
			continue
		}
		name, _, _ := strings.Cut(e, "=")
		k := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(name, prefix), "_", "-"))
		if err := vip.BindEnv(k, name); err != nil {
			return fmt.Errorf("could not bind environment variable: %w", err)
		}
	}
	return nil
}

// InstallConfigFlag adds a config flag to the command.
func InstallConfigFlag(cmd *cobra.Command) *string {
	return cmd.PersistentFlags().String("config", "", "use a specific configuration file")
}
