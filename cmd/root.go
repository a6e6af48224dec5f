package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"orbiter/internal/config"
	"orbiter/internal/logger"
	"orbiter/internal/paths"
)

// debug flag indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// rootCmd is the base command for the CLI tool `orbiter`.
// Everything except the shell directives of `orbiter init` is written to stderr.
var rootCmd = &cobra.Command{
	Use:   "orbiter",
	Short: "Personal payload installer for your shell",
	Long: `orbiter reads a YAML list of payloads, installs each one once into ~/.orbiter and
prints the shell directives that put them to use. Add

    eval "$(orbiter init zsh)"

to your shell's rc file.`,
	SilenceUsage: true,

	// PersistentPreRun runs before any subcommand: pick up a local .env so ORBITER_HOME and
	// ORBITER_CONFIG can be pinned per directory, then set up logging.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		logger.Init(debug)
	},
}

// Execute registers global flags and runs the requested subcommand.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetErr(os.Stderr)
	rootCmd.AddCommand(initCmd, updateCmd, listCmd)
}

// loadPayloads reads the payload file and the layout both resolved from the environment.
func loadPayloads() ([]config.Payload, paths.Layout, error) {
	layout := paths.New()
	configPath := paths.ConfigPath()
	logger.Debug("[DEBUG] Home: %s, payload file: %s\n", layout.Home, configPath)

	if _, err := os.Stat(configPath); err != nil {
		return nil, layout, fmt.Errorf("no payload file at %s (set %s to point elsewhere)", configPath, paths.EnvConfig)
	}
	payloads, err := config.LoadPayloads(configPath)
	return payloads, layout, err
}
