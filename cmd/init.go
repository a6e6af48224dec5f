package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"orbiter/internal/installer"
	"orbiter/internal/logger"
	"orbiter/internal/platform"
)

// strict turns a non-zero exit status of a hook into a payload failure.
var strict bool

// initCmd installs pending payloads and prints the directives the shell has to evaluate:
// the PATH export of the bin dir, the completion bootstrap and every payload's src/load.
var initCmd = &cobra.Command{
	Use:       "init [shell]",
	Short:     "Install pending payloads and print shell directives",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"sh", "bash", "zsh", "fish", "powershell", "wincmd"},
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := platform.DetectShell()
		if len(args) == 1 {
			shell = platform.ParseShell(args[0])
		}
		env := platform.Current(shell)

		payloads, layout, err := loadPayloads()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, shell.PathExport(layout.BinDir()))
		if bootstrap := shell.CompletionBootstrap(); bootstrap != "" {
			fmt.Fprintln(out, bootstrap)
		}

		failed := installer.New(layout, env, strict, out).Run(cmd.Context(), payloads)
		if len(failed) > 0 {
			// Failed payloads never fail the shell startup.
			logger.Warn("[WARN] %d of %d payloads failed: %s\n", len(failed), len(payloads), strings.Join(failed, ", "))
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&strict, "strict", false, "Fail a payload when one of its hooks exits non-zero")
}
