package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"orbiter/internal/config"
	"orbiter/internal/installer"
	"orbiter/internal/platform"
)

// updateCmd archives the install of one payload so the next `orbiter init` installs it
// afresh. Without an id it downloads the latest orbiter release next to the running binary.
var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Reset a payload for reinstall, or update orbiter itself",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := platform.Current(platform.DetectShell())

		if len(args) == 0 {
			exe, err := os.Executable()
			if err != nil {
				return err
			}
			_, err = installer.NewAcquirer(env).SelfUpdate(cmd.Context(), exe)
			return err
		}

		payloads, layout, err := loadPayloads()
		if err != nil {
			return err
		}
		p, ok := config.Find(payloads, args[0])
		if !ok {
			return fmt.Errorf("no payload with id %q", args[0])
		}
		_, err = installer.New(layout, env, false, cmd.OutOrStdout()).Update(p)
		return err
	},
}
