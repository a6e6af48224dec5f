package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"orbiter/internal/config"
	"orbiter/internal/paths"
	"orbiter/internal/platform"
	"orbiter/internal/resolver"
	"orbiter/internal/state"
)

// Listing scopes
const (
	ScopeEffective = "effective" // payloads with a resource for this platform
	ScopeAll       = "all"       // every payload, with its install status
)

var listCmd = &cobra.Command{
	Use:       "list [effective|all]",
	Short:     "List configured payloads",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{ScopeEffective, ScopeAll},
	RunE: func(cmd *cobra.Command, args []string) error {
		scope := ScopeEffective
		if len(args) == 1 {
			scope = args[0]
		}

		payloads, layout, err := loadPayloads()
		if err != nil {
			return err
		}
		env := platform.Current(platform.DetectShell())
		return listPayloads(cmd.OutOrStdout(), payloads, layout, env, scope)
	},
}

// listPayloads writes one line per payload in scope.
func listPayloads(w io.Writer, payloads []config.Payload, layout paths.Layout, env platform.Env, scope string) error {
	if scope == ScopeEffective {
		for _, p := range payloads {
			if _, ok := resolver.Resource(p.Resource, env.OS, env.Arch); ok {
				fmt.Fprintln(w, p.ID)
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tINSTALLED AT\tENTRY POINT")
	for _, p := range payloads {
		status, installedAt, entry := "pending", "-", "-"
		if layout.Installed(p.ID) {
			status = "installed"
			r, ok, err := state.LoadReceipt(layout.ConfigDir(p.ID))
			switch {
			case err != nil:
				return err
			case !ok:
				// processed but never finished, `orbiter update` resets it
				status = "incomplete"
			default:
				installedAt = r.InstalledAt.Local().Format(paths.ArchiveTimeFormat)
				if r.EntryPoint != "" {
					entry = r.EntryPoint
				}
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, status, installedAt, entry)
	}
	return tw.Flush()
}
