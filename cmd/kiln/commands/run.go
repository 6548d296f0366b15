package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compile and load the configured root unit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			noWatch, _ := cmd.Flags().GetBool("no-watch")
			waitForDebugger, _ := cmd.Flags().GetBool("wait-for-debugger")
			supervised, _ := cmd.Flags().GetBool("supervised")

			if supervised {
				// The child runs the same command without --supervised and
				// is restarted whenever it exits with the restart code.
				childArgs := []string{"run", "--config", configPath}
				if noWatch {
					childArgs = append(childArgs, "--no-watch")
				}
				if waitForDebugger {
					childArgs = append(childArgs, "--wait-for-debugger")
				}
				return c.app.Supervise(cmd.Context(), configPath, childArgs)
			}

			return c.app.Run(cmd.Context(), app.RunOptions{
				ConfigPath:      configPath,
				NoWatch:         noWatch,
				WaitForDebugger: waitForDebugger,
			})
		},
	}
	cmd.Flags().Bool("no-watch", false, "Disable the file watcher for this run")
	cmd.Flags().Bool("wait-for-debugger", false, "Pause restart requests until a debugger attaches")
	cmd.Flags().Bool("supervised", false, "Run under a supervisor that restarts on source changes")
	return cmd
}
