// Command hubrissim drives the IPC core model: running a scenario file
// end-to-end, or serving the debug HTTP API and metrics endpoint against a
// live kernel.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is stamped at release time; left as a placeholder for local
// builds the way lxd's own version.go embeds a build-time constant.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "hubrissim",
		Short: "Model and debug harness for the IPC core",
	}

	root.AddCommand(newRunCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newVersionCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hubrissim version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
