package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "kanban",
		Short:   "Kanban boards with drag-and-drop reordering",
		Version: version,
		Long: `kanban keeps boards of ordered lists and items. Serve it to MCP clients,
open a board in the terminal and drag cards with the mouse, or manage boards
from the command line.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(boardsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
