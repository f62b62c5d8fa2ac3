package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "redpen",
		Short: "Redpen - AI-assisted English essay workbench",
		Long: `redpen grades English essays, aligns AI annotations with the text as it
changes, and tracks which suggestions were accepted or rejected.

It also manages a local essay library and vocabulary book, backed by a
sqlite database under ~/.redpen.`,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.redpen/config.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(),
		newCorrectCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				fmt.Printf("{\"version\": %q}\n", version)
			} else {
				fmt.Printf("redpen version %s\n", version)
			}
		},
	}
}
