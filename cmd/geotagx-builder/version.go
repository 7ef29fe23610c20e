package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	builder "github.com/geotagx/builder"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of geotagx-builder",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "geotagx-builder version %s\n", strings.TrimSpace(builder.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
