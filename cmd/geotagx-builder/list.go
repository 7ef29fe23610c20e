package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the projects found under the root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newService()
		if err != nil {
			return fmt.Errorf("initializing builder: %w", err)
		}

		dirs, err := service.Discover(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing projects: %w", err)
		}

		if listJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(dirs)
		}

		for _, dir := range dirs {
			fmt.Fprintln(cmd.OutOrStdout(), dir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
