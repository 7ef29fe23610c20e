package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geotagx/builder/pkg/core"
)

var validateJSON bool

type reportJSON struct {
	Dir   string `json:"dir"`
	Slug  string `json:"slug,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate [dir...]",
	Short: "Validate projects (all discovered projects when no dir is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newService()
		if err != nil {
			return fmt.Errorf("initializing builder: %w", err)
		}

		dirs, err := projectDirs(args)
		if err != nil {
			return err
		}

		reports, err := service.ValidateAll(cmd.Context(), dirs...)
		if err != nil {
			return err
		}

		if validateJSON {
			out := make([]reportJSON, 0, len(reports))
			for _, r := range reports {
				out = append(out, toReportJSON(r))
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(out); err != nil {
				return fmt.Errorf("encoding JSON: %w", err)
			}
		} else {
			for _, r := range reports {
				if r.Valid() {
					fmt.Fprintf(cmd.OutOrStdout(), "ok    %s (%s)\n", r.Dir, r.Project.Slug)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %s: %v\n", r.Dir, r.Err)
				}
			}
		}

		return countInvalid(reports)
	},
}

func toReportJSON(r core.Report) reportJSON {
	out := reportJSON{Dir: r.Dir, Valid: r.Valid()}
	if r.Project != nil {
		out.Slug = r.Project.Slug
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}

func countInvalid(reports []core.Report) error {
	invalid := 0
	for _, r := range reports {
		if !r.Valid() {
			invalid++
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d projects are invalid", invalid, len(reports))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
}
