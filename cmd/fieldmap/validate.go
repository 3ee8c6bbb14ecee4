package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errInvalidMapping = errors.New("mapping is invalid")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a mapping specification",
	Long: `Validates the mapping specification without touching any document and
prints every finding. Exits non-zero when an ERROR is found.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	diags := ctx.Validate()
	if len(diags) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "mapping is valid")
		return nil
	}

	renderDiagnostics(cmd.OutOrStdout(), diags)

	if diags.HasErrors() {
		return errInvalidMapping
	}

	return nil
}
