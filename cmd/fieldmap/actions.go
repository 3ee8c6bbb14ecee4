package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"fieldmap/internal/action"
	"fieldmap/internal/convert"
	"fieldmap/internal/match"
)

var actionsCmd = &cobra.Command{
	Use:   "actions [FILTER]",
	Short: "List the registered actions",
	Long: `Prints the action catalogue with input and output types and parameters.
An optional filter keeps the actions whose name contains it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := ""
		if len(args) > 0 {
			filter = args[0]
		}

		return listActions(cmd, action.NewDefaultRegistry(), filter)
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}

func listActions(cmd *cobra.Command, reg *action.Registry, filter string) error {
	var details []action.Detail

	for _, d := range reg.Details() {
		if strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter)) {
			details = append(details, d)
		}
	}

	if len(details) == 0 {
		msg := fmt.Sprintf("no action matches %q", filter)
		if s := match.Suggest(filter, reg.Names()); len(s) > 0 {
			msg += ", did you mean " + strings.Join(s, ", ") + "?"
		}

		return errors.New(msg)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Name", "Input", "Output", "Parameters"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, d := range details {
		table.Append([]string{
			d.Name,
			signature(d.InputType, d.InputArity),
			signature(d.OutputType, d.OutputArity),
			parameters(d),
		})
	}

	table.Render()

	return nil
}

func signature(typ convert.FieldType, arity action.Arity) string {
	name := string(typ)
	if typ.IsWildcard() {
		name = "*"
	}

	if arity == action.ArityMany {
		return "[]" + name
	}

	return name
}

func parameters(d action.Detail) string {
	parts := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		parts = append(parts, p.Name+" "+string(p.Type))
	}

	return strings.Join(parts, ", ")
}
