package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"fieldmap/internal/diagnostic"
	"fieldmap/internal/engine"
	"fieldmap/internal/module/tree"
)

// renderDiagnostics prints d as a table followed by a one line summary.
func renderDiagnostics(w io.Writer, d diagnostic.Diagnostics) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Status", "Code", "Scope", "Path", "Message"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, x := range d {
		table.Append([]string{x.Status.String(), x.Code, x.Scope, x.Path, message(x)})
	}

	table.Render()

	_, _ = fmt.Fprintf(w, "\n%d errors, %d warnings, %d infos\n",
		d.Count(diagnostic.StatusError), d.Count(diagnostic.StatusWarn), d.Count(diagnostic.StatusInfo))
}

func message(d diagnostic.Diagnostic) string {
	if len(d.Suggestions) == 0 {
		return d.Message
	}

	return fmt.Sprintf("%s (did you mean %s?)", d.Message, strings.Join(d.Suggestions, ", "))
}

// parseAssignments splits "key=value" flag values.
func parseAssignments(items []string) (map[string]string, error) {
	out := make(map[string]string, len(items))

	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", item)
		}

		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("%q is given more than once", key)
		}

		out[key] = value
	}

	return out, nil
}

// documentFormat is the format of the module serving id, or the one
// implied by the file extension when the module is not a tree module.
func documentFormat(ctx *engine.Context, id, file string) tree.Format {
	if m, ok := ctx.Module(id); ok {
		if tm, ok := m.(*tree.Module); ok {
			return tm.Format()
		}
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return tree.FormatYAML
	default:
		return tree.FormatJSON
	}
}

// writeDocument encodes doc to file, or to w when file is empty.
func writeDocument(w io.Writer, format tree.Format, doc any, file string) error {
	data, err := tree.Encode(format, doc)
	if err != nil {
		return err
	}

	if file == "" {
		_, err = w.Write(data)
		return err
	}

	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	return nil
}
