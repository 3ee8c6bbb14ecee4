package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fieldmap/internal/diagnostic"
	"fieldmap/internal/engine"
	"fieldmap/internal/mapping"
	"fieldmap/internal/module/tree"
)

type batchOptions struct {
	source     string
	outDir     string
	parallel   int
	properties []string
}

var batchOpts batchOptions

var batchCmd = &cobra.Command{
	Use:   "batch FILE...",
	Short: "Run the mapping once per input file",
	Long: `Runs one session per input file, several at a time. Each file becomes the
document of the source data source and every target document is written
to the output directory as <file>.<target id>.<format>.`,
	Example: `  fieldmap batch -m contacts.yaml --out build/ --parallel 8 data/*.json`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, batchOpts, args)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	f := batchCmd.Flags()
	f.StringVar(&batchOpts.source, "source-id", "", "data source receiving each file (default: the only source)")
	f.StringVarP(&batchOpts.outDir, "out", "o", ".", "output directory")
	f.IntVar(&batchOpts.parallel, "parallel", runtime.NumCPU(), "number of files processed at a time")
	f.StringArrayVarP(&batchOpts.properties, "property", "p", nil, "session property as name=value (repeatable)")
}

type batchResult struct {
	file   string
	audits diagnostic.Diagnostics
	err    error
}

func runBatch(cmd *cobra.Command, opts batchOptions, files []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	sourceID, err := batchSource(ctx.Spec(), opts.source)
	if err != nil {
		return err
	}

	props, err := parseAssignments(opts.properties)
	if err != nil {
		return fmt.Errorf("--property: %w", err)
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}

	results := make([]batchResult, len(files))

	g, gctx := errgroup.WithContext(base)
	g.SetLimit(max(opts.parallel, 1))

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = processFile(ctx, sourceID, file, opts.outDir, props)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return summarize(cmd, results)
}

// batchSource returns the data source that receives each file.
func batchSource(spec *mapping.Specification, id string) (string, error) {
	if id != "" {
		ds, ok := spec.DataSource(id)
		if !ok || ds.Role != mapping.RoleSource {
			return "", fmt.Errorf("--source-id: %q is not a source data source", id)
		}

		return id, nil
	}

	var sources []string

	for _, ds := range spec.DataSources {
		if ds.Role == mapping.RoleSource {
			sources = append(sources, ds.ID)
		}
	}

	if len(sources) != 1 {
		return "", errors.New("--source-id is required when the mapping has several sources")
	}

	return sources[0], nil
}

func processFile(ctx *engine.Context, sourceID, file, outDir string, props map[string]string) batchResult {
	res := batchResult{file: file}

	doc, err := tree.ReadFile(documentFormat(ctx, sourceID, file), file)
	if err != nil {
		res.err = err
		return res
	}

	properties := make(map[string]any, len(props))
	for name, value := range props {
		properties[name] = value
	}

	s, err := ctx.Run(map[string]any{sourceID: doc}, properties)
	if err != nil {
		res.err = err
		return res
	}

	res.audits = s.Audits

	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	for _, id := range ctx.Targets() {
		out, ok := s.Document(id)
		if !ok {
			continue
		}

		format := documentFormat(ctx, id, "")
		name := filepath.Join(outDir, stem+"."+id+"."+string(format))

		if err := writeDocument(nil, format, out, name); err != nil {
			res.err = err
			return res
		}
	}

	return res
}

func summarize(cmd *cobra.Command, results []batchResult) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"File", "Result", "Errors", "Warnings"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	failed := 0

	for _, r := range results {
		status := "ok"

		switch {
		case r.err != nil:
			status = r.err.Error()
			failed++
		case r.audits.HasErrors():
			status = "errors"
			failed++
		}

		table.Append([]string{
			r.file,
			status,
			strconv.Itoa(r.audits.Count(diagnostic.StatusError)),
			strconv.Itoa(r.audits.Count(diagnostic.StatusWarn)),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("%d files", len(results)), fmt.Sprintf("%d failed", failed), "", ""})
	table.Render()

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errRunFailed, failed, len(results))
	}

	return nil
}
