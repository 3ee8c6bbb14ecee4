package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"fieldmap/internal/diagnostic"
	"fieldmap/internal/module/tree"
)

var errRunFailed = errors.New("run finished with errors")

type runOptions struct {
	sources    []string
	targets    []string
	properties []string
	dump       bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the mapping once",
	Long: `Runs one session of the mapping. Source documents come from --source or
from the location in their data source URI. Target documents are written
to the files given with --target, the rest are printed to stdout.`,
	Example: `  fieldmap run -m contacts.yaml --source src=in.json --target tgt=out.json
  fieldmap run -m contacts.yaml -s src=in.yaml -p region=eu --dump`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMapping(cmd, runOpts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringArrayVarP(&runOpts.sources, "source", "s", nil, "source document as id=file (repeatable)")
	f.StringArrayVarP(&runOpts.targets, "target", "t", nil, "write target document as id=file (repeatable)")
	f.StringArrayVarP(&runOpts.properties, "property", "p", nil, "session property as name=value (repeatable)")
	f.BoolVar(&runOpts.dump, "dump", false, "dump the session documents and audits")
}

func runMapping(cmd *cobra.Command, opts runOptions) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	sources, err := parseAssignments(opts.sources)
	if err != nil {
		return fmt.Errorf("--source: %w", err)
	}

	targets, err := parseAssignments(opts.targets)
	if err != nil {
		return fmt.Errorf("--target: %w", err)
	}

	props, err := parseAssignments(opts.properties)
	if err != nil {
		return fmt.Errorf("--property: %w", err)
	}

	for id := range targets {
		if !slices.Contains(ctx.Targets(), id) {
			return fmt.Errorf("--target: %q is not a target data source", id)
		}
	}

	docs := make(map[string]any, len(sources))

	for id, file := range sources {
		doc, err := tree.ReadFile(documentFormat(ctx, id, file), file)
		if err != nil {
			return fmt.Errorf("source %s: %w", id, err)
		}

		docs[id] = doc
	}

	properties := make(map[string]any, len(props))
	for name, value := range props {
		properties[name] = value
	}

	s, err := ctx.Run(docs, properties)
	if err != nil {
		return err
	}

	if opts.dump {
		spew.Fdump(cmd.OutOrStdout(), s.Documents(), s.Audits)
	}

	for _, id := range ctx.Targets() {
		doc, ok := s.Document(id)
		if !ok {
			continue
		}

		file := targets[id]
		if err := writeDocument(cmd.OutOrStdout(), documentFormat(ctx, id, file), doc, file); err != nil {
			return fmt.Errorf("target %s: %w", id, err)
		}
	}

	if len(s.Audits) > 0 {
		renderDiagnostics(cmd.ErrOrStderr(), s.Audits)
	}

	if s.Audits.HasErrors() {
		return fmt.Errorf("%w: %d errors", errRunFailed, s.Audits.Count(diagnostic.StatusError))
	}

	return nil
}
