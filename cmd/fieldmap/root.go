package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fieldmap/internal/engine"
	"fieldmap/internal/logging"
	"fieldmap/internal/mapping"
)

var (
	mappingFile string
	logLevel    string

	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "fieldmap",
	Short: "Declarative record transformation",
	Long: `fieldmap moves values between documents as described by a YAML mapping
specification: renaming, combining, splitting, looking up and converting
fields along the way.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}

		logger = logging.NewWriter(cmd.ErrOrStderr(), level)

		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&mappingFile, "mapping", "m", "", "mapping specification file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("FIELDMAP_LOG_LEVEL"),
		"log level: debug, info, warn or error (env FIELDMAP_LOG_LEVEL)")
}

// loadContext loads the mapping file named by --mapping and builds an
// engine context for it.
func loadContext(opts ...engine.Option) (*engine.Context, error) {
	if mappingFile == "" {
		return nil, errors.New("--mapping is required")
	}

	spec, err := mapping.LoadFile(mappingFile)
	if err != nil {
		return nil, err
	}

	logger.Debug("mapping loaded", "file", mappingFile, "entries", len(spec.Entries))

	return engine.New(spec, append([]engine.Option{engine.WithLogger(logger)}, opts...)...)
}
