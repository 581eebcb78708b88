package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/freecomputinglab/rheo/internal/logging"
)

var (
	version = "dev"

	quiet   bool
	verbose bool

	logger *log.Logger
)

// rootCmd is the base command when rheo is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "rheo",
	Short: "A multi-format publishing pipeline for typst-like markup",
	Long: `Rheo compiles a single source tree into synchronized PDF, HTML,
and EPUB output from one manifest.

Examples:
  rheo compile ./book           # build every format the manifest requests
  rheo compile ./book --html    # build only HTML
  rheo watch ./book --open      # rebuild on change and serve with live reload
  rheo init my-book --template book
  rheo list-examples`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(logging.Options{Quiet: quiet, Verbose: verbose})
	},
}

// SetVersion records the build version reported by `rheo --version`.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
}
