package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/freecomputinglab/rheo/internal/config"
	"github.com/freecomputinglab/rheo/internal/orchestrator"
	"github.com/freecomputinglab/rheo/internal/report"
)

var (
	compileConfigPath string
	compileBuildDir   string
	compilePDF        bool
	compileHTML       bool
	compileEPUB       bool
	compileReportFmt  string
)

var compileCmd = &cobra.Command{
	Use:   "compile [path]",
	Short: "Compile a project into the formats its manifest requests",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileConfigPath, "config", "", "path to rheo.toml (default: <path>/rheo.toml)")
	compileCmd.Flags().StringVar(&compileBuildDir, "build-dir", "", "override the manifest's build_dir")
	compileCmd.Flags().BoolVar(&compilePDF, "pdf", false, "build PDF only (combine with --html/--epub to build several)")
	compileCmd.Flags().BoolVar(&compileHTML, "html", false, "build HTML only")
	compileCmd.Flags().BoolVar(&compileEPUB, "epub", false, "build EPUB only")
	compileCmd.Flags().StringVar(&compileReportFmt, "report", "", "emit a build summary in this format instead of console output (json, yaml)")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	var formats []string
	if compilePDF {
		formats = append(formats, config.FormatPDF)
	}
	if compileHTML {
		formats = append(formats, config.FormatHTML)
	}
	if compileEPUB {
		formats = append(formats, config.FormatEPUB)
	}

	if compileReportFmt != "" && !report.IsValidFormat(compileReportFmt) {
		return fmt.Errorf("invalid --report value %q: valid formats are json, yaml", compileReportFmt)
	}

	start := time.Now()
	result, err := orchestrator.Run(orchestrator.Options{
		Root:         root,
		ManifestPath: compileConfigPath,
		Formats:      formats,
		BuildDir:     compileBuildDir,
	})
	if result == nil {
		return err
	}

	summary := summaryFromResult(root, result, start)
	if compileReportFmt != "" {
		data, renderErr := report.Render(summary, report.Format(compileReportFmt))
		if renderErr != nil {
			return renderErr
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		fmt.Fprint(cmd.OutOrStdout(), summary.String())
	}

	switch {
	case err != nil:
		logger.Error("compile failed", "error", err)
		return err
	case summary.Overall == "partial":
		logger.Warn("compile finished with partial failures")
	default:
		logger.Info("compile succeeded")
	}
	return nil
}

func summaryFromResult(root string, result *orchestrator.Result, start time.Time) report.Summary {
	abs, absErr := filepath.Abs(root)
	if absErr != nil {
		abs = root
	}
	summary := report.Summary{
		GeneratedAt: start,
		ProjectRoot: abs,
		Overall:     result.Overall,
	}
	for _, f := range result.Formats {
		outcome := report.FormatOutcome{
			Format:    f.Format,
			Succeeded: f.Succeeded,
			Failed:    f.Failed,
			Duration:  f.Duration,
			Outputs:   f.Outputs,
		}
		if f.Err != nil {
			outcome.Error = f.Err.Error()
		}
		summary.Formats = append(summary.Formats, outcome)
	}
	return summary
}
