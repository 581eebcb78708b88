package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freecomputinglab/rheo/internal/assets"
	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

var initTemplate string

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new Rheo project",
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initTemplate, "template", "book", "project template: "+strings.Join(assets.Templates, ", "))
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := args[0]

	if !assets.IsTemplate(initTemplate) {
		return rheoerr.NewProjectConfig("unknown template %q: valid templates are %s", initTemplate, strings.Join(assets.Templates, ", "))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rheoerr.NewIoFailure("creating directory "+dir, err)
	}
	if err := ensureEmpty(dir); err != nil {
		return err
	}

	if err := assets.WriteTemplate(initTemplate, dir); err != nil {
		return err
	}

	logger.Info("project initialized", "dir", dir, "template", initTemplate)
	return nil
}

// ensureEmpty fails if dir contains any non-hidden entry. Hidden entries
// (.git, .jj, and the like) are ignored, matching the behavior of the
// project this CLI's init flow was adapted from.
func ensureEmpty(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return rheoerr.NewIoFailure("reading directory "+dir, err)
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			return rheoerr.NewProjectConfig("directory %s is not empty", dir)
		}
	}
	return nil
}
