package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freecomputinglab/rheo/internal/examples"
)

var listExamplesCmd = &cobra.Command{
	Use:   "list-examples",
	Short: "List the scaffold templates available to `rheo init --template`",
	Args:  cobra.NoArgs,
	RunE:  runListExamples,
}

func init() {
	rootCmd.AddCommand(listExamplesCmd)
}

func runListExamples(cmd *cobra.Command, args []string) error {
	list, err := examples.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, ex := range list {
		fmt.Fprintf(out, "%s\n  %s\n  files: %s\n\n", ex.Name, ex.Description, strings.Join(ex.Files, ", "))
	}
	return nil
}
