package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/freecomputinglab/rheo/internal/config"
	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

var (
	cleanConfigPath string
	cleanBuildDir   string
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove a project's build output directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().StringVar(&cleanConfigPath, "config", "", "path to rheo.toml (default: <path>/rheo.toml)")
	cleanCmd.Flags().StringVar(&cleanBuildDir, "build-dir", "", "build directory to remove (overrides rheo.toml)")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	buildDir := cleanBuildDir
	if buildDir == "" {
		manifestPath := cleanConfigPath
		if manifestPath == "" {
			manifestPath = filepath.Join(root, config.DefaultManifestFileName)
		}
		manifest, err := config.Load(manifestPath)
		if err != nil {
			return err
		}
		buildDir = manifest.BuildDir
	}
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(root, buildDir)
	}

	logger.Info("cleaning build artifacts", "dir", buildDir)
	if err := os.RemoveAll(buildDir); err != nil {
		return rheoerr.NewIoFailure("removing build directory", err)
	}
	logger.Info("cleaned build artifacts", "dir", buildDir)
	return nil
}
