package assets

import (
	"io"
	"os"
	"path/filepath"

	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

// CopyCSS writes outputDir/style.css from projectDir/style.css if present,
// falling back to the embedded default. Grounded directly on
// original_source/src/rs/assets.rs's copy_css.
func CopyCSS(projectDir, outputDir string) error {
	projectCSS := filepath.Join(projectDir, "style.css")
	dest := filepath.Join(outputDir, "style.css")

	if data, err := os.ReadFile(projectCSS); err == nil {
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return rheoerr.NewAssetCopy(projectCSS, dest, err)
		}
		return nil
	}

	if err := os.WriteFile(dest, DefaultStyleCSS(), 0o644); err != nil {
		return rheoerr.NewAssetCopy("(embedded default)", dest, err)
	}
	return nil
}

// CopyImages recursively copies projectDir/img into outputDir/img, a
// no-op if projectDir has no img subdirectory. Grounded on
// original_source/src/rs/assets.rs's copy_images/copy_dir_recursive.
func CopyImages(projectDir, outputDir string) error {
	src := filepath.Join(projectDir, "img")
	if _, err := os.Stat(src); err != nil {
		return nil
	}
	dest := filepath.Join(outputDir, "img")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return rheoerr.NewIoFailure("creating image directory "+dest, err)
	}
	return copyDirRecursive(src, dest)
}

func copyDirRecursive(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return rheoerr.NewIoFailure("reading directory "+src, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := os.MkdirAll(dstPath, 0o755); err != nil {
				return rheoerr.NewIoFailure("creating directory "+dstPath, err)
			}
			if err := copyDirRecursive(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		if err := copyFile(srcPath, dstPath); err != nil {
			return rheoerr.NewAssetCopy(srcPath, dstPath, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
