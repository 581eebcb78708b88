package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/freecomputinglab/rheo/internal/compiler"
	"github.com/freecomputinglab/rheo/internal/config"
	"github.com/freecomputinglab/rheo/internal/watch"
	"github.com/freecomputinglab/rheo/internal/watchui"
)

const reloadServerAddr = "127.0.0.1:7331"

var watchOpen bool

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Recompile on change and serve HTML with live reload",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchOpen, "open", false, "open the HTML build in a browser once the server is ready")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	manifestPath := filepath.Join(root, config.DefaultManifestFileName)

	manifest, err := config.Load(manifestPath)
	if err != nil {
		return err
	}

	reload := watch.NewReloadServer(filepath.Join(root, manifest.BuildDir, "html"))
	comp := compiler.NewStub()

	loop, err := watch.NewLoop(root, manifestPath, comp, reload, logger)
	if err != nil {
		return err
	}

	filter := watch.NewFilter(root, config.DefaultManifestFileName, nil)
	debouncer := watch.NewDebouncer(time.Second)
	fsWatcher, err := watch.New(root, filter, debouncer)
	if err != nil {
		return err
	}
	defer fsWatcher.Close()

	program := tea.NewProgram(watchui.New())
	loop.SetReporter(watchui.NewProgramReporter(program))

	var server *http.Server
	if manifest.WantsFormat(config.FormatHTML) {
		server = &http.Server{Addr: reloadServerAddr, Handler: reload}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("reload server stopped", "error", err)
			}
		}()
		logger.Info("live reload server listening", "addr", reloadServerAddr)
		if watchOpen {
			openBrowser(fmt.Sprintf("http://%s/", reloadServerAddr))
		}
	} else if watchOpen {
		logger.Warn("--open has no effect: HTML is not in this project's formats")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loopErrs := make(chan error, 1)
	go func() {
		loopErrs <- loop.Run(ctx, fsWatcher, debouncer)
	}()

	uiDone := make(chan error, 1)
	go func() {
		_, err := program.Run()
		uiDone <- err
	}()

	select {
	case err := <-uiDone:
		cancel()
		<-loopErrs
		if server != nil {
			_ = server.Close()
		}
		return err
	case err := <-loopErrs:
		program.Quit()
		<-uiDone
		if server != nil {
			_ = server.Close()
		}
		return err
	}
}

// openBrowser shells out to the platform's "open this URL" command. Best
// effort: a failure here only costs the user a manual click, so it's
// logged, not returned.
func openBrowser(url string) {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", url)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		c = exec.Command("xdg-open", url)
	}
	if err := c.Start(); err != nil {
		logger.Warn("failed to open browser", "error", err)
	}
}
