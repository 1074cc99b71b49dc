package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/idlc/compile"
	"github.com/teranos/idlc/config"
	"github.com/teranos/idlc/logger"
	"github.com/teranos/idlc/watch"
)

var watchFlags generateFlags

// WatchCmd regenerates whenever the input or its imports change
var WatchCmd = &cobra.Command{
	Use:   "watch <file.idl> [import-base]",
	Short: "Regenerate on change of an IDL file or anything it imports",
	Long: `Build once, then rebuild whenever the file or any file it imports,
directly or transitively, changes. Accepts the same flags as generate.
Failed builds are reported and watching continues. Changes to the loaded
idlc.toml files update the log settings without a restart.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWatch,
}

func init() {
	watchFlags.register(WatchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	base, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := watchFlags.apply(cmd, base)

	importBase := cfg.Generate.ImportBase
	if len(args) > 1 {
		importBase = args[1]
	}

	c, err := newCompiler(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if files := config.Files(); len(files) > 0 {
		cw, err := config.NewConfigWatcher(files...)
		if err != nil {
			return err
		}
		cw.OnReload(func(next *config.Config) error {
			logger.SetTheme(next.Log.Theme)
			logger.SetVerbosity(max(Verbosity, next.Log.Verbosity))
			return nil
		})
		config.SetGlobalWatcher(cw)
		cw.Start()
		defer cw.Stop()
	}

	stderr := cmd.ErrOrStderr()
	w, err := watch.New(c,
		func() (*compile.Job, error) {
			return compile.NewJob(args[0], importBase, watchFlags.outputs()...)
		},
		watch.OnResult(func(job *compile.Job, err error) {
			if err != nil {
				ReportError(stderr, err)
				return
			}
			if logger.ShouldOutput(Verbosity, logger.OutputWatch) {
				pterm.Success.WithWriter(stderr).Printfln("Rebuilt %s in %s", job.Input, job.Duration().Round(time.Millisecond))
			}
		}),
	)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
