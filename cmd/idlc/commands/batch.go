package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/idlc/compile"
	"github.com/teranos/idlc/logger"
)

var (
	batchOutDir     string
	batchJobs       int
	batchImportBase string
)

// BatchCmd compiles many IDL files concurrently
var BatchCmd = &cobra.Command{
	Use:   "batch <file.idl>...",
	Short: "Generate bindings for many IDL files concurrently",
	Long: `Compile every file into <Name>Wrapper.h and <Name>Wrapper.cpp in the
output directory. Each file is parsed in its own session; a failing file does
not stop the others, and every failure is reported.

Examples:
  idlc batch idl/*.idl --out-dir gen
  idlc batch idl/*.idl --out-dir gen -j 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	BatchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "", "Output directory (default: generate.output_dir)")
	BatchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 0, "Concurrent jobs (default: generate.jobs, 0 = one per CPU)")
	BatchCmd.Flags().StringVar(&batchImportBase, "import-base", "", "Fallback directory for imports (default: generate.import_base)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outDir := cfg.Generate.OutputDir
	if batchOutDir != "" {
		outDir = batchOutDir
	}
	importBase := cfg.Generate.ImportBase
	if batchImportBase != "" {
		importBase = batchImportBase
	}
	limit := cfg.Generate.Jobs
	if cmd.Flags().Changed("jobs") {
		limit = batchJobs
	}

	c, err := newCompiler(cmd, cfg)
	if err != nil {
		return err
	}

	jobs := make([]*compile.Job, 0, len(args))
	for _, input := range args {
		job, err := compile.NewJob(input, importBase, compile.BatchOutputs(input, outDir)...)
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
	}

	runErr := c.RunBatch(cmd.Context(), jobs, jobLimit(limit))

	if logger.ShouldOutput(Verbosity, logger.OutputResults) {
		succeeded := 0
		for _, job := range jobs {
			if job.Status == compile.JobStatusCompleted {
				succeeded++
				if logger.ShouldOutput(Verbosity, logger.OutputProgress) {
					pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("%s -> %s", job.Input, job.Interface+"Wrapper")
				}
			}
		}
		if runErr == nil {
			pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("Compiled %d files into %s", succeeded, outDir)
		}
	}
	return runErr
}
