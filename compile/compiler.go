package compile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/codegen"
	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
	"github.com/teranos/idlc/parser"
)

var errCancelled = errors.New("job cancelled")

// Compiler parses IDL files and writes generated units. Each job gets its
// own parser.Session, so one Compiler may run jobs concurrently.
type Compiler struct {
	gen       *codegen.Generator
	fs        afero.Fs
	stdout    io.Writer
	formatter *Formatter
	log       *zap.SugaredLogger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithFs reads inputs from and writes outputs to fs.
func WithFs(fs afero.Fs) Option {
	return func(c *Compiler) { c.fs = fs }
}

// WithStdout sets where stdout outputs go.
func WithStdout(w io.Writer) Option {
	return func(c *Compiler) { c.stdout = w }
}

// WithFormatter pipes every rendered unit through f before writing.
func WithFormatter(f *Formatter) Option {
	return func(c *Compiler) { c.formatter = f }
}

func New(gen *codegen.Generator, opts ...Option) *Compiler {
	c := &Compiler{
		gen:    gen,
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		log:    logger.ComponentLogger("compile"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse parses input in a fresh session.
func (c *Compiler) Parse(ctx context.Context, input, importBase string) (*ast.Interface, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Mark(err, errCancelled)
	}
	session := parser.NewSession(
		parser.WithFs(c.fs),
		parser.WithImportBase(importBase),
		parser.WithLogger(logger.LoggerFromContext(ctx).Named("parser")),
	)
	return session.ParseFile(input)
}

// Run parses the job's input and renders every requested unit in memory.
// Files are written only after all units rendered, so a failing job leaves
// no partial output behind.
func (c *Compiler) Run(ctx context.Context, job *Job) (err error) {
	ctx = logger.WithJobID(ctx, job.ID)
	log := logger.ChildLogger(c.log, logger.FieldsFromContext(ctx)...)

	job.start()
	defer func() { job.finish(err) }()

	log.Debugw("Job started", logger.FieldFile, job.Input, logger.FieldCount, len(job.Outputs))

	iface, err := c.Parse(ctx, job.Input, job.ImportBase)
	if err != nil {
		return err
	}
	job.Interface = iface.Name
	job.ImportedPaths = sortedPaths(iface.ImportedPaths)

	rendered := make([]string, len(job.Outputs))
	for i, out := range job.Outputs {
		if err := ctx.Err(); err != nil {
			return errors.Mark(err, errCancelled)
		}
		text, err := c.gen.Generate(iface, out.Unit)
		if err != nil {
			return err
		}
		if c.formatter != nil {
			text, err = c.formatter.Format(ctx, text, out.Path)
			if err != nil {
				return err
			}
		}
		rendered[i] = text
	}

	written, err := c.commit(job.Outputs, rendered)
	if err != nil {
		return err
	}
	job.Written = written

	log.Infow("Compiled",
		logger.FieldFile, job.Input,
		logger.FieldInterface, iface.Name,
		logger.FieldCount, len(written),
		logger.FieldDurationMS, time.Since(*job.StartedAt).Milliseconds())
	return nil
}

// commit writes each rendered unit to a temporary file next to its target,
// then renames them all into place. Stdout outputs are printed last.
func (c *Compiler) commit(outputs []Output, rendered []string) ([]string, error) {
	type pending struct{ tmp, target string }
	var staged []pending
	cleanup := func() {
		for _, p := range staged {
			if p.tmp != "" {
				c.fs.Remove(p.tmp)
			}
		}
	}

	for i, out := range outputs {
		if out.toStdout() {
			continue
		}
		tmp, err := c.stage(out.Path, rendered[i])
		if err != nil {
			cleanup()
			return nil, err
		}
		staged = append(staged, pending{tmp: tmp, target: out.Path})
	}

	var written []string
	for i, p := range staged {
		if err := c.fs.Rename(p.tmp, p.target); err != nil {
			cleanup()
			return written, errors.Wrapf(err, "failed to move output into place at %s", p.target)
		}
		staged[i].tmp = ""
		written = append(written, p.target)
		logger.StageDebugw(logger.StageWrite, "Wrote output", logger.FieldOutput, p.target)
	}

	for i, out := range outputs {
		if !out.toStdout() {
			continue
		}
		if _, err := io.WriteString(c.stdout, rendered[i]); err != nil {
			return written, errors.Wrap(err, "failed to write to stdout")
		}
		written = append(written, Stdout)
	}
	return written, nil
}

func (c *Compiler) stage(target, content string) (string, error) {
	dir := filepath.Dir(target)
	if err := c.fs.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create output directory %s", dir)
	}
	f, err := afero.TempFile(c.fs, dir, ".idlc-*")
	if err != nil {
		return "", errors.Wrapf(err, "failed to create temporary file for %s", target)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		c.fs.Remove(f.Name())
		return "", errors.Wrapf(err, "failed to write %s", target)
	}
	if err := f.Close(); err != nil {
		c.fs.Remove(f.Name())
		return "", errors.Wrapf(err, "failed to write %s", target)
	}
	return f.Name(), nil
}

// BatchError reports the jobs of a batch that did not complete.
type BatchError struct {
	Failed []*Job
	Total  int
}

func (e *BatchError) Error() string {
	first := e.Failed[0]
	if len(e.Failed) == 1 {
		return first.Input + ": " + first.Error
	}
	return fmt.Sprintf("%d of %d jobs failed; first: %s: %s", len(e.Failed), e.Total, first.Input, first.Error)
}

// RunBatch runs jobs concurrently with at most limit in flight (limit <= 0
// means unlimited). Every job runs to completion even if others fail; the
// returned error lists the failures in input order.
func (c *Compiler) RunBatch(ctx context.Context, jobs []*Job, limit int) error {
	ctx = logger.WithComponent(ctx, "batch")
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	start := time.Now()
	for _, job := range jobs {
		g.Go(func() error {
			if err := c.Run(ctx, job); err != nil {
				c.log.Debugw("Job failed", logger.FieldJobID, job.ID, logger.FieldFile, job.Input, logger.FieldError, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed []*Job
	for _, job := range jobs {
		if job.Status != JobStatusCompleted {
			failed = append(failed, job)
		}
	}
	logger.StageInfow(logger.StageGenerate, "Batch finished",
		logger.FieldCount, len(jobs),
		"failed", len(failed),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	if len(failed) > 0 {
		return &BatchError{Failed: failed, Total: len(jobs)}
	}
	return nil
}

func sortedPaths(m map[string]bool) []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
