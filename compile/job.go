// Package compile runs parse-and-generate jobs and writes their outputs.
package compile

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/idlc/codegen"
	"github.com/teranos/idlc/errors"
)

// JobStatus represents the current state of a job
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Stdout as an output path writes the unit to the compiler's stdout.
const Stdout = "-"

// Output requests one rendered unit. An empty Path or Stdout writes to the
// compiler's stdout.
type Output struct {
	Unit codegen.Unit `json:"unit"`
	Path string       `json:"path"`
}

func (o Output) toStdout() bool {
	return o.Path == "" || o.Path == Stdout
}

// Job compiles one IDL file into one or more units
type Job struct {
	ID          string     `json:"id"`
	Input       string     `json:"input"`
	ImportBase  string     `json:"import_base,omitempty"`
	Outputs     []Output   `json:"outputs"`
	Status      JobStatus  `json:"status"`
	Interface   string     `json:"interface,omitempty"`
	Written     []string   `json:"written,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ImportedPaths lists every file the input imported, set once parsed.
	ImportedPaths []string `json:"imported_paths,omitempty"`

	err error
}

// NewJob creates a queued job for input.
func NewJob(input, importBase string, outputs ...Output) (*Job, error) {
	if input == "" {
		return nil, errors.New("input cannot be empty")
	}
	if len(outputs) == 0 {
		return nil, errors.Newf("job for %s requests no outputs", input)
	}
	return &Job{
		ID:         uuid.New().String(),
		Input:      input,
		ImportBase: importBase,
		Outputs:    outputs,
		Status:     JobStatusQueued,
		CreatedAt:  time.Now(),
	}, nil
}

// BatchOutputs returns the conventional outputs for a batch compile:
// <Name>Wrapper.h and <Name>Wrapper.cpp in dir, where Name is the input's
// base name.
func BatchOutputs(input, dir string) []Output {
	return []Output{
		{Unit: codegen.UnitHeader, Path: filepath.Join(dir, codegen.WrapperFileName(input, codegen.UnitHeader))},
		{Unit: codegen.UnitImplementation, Path: filepath.Join(dir, codegen.WrapperFileName(input, codegen.UnitImplementation))},
	}
}

// Duration is the time between start and completion, zero while running.
func (j *Job) Duration() time.Duration {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(*j.StartedAt)
}

func (j *Job) start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
}

// Err returns the error the job failed with.
func (j *Job) Err() error { return j.err }

func (j *Job) finish(err error) {
	now := time.Now()
	j.err = err
	j.CompletedAt = &now
	switch {
	case err == nil:
		j.Status = JobStatusCompleted
	case errors.Is(err, errCancelled):
		j.Status = JobStatusCancelled
		j.Error = err.Error()
	default:
		j.Status = JobStatusFailed
		j.Error = err.Error()
	}
}
