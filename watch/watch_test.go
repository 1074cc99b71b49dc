package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/idlc/codegen"
	"github.com/teranos/idlc/compile"
)

type result struct {
	job *compile.Job
	err error
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func startWatcher(t *testing.T, input, outDir string) (*Watcher, <-chan result) {
	t.Helper()
	gen, err := codegen.NewGenerator(codegen.DefaultOptions())
	require.NoError(t, err)
	c := compile.New(gen)

	results := make(chan result, 16)
	w, err := New(c,
		func() (*compile.Job, error) {
			return compile.NewJob(input, "", compile.BatchOutputs(input, outDir)...)
		},
		WithDebounce(20*time.Millisecond),
		OnResult(func(job *compile.Job, err error) { results <- result{job, err} }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return w, results
}

func next(t *testing.T, results <-chan result) result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no build result")
		return result{}
	}
}

func TestWatchRebuildsOnImportChange(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	input := filepath.Join(dir, "Node.idl")
	shared := filepath.Join(dir, "Shared.idl")
	writeFile(t, input, "#import <Shared.idl>\ninterface Node { attribute Kind kind; };\n")
	writeFile(t, shared, "enum Kind { \"a\" };\n")

	w, results := startWatcher(t, input, out)

	first := next(t, results)
	require.NoError(t, first.err)
	assert.FileExists(t, filepath.Join(out, "NodeWrapper.h"))
	assert.Len(t, w.Files(), 2)

	writeFile(t, shared, "enum Kind { \"a\", \"b\" };\n")

	second := next(t, results)
	require.NoError(t, second.err)
	assert.NotEqual(t, first.job.ID, second.job.ID)
}

func TestWatchRecoversFromBrokenInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	input := filepath.Join(dir, "Node.idl")
	writeFile(t, input, "interface Node { attribute long; };\n")

	_, results := startWatcher(t, input, out)

	broken := next(t, results)
	require.Error(t, broken.err)
	assert.Equal(t, compile.JobStatusFailed, broken.job.Status)
	assert.NoFileExists(t, filepath.Join(out, "NodeWrapper.h"))

	writeFile(t, input, "interface Node { attribute long size; };\n")

	fixed := next(t, results)
	require.NoError(t, fixed.err)
	assert.FileExists(t, filepath.Join(out, "NodeWrapper.h"))
}

func TestWatchDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Node.idl")
	writeFile(t, input, "interface Node {};\n")

	_, results := startWatcher(t, input, filepath.Join(dir, "out"))
	require.NoError(t, next(t, results).err)

	for i := 0; i < 5; i++ {
		writeFile(t, input, "interface Node {};\n")
	}
	require.NoError(t, next(t, results).err)

	select {
	case r := <-results:
		t.Fatalf("burst produced an extra build: %+v", r.job)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Node.idl")
	writeFile(t, input, "interface Node {};\n")

	_, results := startWatcher(t, input, filepath.Join(dir, "out"))
	require.NoError(t, next(t, results).err)

	writeFile(t, filepath.Join(dir, "notes.txt"), "unrelated")

	select {
	case r := <-results:
		t.Fatalf("unrelated file triggered a build: %+v", r.job)
	case <-time.After(200 * time.Millisecond):
	}
}
