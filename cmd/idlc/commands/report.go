package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"

	"github.com/teranos/idlc/compile"
	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/parser"
)

// ErrReported marks errors whose details were already printed.
var ErrReported = errors.New("already reported")

// ReportError prints err to w: a caret diagnostic for parse failures, a
// plain error line otherwise, followed by any hints.
func ReportError(w io.Writer, err error) {
	if errors.Is(err, ErrReported) {
		return
	}
	var batchErr *compile.BatchError
	if errors.As(err, &batchErr) {
		for _, job := range batchErr.Failed {
			reportOne(w, job.Err())
		}
		return
	}
	reportOne(w, err)
}

func reportOne(w io.Writer, err error) {
	if err == nil {
		return
	}
	colored := useColor(w)
	if d, ok := parser.AsDiagnostic(err); ok {
		fmt.Fprintln(w, d.Render(colored))
	} else if colored {
		pterm.Error.WithWriter(w).Println(err.Error())
	} else {
		fmt.Fprintf(w, "error: %s\n", err)
	}
	for _, hint := range errors.GetAllHints(err) {
		if colored {
			fmt.Fprintf(w, "%s %s\n", pterm.Cyan("hint:"), hint)
		} else {
			fmt.Fprintf(w, "hint: %s\n", hint)
		}
	}
}

func useColor(w io.Writer) bool {
	if !pterm.PrintColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
