package compile

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
)

// FilePlaceholder in a format command is replaced by the output path.
const FilePlaceholder = "{file}"

// Formatter pipes generated code through an external command such as
// clang-format. The command reads the unit on stdin and writes the
// formatted text to stdout.
type Formatter struct {
	argv []string
}

// NewFormatter splits command with shell quoting rules. An empty command
// returns a nil Formatter.
func NewFormatter(command string) (*Formatter, error) {
	if strings.TrimSpace(command) == "" {
		return nil, nil
	}
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "generate.format_command %q", command), errors.ErrInvalidConfig)
	}
	if len(argv) == 0 {
		return nil, nil
	}
	return &Formatter{argv: argv}, nil
}

// Command returns the argument vector run for path.
func (f *Formatter) Command(path string) []string {
	argv := make([]string, len(f.argv))
	for i, arg := range f.argv {
		argv[i] = strings.ReplaceAll(arg, FilePlaceholder, path)
	}
	return argv
}

// Format runs the command over text.
func (f *Formatter) Format(ctx context.Context, text, path string) (string, error) {
	argv := f.Command(path)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		err = errors.Wrapf(err, "format command %s failed", shellquote.Join(argv...))
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = errors.WithDetail(err, msg)
		}
		return "", err
	}
	logger.StageDebugw(logger.StageWrite, "Formatted output",
		logger.FieldOutput, path,
		logger.FieldSize, stdout.Len())
	return stdout.String(), nil
}
