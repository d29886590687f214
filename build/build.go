// Package build runs external programs as the collaborators a wad.Directory
// uses to produce derived companions.
//
// A Command is an argument vector in which the placeholders {src} and {dst}
// are replaced at run time by the source path and the path the artifact must
// be written to. The same Command serves as a wad.IndexBuilder directly and
// as a wad.Converter through NewConverter.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/meigma/wad"
)

// Placeholders substituted in command arguments.
const (
	SourcePlaceholder = "{src}"
	TargetPlaceholder = "{dst}"
)

// errNoOutput is returned when a program exits cleanly without writing the
// artifact.
var errNoOutput = errors.New("program produced no output")

// Command runs an external program.
type Command struct {
	program string
	args    []string
	dir     string
	env     []string
	logger  *slog.Logger
}

// Option configures a Command.
type Option func(*Command)

// WithDir sets the working directory of the program.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.dir = dir
	}
}

// WithEnv appends environment variables ("KEY=value") to the program's
// environment.
func WithEnv(env ...string) Option {
	return func(c *Command) {
		c.env = append(c.env, env...)
	}
}

// WithLogger sets the logger for program invocations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Command) {
		c.logger = logger
	}
}

// New returns a Command running program with args.
func New(program string, args []string, opts ...Option) *Command {
	c := &Command{
		program: program,
		args:    append([]string(nil), args...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse returns a Command from an argument vector whose first element is the
// program.
func Parse(argv []string, opts ...Option) (*Command, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("build: empty command")
	}
	return New(argv[0], argv[1:], opts...), nil
}

func (c *Command) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(slog.DiscardHandler)
}

// String returns the unexpanded command line.
func (c *Command) String() string {
	return strings.Join(append([]string{c.program}, c.args...), " ")
}

// Args returns the argument vector with placeholders replaced.
func (c *Command) Args(source, target string) []string {
	out := make([]string, len(c.args))
	r := strings.NewReplacer(SourcePlaceholder, source, TargetPlaceholder, target)
	for i, a := range c.args {
		out[i] = r.Replace(a)
	}
	return out
}

// Build runs the program to produce the index companion of source at target.
func (c *Command) Build(ctx context.Context, source, target string) error {
	if err := c.run(ctx, source, target, nil); err != nil {
		return fmt.Errorf("%w: %w", wad.ErrBuilderFailure, err)
	}
	return nil
}

// run executes the program and checks that target was written. Stderr is
// captured and included in the error on failure.
func (c *Command) run(ctx context.Context, source, target string, stdin io.Reader) error {
	args := c.Args(source, target)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, c.program, args...)
	command.Dir = c.dir
	if len(c.env) > 0 {
		command.Env = append(os.Environ(), c.env...)
	}
	command.Stdin = stdin
	command.Stdout = &stdout
	command.Stderr = &stderr

	c.log().Debug("running program", "program", c.program, "args", args)
	if err := command.Run(); err != nil {
		return fmt.Errorf("%s %s: %w (stderr: %s)",
			c.program, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	c.log().Debug("program finished", "program", c.program, "stdout_bytes", stdout.Len())

	info, err := os.Stat(target)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%s: %w", c.program, errNoOutput)
	}
	return nil
}

// Converter adapts a Command to wad.Converter.
//
// The source bytes are written to a temporary file, substituted for {src},
// and are also supplied on the program's standard input.
type Converter struct {
	cmd *Command
}

// NewConverter returns a Converter running cmd. Temporary source files are
// created beside the target.
func NewConverter(cmd *Command) *Converter {
	return &Converter{cmd: cmd}
}

// Convert runs the program to convert source into an archive at target.
func (c *Converter) Convert(ctx context.Context, source []byte, target string) error {
	if err := c.convert(ctx, source, target); err != nil {
		return fmt.Errorf("%w: %w", wad.ErrConverterFailure, err)
	}
	return nil
}

func (c *Converter) convert(ctx context.Context, source []byte, target string) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".wad-convert-*.deh")
	if err != nil {
		return fmt.Errorf("create source file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(source); err != nil {
		tmp.Close()
		return fmt.Errorf("write source file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close source file: %w", err)
	}
	return c.cmd.run(ctx, tmpPath, target, bytes.NewReader(source))
}

var (
	_ wad.IndexBuilder = (*Command)(nil)
	_ wad.Converter    = (*Converter)(nil)
)
