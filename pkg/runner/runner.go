package runner

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Outcome holds the captured result of one finished process.
type Outcome struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the process exited with status 0.
func (o *Outcome) Success() bool { return o.ExitCode == 0 }

// Err returns an *ExitError for a failed outcome and nil otherwise.
func (o *Outcome) Err(name string, args []string) error {
	if o.Success() {
		return nil
	}
	return &ExitError{Command: CommandLine(name, args), ExitCode: o.ExitCode, Stderr: o.Stderr}
}

// Runner executes external programs.
type Runner interface {
	Execute(name string, args ...string) (*Outcome, error)
}

// ExecRunner runs programs on the local host with os/exec.
type ExecRunner struct {
	Dir    string
	Logger *slog.Logger
}

// New returns an ExecRunner rooted at dir.
func New(dir string, logger *slog.Logger) *ExecRunner {
	return &ExecRunner{Dir: dir, Logger: logger}
}

// Execute runs name with args and waits for it to exit. Programs that run
// and exit non-zero are not an error here; see Outcome.Err.
func (r *ExecRunner) Execute(name string, args ...string) (*Outcome, error) {
	logger := r.logger()
	cmdline := CommandLine(name, args)
	logger.Info("running command", "command", cmdline)

	if _, err := exec.LookPath(name); err != nil {
		logger.Error("command not found", "command", name, "error", err)
		return nil, &SpawnError{Command: cmdline, Err: err}
	}

	cmd := exec.Command(name, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	outcome := &Outcome{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		outcome.ExitCode = exitErr.ExitCode()
	default:
		logger.Error("command could not be started", "command", cmdline, "error", err)
		return nil, &SpawnError{Command: cmdline, Err: err}
	}

	if outcome.Success() {
		logger.Info("command succeeded", "command", cmdline, "output", trimOutput(outcome.Stdout))
	} else {
		logger.Error("command failed", "command", cmdline, "exitCode", outcome.ExitCode, "stderr", trimOutput(outcome.Stderr))
	}

	return outcome, nil
}

func (r *ExecRunner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Run executes name through r and folds a non-zero exit into the error.
func Run(r Runner, name string, args ...string) (*Outcome, error) {
	outcome, err := r.Execute(name, args...)
	if err != nil {
		return nil, err
	}
	if err := outcome.Err(name, args); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// SpawnError reports a program that could not be located or started.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitError reports a program that ran and exited non-zero. Stderr is kept
// for callers but left out of Error; ExecRunner already logs it.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   []byte
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
}

// CommandLine renders name and args as a shell-quoted command line.
func CommandLine(name string, args []string) string {
	var b strings.Builder
	b.WriteString(quote(name))
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(quote(arg))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~^") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func trimOutput(b []byte) string {
	return strings.TrimSpace(string(b))
}
