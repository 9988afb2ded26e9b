package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/systemstart/shipnext/pkg/api"
	"github.com/systemstart/shipnext/pkg/artifacts"
	"github.com/systemstart/shipnext/pkg/logging"
	"github.com/systemstart/shipnext/pkg/probe"
	"github.com/systemstart/shipnext/pkg/processing"
	"github.com/systemstart/shipnext/pkg/runner"
	"github.com/systemstart/shipnext/pkg/steps"
)

var version = "dev"

const (
	exitOK = iota
	exitFatal
)

const (
	commandStatus    = "status"
	commandBootstrap = "bootstrap"
	commandSimulator = "simulator"
	commandDev       = "dev"
)

type options struct {
	dir         string
	configFile  string
	loggingType string
	logLevel    string
	showVersion bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches args. Usage and version go to stdout, log records to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	flags := flag.NewFlagSet("shipnext", flag.ContinueOnError)
	flags.SetOutput(stdout)
	flags.StringVar(
		&opts.dir,
		"dir",
		".",
		"project directory")
	flags.StringVar(
		&opts.configFile,
		"config",
		"",
		"project YAML file (default: "+api.DefaultConfigFile+" in the project directory, if present)")
	flags.StringVar(
		&opts.loggingType,
		"logging-type",
		"tint",
		"logging type: json, text or tint")
	flags.StringVar(
		&opts.logLevel,
		"log-level",
		"info",
		"logging level: debug, info, warn, error")
	flags.BoolVar(
		&opts.showVersion,
		"version",
		false,
		"print version and exit")
	flags.Usage = func() { usage(stdout, flags) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFatal
	}

	if opts.showVersion {
		_, _ = fmt.Fprintln(stdout, version)
		return exitOK
	}

	if flags.NArg() == 0 {
		usage(stdout, flags)
		return exitOK
	}

	logger, err := logging.New(opts.loggingType, opts.logLevel, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid logging options: %v\n", err)
		return exitFatal
	}
	slog.SetDefault(logger)

	command := flags.Arg(0)
	switch command {
	case commandStatus, commandBootstrap, commandSimulator, commandDev:
	default:
		logger.Warn("unknown command, nothing to do", "command", command)
		return exitOK
	}

	root, err := filepath.Abs(opts.dir)
	if err != nil {
		logger.Error("failed to resolve project directory", "directory", opts.dir, "error", err)
		return exitFatal
	}

	env := steps.Env{
		Root:   root,
		Runner: runner.New(root, logger),
		Probe:  probe.Dir(root),
		Writer: artifacts.NewWriter(root, logger),
		Logger: logger,
	}

	if command == commandStatus {
		if err := processing.Status(env); err != nil {
			logger.Error("status failed", "error", err)
			return exitFatal
		}
		return exitOK
	}

	includeEnv(logger, root)

	pc, err := loadProjectContext(root, opts.configFile)
	if err != nil {
		logger.Error("failed to load project context", "error", err)
		return exitFatal
	}
	env.Project = *pc

	switch command {
	case commandBootstrap:
		_, err = processing.Bootstrap(env)
	default:
		err = processing.Simulate(env)
	}
	if err != nil {
		logger.Error(command+" failed", "error", err)
		return exitFatal
	}

	return exitOK
}

func usage(w io.Writer, flags *flag.FlagSet) {
	_, _ = fmt.Fprintln(w, "Usage: shipnext [flags] <command>")
	_, _ = fmt.Fprintln(w, "Commands:")
	_, _ = fmt.Fprintln(w, "  status     - Check git status")
	_, _ = fmt.Fprintln(w, "  bootstrap  - Bootstrap Tauri v2 with iOS for an existing Next.js app")
	_, _ = fmt.Fprintln(w, "  simulator  - Run the app in the iOS simulator (alias: dev)")
	_, _ = fmt.Fprintln(w, "Flags:")
	flags.PrintDefaults()
}

// includeEnv loads <root>/.env into the process environment if it exists.
func includeEnv(logger *slog.Logger, root string) {
	filename := filepath.Join(root, ".env")
	err := godotenv.Load(filename)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to load .env", "filename", filename, "error", err)
			return
		}
		logger.Debug("no .env file found")
	} else {
		logger.Info("using .env file", "filename", filename)
	}
}

// loadProjectContext resolves the context from defaults, the YAML file and
// SHIPNEXT_* environment variables, in that order.
func loadProjectContext(root, configFile string) (*api.ProjectContext, error) {
	var pc *api.ProjectContext

	switch {
	case configFile != "":
		loaded, err := api.LoadProjectContext(configFile)
		if err != nil {
			return nil, err
		}
		pc = loaded
	default:
		defaultFile := filepath.Join(root, api.DefaultConfigFile)
		if _, err := os.Stat(defaultFile); err == nil {
			loaded, err := api.LoadProjectContext(defaultFile)
			if err != nil {
				return nil, err
			}
			pc = loaded
		} else {
			d := api.DefaultProjectContext()
			pc = &d
		}
	}

	pc.ApplyEnv(os.LookupEnv)

	if err := pc.Validate(); err != nil {
		return nil, fmt.Errorf("validating project context: %w", err)
	}
	return pc, nil
}
