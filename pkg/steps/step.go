package steps

import (
	"log/slog"

	"github.com/systemstart/shipnext/pkg/api"
	"github.com/systemstart/shipnext/pkg/probe"
	"github.com/systemstart/shipnext/pkg/runner"
)

// Status is the state of a single step.
type Status string

const (
	StatusPending  Status = "pending"
	StatusSkipped  Status = "skipped"
	StatusApplying Status = "applying"
	StatusDone     Status = "done"
	StatusAborted  Status = "aborted"
)

// Finished reports whether the step reached Skipped or Done.
func (s Status) Finished() bool {
	return s == StatusSkipped || s == StatusDone
}

// ArtifactWriter writes a rendered artifact to a path relative to the project root.
type ArtifactWriter interface {
	Write(id, dest string, payload []byte) error
}

// Env provides the collaborators a step acts through.
type Env struct {
	Root    string
	Runner  runner.Runner
	Probe   probe.Probe
	Writer  ArtifactWriter
	Project api.ProjectContext
	Logger  *slog.Logger
}

// Log returns the env's logger, falling back to the slog default.
func (e Env) Log() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Step pairs a precondition with an effect. A step whose precondition is
// already satisfied is skipped and its effect is never applied.
type Step struct {
	Name         string
	Precondition Precondition
	Action       Action
	SkipMessage  string
}

// Run moves the step from Pending to Skipped, Done or Aborted.
func (s Step) Run(env Env) (Status, error) {
	logger := env.Log().With("step", s.Name)

	if s.Precondition != nil && s.Precondition.Satisfied(env.Probe) {
		msg := s.SkipMessage
		if msg == "" {
			msg = "step already applied, skipping"
		}
		logger.Info(msg, "precondition", s.Precondition.String())
		return StatusSkipped, nil
	}

	logger.Info("applying step", "action", s.Action.Describe())
	env.Logger = logger
	if err := s.Action.Apply(env); err != nil {
		return StatusAborted, err
	}
	return StatusDone, nil
}
