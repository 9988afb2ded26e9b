package processing

import (
	"fmt"
	"time"

	"github.com/systemstart/shipnext/pkg/runner"
	"github.com/systemstart/shipnext/pkg/steps"
)

// RunState is the state of a whole plan run.
type RunState string

const (
	RunNotStarted RunState = "not-started"
	RunRunning    RunState = "running"
	RunCompleted  RunState = "completed"
	RunFailed     RunState = "failed"
)

// StepReport records what happened to one step.
type StepReport struct {
	Name     string
	Status   steps.Status
	Duration time.Duration
}

// Report summarizes a plan run.
type Report struct {
	State RunState
	Steps []StepReport
}

// Count returns the number of steps in status s.
func (r *Report) Count(s steps.Status) int {
	n := 0
	for _, st := range r.Steps {
		if st.Status == s {
			n++
		}
	}
	return n
}

// Finished returns the number of steps that were skipped or done.
func (r *Report) Finished() int {
	n := 0
	for _, st := range r.Steps {
		if st.Status.Finished() {
			n++
		}
	}
	return n
}

// Elapsed is the summed duration of every step that ran.
func (r *Report) Elapsed() time.Duration {
	var d time.Duration
	for _, st := range r.Steps {
		d += st.Duration
	}
	return d
}

// StepError wraps the failure of the step at Index.
type StepError struct {
	Step  string
	Index int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// RunPlan executes plan in order and stops at the first failing step; no
// later step runs. The returned report is never nil.
func RunPlan(plan []steps.Step, env steps.Env) (*Report, error) {
	logger := env.Log()

	report := &Report{State: RunNotStarted, Steps: make([]StepReport, len(plan))}
	for i, step := range plan {
		report.Steps[i] = StepReport{Name: step.Name, Status: steps.StatusPending}
	}

	report.State = RunRunning
	for i, step := range plan {
		report.Steps[i].Status = steps.StatusApplying
		start := time.Now()

		status, err := step.Run(env)

		report.Steps[i].Status = status
		report.Steps[i].Duration = time.Since(start)

		if err != nil {
			report.State = RunFailed
			logger.Error("step failed",
				"step", step.Name,
				"index", i+1,
				"of", len(plan),
				"finished", report.Finished(),
				"error", err)
			return report, &StepError{Step: step.Name, Index: i, Err: err}
		}
		logger.Debug("step finished", "step", step.Name, "status", status, "duration", report.Steps[i].Duration)
	}

	report.State = RunCompleted
	logger.Info("plan completed",
		"steps", len(plan),
		"done", report.Count(steps.StatusDone),
		"skipped", report.Count(steps.StatusSkipped),
		"duration", report.Elapsed())
	return report, nil
}

// Bootstrap builds the bootstrap plan for env's project and runs it.
func Bootstrap(env steps.Env) (*Report, error) {
	logger := env.Log()

	logger.Info("bootstrapping Tauri v2 with iOS support", "app", env.Project.AppName, "identifier", env.Project.Identifier)

	report, err := RunPlan(BootstrapPlan(env.Project, env.Probe), env)
	if err != nil {
		return report, err
	}

	logger.Info("Tauri v2 with iOS bootstrapped successfully")
	logger.Info("to run the desktop dev build", "command", "npm run tauri dev")
	logger.Info("iOS archive", "path", IPAPath(env.Project))
	return report, nil
}

// Status shows the version-control status of the project.
func Status(env steps.Env) error {
	if _, err := runner.Run(env.Runner, "git", "status"); err != nil {
		return fmt.Errorf("git status: %w", err)
	}
	return nil
}

// Simulate starts the app in the iOS simulator on the configured device.
func Simulate(env steps.Env) error {
	logger := env.Log()

	logger.Info("starting iOS simulator", "device", env.Project.Device)
	if _, err := runner.Run(env.Runner, "cargo", "tauri", "ios", "dev", env.Project.Device); err != nil {
		return fmt.Errorf("ios simulator: %w", err)
	}
	logger.Info("simulator session finished", "device", env.Project.Device)
	return nil
}
