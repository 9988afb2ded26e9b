package steps

import (
	"github.com/systemstart/shipnext/pkg/probe"
)

// Precondition decides whether a step's effect is already present.
// Implementations must not modify the filesystem.
type Precondition interface {
	Satisfied(p probe.Probe) bool
	String() string
}

type always struct{}

// Always is never satisfied, so the effect is applied on every run.
func Always() Precondition { return always{} }

func (always) Satisfied(probe.Probe) bool { return false }
func (always) String() string { return "always" }

type pathExists struct {
	path string
}

// UnlessExists is satisfied once path exists.
func UnlessExists(path string) Precondition { return pathExists{path: path} }

func (p pathExists) Satisfied(pr probe.Probe) bool { return pr.Exists(p.path) }
func (p pathExists) String() string { return "exists " + p.path }
