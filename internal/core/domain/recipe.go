// Package domain contains the core types of the build engine.
package domain

import "context"

// Scheduler is the callback surface a recipe action receives while it runs.
// It is implemented by the job queue; one instance exists per document build.
type Scheduler interface {
	// Needs declares that target must exist before the current job is complete.
	// If a recipe is registered for target and its predicate agrees, a job is
	// queued and the current job is flagged for another pass. Targets without
	// a recipe are ordinary inputs and are ignored.
	Needs(target string)

	// Output records a generated file or directory. The path does not need to
	// exist; files that are only sometimes generated may be recorded anyway.
	Output(path string)

	// Rerun flags the currently executing job to be queued for another pass.
	Rerun()

	// Document returns the primary document being built, regardless of which
	// intermediate target triggered the current job.
	Document() string
}

// Action is the behavior of a recipe: produce target, reporting dependencies
// and outputs back through the scheduler.
type Action interface {
	Run(ctx context.Context, target string, sched Scheduler) error
}

// Conditional is an optional capability of an Action. When implemented, the
// queue consults ShouldRun before scheduling a job for the recipe; actions
// without it always run.
type Conditional interface {
	ShouldRun(target string, sched Scheduler) bool
}

// Recipe maps an output kind to the action that produces it.
type Recipe struct {
	// Dispatch is the file-name suffix the recipe is selected by, e.g. "pdf"
	// or "sagetex.sout".
	Dispatch string
	// Consumes is the suffix of the input the action reads, e.g. "tex".
	Consumes string
	// Action produces the target.
	Action Action
}
