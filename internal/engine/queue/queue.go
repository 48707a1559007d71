// Package queue implements the job queue and convergence loop of the build
// engine.
//
// Dependencies are discovered lazily: executing a job may enqueue further
// jobs or request another pass of itself, and the drain loop runs until no
// job is pending. There is no up-front task graph.
package queue

import (
	"context"
	"fmt"

	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxPasses bounds how often a single target may execute in one drain. The
// external tools converge in two or three passes on real documents; a target
// still requesting reruns beyond this is looping.
const maxPasses = 5

// job is one scheduled execution of a recipe against a target.
type job struct {
	recipe domain.Recipe
	target string
}

// Queue is the scheduler for one document build. It is not safe for
// concurrent use; jobs run strictly one at a time because each external tool
// must observe the files exactly as the previous one left them.
type Queue struct {
	registry  *domain.Registry
	logger    ports.Logger
	telemetry ports.Telemetry

	jobs     []job
	pending  map[string]struct{}
	outputs  map[string]struct{}
	document string
	passes   map[string]int

	// rerun is scoped to the currently executing job: reset before the action
	// runs, read immediately after it returns.
	rerun bool
}

var _ domain.Scheduler = (*Queue)(nil)

// New creates an empty queue for one document build.
func New(registry *domain.Registry, logger ports.Logger, telemetry ports.Telemetry) *Queue {
	return &Queue{
		registry:  registry,
		logger:    logger,
		telemetry: telemetry,
		pending:   make(map[string]struct{}),
		outputs:   make(map[string]struct{}),
		passes:    make(map[string]int),
	}
}

// Insert sets the primary document and queues the job producing target. This
// is the top-level entry point: the job is pushed whenever a recipe matches,
// without consulting the recipe's predicate, so a build always runs at least
// once.
func (q *Queue) Insert(target, document string) error {
	q.document = document
	recipe, ok := q.registry.Lookup(target)
	if !ok {
		return zerr.With(domain.ErrNoRecipe, "target", target)
	}
	q.push(job{recipe: recipe, target: target})
	return nil
}

// Needs declares that target must exist before the current job is complete.
// A job is queued when a recipe matches, no job for the target is already
// pending, and the recipe's predicate (if any) agrees; queuing one also flags
// the current job for another pass. Targets without a recipe are ordinary
// inputs and are ignored.
func (q *Queue) Needs(target string) {
	if _, pending := q.pending[target]; pending {
		return
	}
	recipe, ok := q.registry.Lookup(target)
	if !ok {
		return
	}
	if cond, ok := recipe.Action.(domain.Conditional); ok && !cond.ShouldRun(target, q) {
		return
	}
	q.push(job{recipe: recipe, target: target})
	q.rerun = true
}

// Output records a generated file or directory. Idempotent; the path does
// not need to exist.
func (q *Queue) Output(path string) {
	q.outputs[path] = struct{}{}
}

// Rerun flags the currently executing job to be queued for another pass.
func (q *Queue) Rerun() {
	q.rerun = true
}

// Document returns the primary document being built.
func (q *Queue) Document() string {
	return q.document
}

// Outputs returns the recorded output set.
func (q *Queue) Outputs() []string {
	out := make([]string, 0, len(q.outputs))
	for path := range q.outputs {
		out = append(out, path)
	}
	return out
}

// Drain executes pending jobs until the queue is empty or a job fails.
//
// The very first execution is forgiving: its error is logged and swallowed,
// because the first pass of a never-built document fails in expected ways
// (undefined references before a bibliography exists). Every later failure
// aborts immediately.
func (q *Queue) Drain(ctx context.Context) error {
	first := true
	for len(q.jobs) > 0 {
		j := q.jobs[0]
		q.jobs = q.jobs[1:]
		delete(q.pending, j.target)

		q.passes[j.target]++
		if q.passes[j.target] > maxPasses {
			return zerr.With(zerr.With(domain.ErrDidNotConverge,
				"target", j.target), "passes", maxPasses)
		}

		err := q.execute(ctx, j)
		if err != nil {
			if !first {
				return err
			}
			q.logger.Warn(fmt.Sprintf("first pass of %s failed, continuing: %v", j.target, err))
		}
		first = false
	}
	return nil
}

// execute runs one job. On success, a rerun request re-queues the identical
// job; the push deduplicates in case the action already queued its own target
// via Needs. A failed action is not retried.
func (q *Queue) execute(ctx context.Context, j job) error {
	ctx, vtx := q.telemetry.Record(ctx, fmt.Sprintf("[%d] %s", q.passes[j.target], j.target))

	q.rerun = false
	err := j.recipe.Action.Run(ctx, j.target, q)
	vtx.Complete(err)
	if err != nil {
		return err
	}
	if q.rerun {
		q.push(j)
	}
	return nil
}

// push appends a job unless one for the same target is already pending.
func (q *Queue) push(j job) {
	if _, pending := q.pending[j.target]; pending {
		return
	}
	q.pending[j.target] = struct{}{}
	q.jobs = append(q.jobs, j)
}
