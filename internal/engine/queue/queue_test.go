package queue_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"

	"go.trai.ch/texmk/internal/adapters/telemetry"
	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/engine/queue"
)

type testLogger struct {
	warns []string
}

func (l *testLogger) Info(string)     {}
func (l *testLogger) Warn(msg string) { l.warns = append(l.warns, msg) }
func (l *testLogger) Error(error)     {}

// stubAction invokes the configured callback per execution.
type stubAction struct {
	run func(target string, sched domain.Scheduler) error
}

func (a *stubAction) Run(_ context.Context, target string, sched domain.Scheduler) error {
	if a.run == nil {
		return nil
	}
	return a.run(target, sched)
}

// gatedAction adds a ShouldRun predicate on top of stubAction.
type gatedAction struct {
	stubAction
	should func(target string) bool
}

func (a *gatedAction) ShouldRun(target string, _ domain.Scheduler) bool {
	return a.should(target)
}

func newQueue(t *testing.T, recipes ...domain.Recipe) (*queue.Queue, *testLogger) {
	t.Helper()
	reg, err := domain.NewRegistry(recipes...)
	require.NoError(t, err)
	log := &testLogger{}
	return queue.New(reg, log, telemetry.NewNoop()), log
}

func TestDrain_SinglePass(t *testing.T) {
	runs := 0
	q, _ := newQueue(t, domain.Recipe{
		Dispatch: "pdf",
		Consumes: "tex",
		Action:   &stubAction{run: func(string, domain.Scheduler) error { runs++; return nil }},
	})

	require.NoError(t, q.Insert("notes.pdf", "notes.tex"))
	require.NoError(t, q.Drain(context.Background()))

	// A document needing no further pass executes exactly one job.
	assert.Equal(t, 1, runs)
	assert.Equal(t, "notes.tex", q.Document())
}

func TestInsert_NoRecipe(t *testing.T) {
	q, _ := newQueue(t, domain.Recipe{Dispatch: "pdf", Action: &stubAction{}})

	err := q.Insert("notes.xyz", "notes.tex")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoRecipe)
}

func TestNeeds_DeduplicatesPendingTargets(t *testing.T) {
	pdfRuns := 0
	bblRuns := 0
	q, _ := newQueue(t,
		domain.Recipe{Dispatch: "pdf", Action: &stubAction{run: func(_ string, sched domain.Scheduler) error {
			pdfRuns++
			if pdfRuns == 1 {
				// Duplicate INPUT entries for the same path enqueue at most one job.
				sched.Needs("notes.bbl")
				sched.Needs("notes.bbl")
				sched.Needs("notes.bbl")
			}
			return nil
		}}},
		domain.Recipe{Dispatch: "bbl", Action: &stubAction{run: func(string, domain.Scheduler) error {
			bblRuns++
			return nil
		}}},
	)

	require.NoError(t, q.Insert("notes.pdf", "notes.tex"))
	require.NoError(t, q.Drain(context.Background()))
	assert.Equal(t, 1, bblRuns)
}

func TestNeeds_UnknownExtensionIsIgnored(t *testing.T) {
	runs := 0
	q, _ := newQueue(t, domain.Recipe{Dispatch: "pdf", Action: &stubAction{run: func(_ string, sched domain.Scheduler) error {
		runs++
		// Ordinary inputs are tracked by the tool, not built by us.
		sched.Needs("preamble.sty")
		sched.Needs("chapter1.tex.bak")
		return nil
	}}})

	require.NoError(t, q.Insert("notes.pdf", "notes.tex"))
	require.NoError(t, q.Drain(context.Background()))
	// No rerun either: Needs on an unknown extension must not set the flag.
	assert.Equal(t, 1, runs)
}

func TestNeeds_QueuingSetsRerun(t *testing.T) {
	var order []string
	q, _ := newQueue(t,
		domain.Recipe{Dispatch: "pdf", Action: &stubAction{run: func(_ string, sched domain.Scheduler) error {
			order = append(order, "pdf")
			if len(order) == 1 {
				sched.Needs("notes.bbl")
			}
			return nil
		}}},
		domain.Recipe{Dispatch: "bbl", Action: &stubAction{run: func(string, domain.Scheduler) error {
			order = append(order, "bbl")
			return nil
		}}},
	)

	require.NoError(t, q.Insert("notes.pdf", "notes.tex"))
	require.NoError(t, q.Drain(context.Background()))

	// The bibliography pass runs between the two typesetting passes.
	assert.Equal(t, []string{"pdf", "bbl", "pdf"}, order)
}

func TestNeeds_HonorsShouldRun(t *testing.T) {
	pdfRuns := 0
	bblRuns := 0
	q, _ := newQueue(t,
		domain.Recipe{Dispatch: "pdf", Action: &stubAction{run: func(_ string, sched domain.Scheduler) error {
			pdfRuns++
			sched.Needs("notes.bbl")
			return nil
		}}},
		domain.Recipe{Dispatch: "bbl", Action: &gatedAction{
			stubAction: stubAction{run: func(string, domain.Scheduler) error { bblRuns++; return nil }},
			should:     func(string) bool { return false },
		}},
	)

	require.NoError(t, q.Insert("notes.pdf", "notes.tex"))
	require.NoError(t, q.Drain(context.Background()))

	// The predicate declined, so neither the job nor the rerun happened.
	assert.Equal(t, 1, pdfRuns)
	assert.Equal(t, 0, bblRuns)
}

func TestRerun_RequeuesOnce(t *testing.T) {
	runs := 0
	q, _ := newQueue(t, domain.Recipe{Dispatch: "pdf", Action: &stubAction{run: func(_ string, sched domain.Scheduler) error {
		runs++
		if runs == 1 {
			sched.Rerun()
		}
		return nil
	}}})

	require.NoError(t, q.Insert("notes.pdf", "notes.tex"))
	require.NoError(t, q.Drain(context.Background()))
	assert.Equal(t, 2, runs)
}

func TestRerun_FlagDoesNotLeakBetweenJobs(t *testing.T) {
	pdfRuns := 0
	bblRuns := 0
	q, _ := newQueue(t,
		domain.Recipe{Dispatch: "pdf", Action: &stubAction{run: func(_ string, sched domain.Scheduler) error {
			pdfRuns++
			if pdfRuns == 1 {
				sched.Needs("notes.bbl")
				sched.Rerun()
			}
			return nil
		}}},
		domain.Recipe{Dispatch: "bbl", Action: &stubAction{run: func(string, domain.Scheduler) error {
			bblRuns++
			return nil
		}}},
	)

	require.NoError(t, q.Insert("notes.pdf", "notes.tex"))
	require.NoError(t, q.Drain(context.Background()))

	// The bibliography job did not request a rerun; the flag set by the
	// typesetting job must not carry over to it. It runs once, and the
	// typesetting pass repeats exactly once.
	assert.Equal(t, 1, bblRuns)
	assert.Equal(t, 2, pdfRuns)
}

func TestDrain_ForgivingFirstPass(t *testing.T) {
	var order []string
	q, log := newQueue(t,
		domain.Recipe{Dispatch: "pdf", Action: &stubAction{run: func(_ string, sched domain.Scheduler) error {
			order = append(order, "pdf")
			if len(order) == 1 {
				sched.Needs("notes.bbl")
				return zerr.New("undefined references")
			}
			return nil
		}}},
		domain.Recipe{Dispatch: "bbl", Action: &stubAction{run: func(string, domain.Scheduler) error {
			order = append(order, "bbl")
			return nil
		}}},
	)

	require.NoError(t, q.Insert("notes.pdf", "notes.tex"))
	require.NoError(t, q.Drain(context.Background()))

	// The first failure is swallowed and the queued bibliography pass still
	// runs. The failed job is not retried automatically, so no second pdf
	// pass happens.
	assert.Equal(t, []string{"pdf", "bbl"}, order)
	assert.Len(t, log.warns, 1)
}

func TestDrain_SecondFailureAborts(t *testing.T) {
	boom := zerr.New("boom")
	runs := 0
	q, _ := newQueue(t,
		domain.Recipe{Dispatch: "pdf", Action: &stubAction{run: func(_ string, sched domain.Scheduler) error {
			sched.Needs("notes.bbl")
			return nil
		}}},
		domain.Recipe{Dispatch: "bbl", Action: &stubAction{run: func(string, domain.Scheduler) error {
			runs++
			return boom
		}}},
	)

	require.NoError(t, q.Insert("notes.pdf", "notes.tex"))
	err := q.Drain(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, runs)
}

func TestDrain_PassCap(t *testing.T) {
	q, _ := newQueue(t, domain.Recipe{Dispatch: "pdf", Action: &stubAction{run: func(_ string, sched domain.Scheduler) error {
		sched.Rerun()
		return nil
	}}})

	require.NoError(t, q.Insert("notes.pdf", "notes.tex"))
	err := q.Drain(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDidNotConverge)
}

func TestOutput_Idempotent(t *testing.T) {
	q, _ := newQueue(t, domain.Recipe{Dispatch: "pdf", Action: &stubAction{run: func(_ string, sched domain.Scheduler) error {
		sched.Output("notes.log")
		sched.Output("notes.log")
		sched.Output("notes.aux")
		return nil
	}}})

	require.NoError(t, q.Insert("notes.pdf", "notes.tex"))
	require.NoError(t, q.Drain(context.Background()))
	assert.ElementsMatch(t, []string{"notes.log", "notes.aux"}, q.Outputs())
}
