package recipes_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/texmk/internal/core/ports/mocks"
	"go.trai.ch/texmk/internal/engine/recipes"
)

func TestBibliography_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	target := filepath.Join(dir, "notes.bbl")

	var got ports.Invocation
	runner := mocks.NewMockToolRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv ports.Invocation) (ports.ExecResult, error) {
			got = inv
			return ports.ExecResult{Stdout: []byte("This is BibTeX\n")}, nil
		})

	sched := &spyScheduler{doc: filepath.Join(dir, "notes.tex")}
	action := recipes.NewBibliography(runner, nopLogger{})
	require.NoError(t, action.Run(context.Background(), target, sched))

	// bibtex wants the base name, not the .aux or .bbl path.
	assert.Equal(t, "bibtex", got.Tool)
	assert.Equal(t, dir, got.Dir)
	assert.Equal(t, []string{"notes"}, got.Args)

	assert.ElementsMatch(t, []string{target, filepath.Join(dir, "notes.blg")}, sched.outputs)
}

func TestBibliography_Run_ToolFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wantErr := assert.AnError
	runner := mocks.NewMockToolRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(ports.ExecResult{}, wantErr)

	action := recipes.NewBibliography(runner, nopLogger{})
	err := action.Run(context.Background(), "notes.bbl", &spyScheduler{})
	assert.ErrorIs(t, err, wantErr)
}

func TestBibliography_ShouldRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	target := filepath.Join(dir, "notes.bbl")
	action := recipes.NewBibliography(mocks.NewMockToolRunner(ctrl), nopLogger{})

	assert.True(t, action.ShouldRun(target, nil))

	// Once a bibliography exists the typesetting rerun warnings take over;
	// requesting bibtex again on every pass would never converge.
	writeFile(t, target, "\\bibitem{knuth}\n")
	assert.False(t, action.ShouldRun(target, nil))
}
