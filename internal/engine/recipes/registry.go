package recipes

import (
	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
)

// NewRegistry seeds the registry with the builtin recipes. Both typesetting
// kinds are registered; which one a build starts from is decided by the
// initial target's extension.
func NewRegistry(runner ports.ToolRunner, logger ports.Logger) (*domain.Registry, error) {
	return domain.NewRegistry(
		domain.Recipe{Dispatch: "pdf", Consumes: "tex", Action: NewPDF(runner, logger)},
		domain.Recipe{Dispatch: "dvi", Consumes: "tex", Action: NewDVI(runner, logger)},
		domain.Recipe{Dispatch: "sagetex.sout", Consumes: "sagetex.sage", Action: NewAlgebra(runner, logger)},
		domain.Recipe{Dispatch: "bbl", Consumes: "aux", Action: NewBibliography(runner, logger)},
	)
}
