package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Registry holds the set of recipes built once per run. Lookup is suffix
// based: a recipe matches a file whose name ends with its dispatch key, so
// keys may span multiple extension segments ("sagetex.sout").
type Registry struct {
	recipes []Recipe
}

// NewRegistry validates and stores the given recipes.
//
// No dispatch key may be a suffix of another; otherwise two recipes could
// match the same file name and selection would depend on registration order.
func NewRegistry(recipes ...Recipe) (*Registry, error) {
	for i, a := range recipes {
		for j, b := range recipes {
			if i == j {
				continue
			}
			if strings.HasSuffix(a.Dispatch, b.Dispatch) {
				return nil, zerr.With(zerr.With(ErrAmbiguousDispatch,
					"key", a.Dispatch), "overlaps", b.Dispatch)
			}
		}
	}
	return &Registry{recipes: recipes}, nil
}

// Lookup returns the recipe whose dispatch key the file name of target ends
// with. The validated key set guarantees at most one match.
func (r *Registry) Lookup(target string) (Recipe, bool) {
	name := filepath.Base(target)
	for _, recipe := range r.recipes {
		if strings.HasSuffix(name, recipe.Dispatch) {
			return recipe, true
		}
	}
	return Recipe{}, false
}
