package parsers

import (
	"github.com/CloudyDay-y/MasterAllDocuments/internal/core/ports/driven"
)

// Registry dispatches a path to the first parser that supports it.
type Registry struct {
	parsers []driven.Parser
}

// NewRegistry builds a registry over the given parsers. Order matters:
// Find returns the first match.
func NewRegistry(list ...driven.Parser) *Registry {
	return &Registry{parsers: list}
}

// Find returns the first parser supporting path, or nil when no parser
// handles the format.
func (r *Registry) Find(path string) driven.Parser {
	for _, p := range r.parsers {
		if p.Supports(path) {
			return p
		}
	}
	return nil
}

// Default builds the standard parser set in dispatch order.
func Default(opts Options) *Registry {
	return NewRegistry(
		NewText(opts),
		NewWord(opts),
		NewPdf(opts),
		NewExcel(opts),
		NewPowerPoint(opts),
		NewImage(opts),
	)
}
