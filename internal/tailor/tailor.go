// Package tailor produces the tailored resume text for a selected listing.
package tailor

import (
	"context"
	"fmt"

	"github.com/jonathan/job-search-assistant/internal/session"
)

// Generator produces tailored resume text. It satisfies session.Tailorer.
type Generator interface {
	Name() string
	Tailor(ctx context.Context, job session.Listing, resume *session.Resume) (string, error)
}

// Error reports a failed generation.
type Error struct {
	Generator string
	Job       session.Listing
	Cause     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s generator could not tailor resume for %q: %v", e.Generator, e.Job, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Template fills a fixed message with the listing. The resume is not read.
type Template struct{}

// NewTemplate returns the built-in generator.
func NewTemplate() *Template {
	return &Template{}
}

// Name implements Generator.
func (Template) Name() string { return "template" }

// Tailor implements Generator.
func (Template) Tailor(_ context.Context, job session.Listing, _ *session.Resume) (string, error) {
	return Render(job), nil
}

// Render returns the template text for job.
func Render(job session.Listing) string {
	return fmt.Sprintf("Tailored resume for %s:\n\nYour resume has been optimized to highlight skills and experiences relevant to this position.", job)
}
