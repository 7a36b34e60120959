// Package session owns the per-user job search state: the uploaded resume,
// search results, selected job, saved jobs, tailored resume text and the
// active view. State changes go through the pure Reduce function; Session
// serialises actions for one actor and Manager keeps the live sessions.
package session

import (
	"slices"
	"time"
)

// Listing is a single job search result. Listings have no identity beyond
// their text, so two listings are the same job when their strings are equal.
type Listing string

// Resume is the uploaded resume reference. Only metadata is kept; the file
// contents are never parsed or validated.
type Resume struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Tab names one of the four mutually exclusive views.
type Tab string

// View constants
const (
	TabUpload Tab = "upload"
	TabSearch Tab = "search"
	TabSaved  Tab = "saved"
	TabTailor Tab = "tailor"
)

// Tabs lists the views in display order.
var Tabs = []Tab{TabUpload, TabSearch, TabSaved, TabTailor}

// Valid reports whether t is one of the known views.
func (t Tab) Valid() bool {
	return slices.Contains(Tabs, t)
}

// Title returns the section heading shown for the view.
func (t Tab) Title() string {
	switch t {
	case TabUpload:
		return "Upload Resume"
	case TabSearch:
		return "Search Jobs"
	case TabSaved:
		return "Saved Jobs"
	case TabTailor:
		return "Tailor Resume"
	default:
		return string(t)
	}
}

// State is everything one session knows. The zero value is not ready for use;
// start from NewState so the default view is set.
type State struct {
	Resume   *Resume
	Query    string
	Results  []Listing
	Selected *Listing
	Saved    []Listing
	Tailored *string
	Tab      Tab
}

// NewState returns the initial state: nothing uploaded, no results, no
// selection, nothing saved, upload view active.
func NewState() State {
	return State{Tab: TabUpload}
}

// HasSelection reports whether a job is currently selected.
func (s State) HasSelection() bool {
	return s.Selected != nil
}

// IsSaved reports whether job is in the saved list.
func (s State) IsSaved(job Listing) bool {
	return slices.Contains(s.Saved, job)
}

// Clone returns a deep copy of s so callers can hand it out without sharing
// slices or pointers with the live state.
func (s State) Clone() State {
	out := s
	out.Results = slices.Clone(s.Results)
	out.Saved = slices.Clone(s.Saved)
	if s.Resume != nil {
		r := *s.Resume
		out.Resume = &r
	}
	if s.Selected != nil {
		job := *s.Selected
		out.Selected = &job
	}
	if s.Tailored != nil {
		text := *s.Tailored
		out.Tailored = &text
	}
	return out
}
