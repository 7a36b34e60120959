package session

import "slices"

// Action is a single user intent applied by Reduce.
type Action interface {
	apply(State) State
}

// UploadResume replaces the held resume. A nil File means the file dialog was
// cancelled and leaves the state untouched.
type UploadResume struct {
	File *Resume
}

// SetQuery stores the search box text.
type SetQuery struct {
	Query string
}

// ShowResults replaces the result list with whatever the search source
// returned, in that order.
type ShowResults struct {
	Results []Listing
}

// SelectJob marks a listing as the current job.
type SelectJob struct {
	Job Listing
}

// SaveJob bookmarks a listing unless it is already saved.
type SaveJob struct {
	Job Listing
}

// RemoveJob drops every saved entry equal to Job.
type RemoveJob struct {
	Job Listing
}

// ShowTailored overwrites the tailored resume text.
type ShowTailored struct {
	Text string
}

// SwitchTab changes the active view. Unknown tabs are ignored here; Session
// rejects them before they reach the reducer.
type SwitchTab struct {
	Tab Tab
}

// Reduce returns the state that results from applying a to s. It never
// mutates s and the returned slices never alias the ones in s.
func Reduce(s State, a Action) State {
	if a == nil {
		return s.Clone()
	}
	return a.apply(s.Clone())
}

func (a UploadResume) apply(s State) State {
	if a.File == nil {
		return s
	}
	r := *a.File
	s.Resume = &r
	return s
}

func (a SetQuery) apply(s State) State {
	s.Query = a.Query
	return s
}

func (a ShowResults) apply(s State) State {
	s.Results = slices.Clone(a.Results)
	if s.Results == nil {
		s.Results = []Listing{}
	}
	return s
}

func (a SelectJob) apply(s State) State {
	job := a.Job
	s.Selected = &job
	return s
}

func (a SaveJob) apply(s State) State {
	if !slices.Contains(s.Saved, a.Job) {
		s.Saved = append(s.Saved, a.Job)
	}
	return s
}

func (a RemoveJob) apply(s State) State {
	s.Saved = slices.DeleteFunc(s.Saved, func(job Listing) bool {
		return job == a.Job
	})
	return s
}

func (a ShowTailored) apply(s State) State {
	text := a.Text
	s.Tailored = &text
	return s
}

func (a SwitchTab) apply(s State) State {
	if a.Tab.Valid() {
		s.Tab = a.Tab
	}
	return s
}
