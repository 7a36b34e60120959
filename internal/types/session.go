//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/job-search-assistant/internal/session"
)

var validate = validator.New()

// QueryRequest sets the search box text without running a search.
type QueryRequest struct {
	Query string `json:"query"`
}

// SearchRequest runs a search. Any text is accepted, the empty query too.
type SearchRequest struct {
	Query string `json:"query"`
}

// JobRequest names a listing to select, save or remove. The name is matched
// exactly, surrounding spaces included.
type JobRequest struct {
	Job string `json:"job" validate:"required"`
}

// TabRequest switches the active view.
type TabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=upload search saved tailor"`
}

// Validate validates the QueryRequest using the validator.
func (r *QueryRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SearchRequest using the validator.
func (r *SearchRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the JobRequest using the validator.
func (r *JobRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the TabRequest using the validator.
func (r *TabRequest) Validate() error {
	return validate.Struct(r)
}

// SessionView is the JSON rendering of a session's state. Lists are always
// arrays and absent values are null, so clients never need to guess.
type SessionView struct {
	Resume         *session.Resume `json:"resume"`
	Query          string          `json:"query"`
	Results        []string        `json:"results"`
	SelectedJob    *string         `json:"selected_job"`
	SavedJobs      []string        `json:"saved_jobs"`
	TailoredResume *string         `json:"tailored_resume"`
	Tab            string          `json:"tab"`
	TabTitle       string          `json:"tab_title"`
}

// NewSessionView converts a state snapshot into its API form.
func NewSessionView(state session.State) SessionView {
	view := SessionView{
		Resume:         state.Resume,
		Query:          state.Query,
		Results:        listingStrings(state.Results),
		SavedJobs:      listingStrings(state.Saved),
		TailoredResume: state.Tailored,
		Tab:            string(state.Tab),
		TabTitle:       state.Tab.Title(),
	}
	if state.Selected != nil {
		job := string(*state.Selected)
		view.SelectedJob = &job
	}
	return view
}

// CreateSessionResponse is returned when a session is started. Token must be
// sent as a bearer token on every later request for the session.
type CreateSessionResponse struct {
	SessionID uuid.UUID   `json:"session_id"`
	Token     string      `json:"token"`
	State     SessionView `json:"state"`
}

func listingStrings(listings []session.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = string(l)
	}
	return out
}
