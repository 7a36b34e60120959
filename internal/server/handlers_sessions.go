package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-search-assistant/internal/server/middleware"
	"github.com/jonathan/job-search-assistant/internal/session"
	"github.com/jonathan/job-search-assistant/internal/types"
)

// validatable is implemented by every request body type.
type validatable interface {
	Validate() error
}

// handleCreateSession starts a session and returns its bearer token.
func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.manager.Create()

	token, err := s.tokens.GenerateToken(sess.ID())
	if err != nil {
		log.Printf("[session] failed to issue token for %s: %v", sess.ID(), err)
		_ = s.manager.Delete(sess.ID())
		s.errorResponse(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	s.jsonResponse(w, http.StatusCreated, types.CreateSessionResponse{
		SessionID: sess.ID(),
		Token:     token,
		State:     types.NewSessionView(sess.State()),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	s.viewResponse(w, sess.State())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "missing session")
		return
	}
	if err := s.manager.Delete(id); err != nil {
		s.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionEvents streams the session view as Server-Sent Events: one
// "state" event now and one after every change, until the client goes away
// or the session ends.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	for state := range sess.Watch(r.Context()) {
		if err := sse.WriteEvent("state", types.NewSessionView(state)); err != nil {
			return
		}
	}
	if r.Context().Err() == nil {
		sse.WriteClosed(sess.ID().String())
	}
}

// handleUploadResume stores the metadata of the "resume" file part. A form
// without that part changes nothing, like a cancelled file dialog.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("resume exceeds %d bytes", s.maxUploadBytes))
			return
		}
		s.handleError(w, &ErrValidation{Field: "resume", Message: "expected multipart/form-data"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		s.viewResponse(w, sess.UploadResume(nil))
		return
	}
	if err != nil {
		s.handleError(w, &ErrValidation{Field: "resume", Message: err.Error()})
		return
	}
	_ = file.Close()

	state := sess.UploadResume(&session.Resume{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		UploadedAt:  time.Now().UTC(),
	})
	s.viewResponse(w, state)
}

func (s *Server) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	var req types.QueryRequest
	if !s.decodeRequest(w, r, &req, false) {
		return
	}
	s.viewResponse(w, sess.SetQuery(req.Query))
}

// handleSearch runs a search. An empty body searches with an empty query.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	var req types.SearchRequest
	if !s.decodeRequest(w, r, &req, true) {
		return
	}

	state, err := sess.Search(r.Context(), req.Query)
	if err != nil {
		log.Printf("[search] session %s: %v", sess.ID(), err)
		s.handleError(w, err)
		return
	}
	s.viewResponse(w, state)
}

func (s *Server) handleSelectJob(w http.ResponseWriter, r *http.Request) {
	s.handleJobAction(w, r, (*session.Session).SelectJob)
}

func (s *Server) handleSaveJob(w http.ResponseWriter, r *http.Request) {
	s.handleJobAction(w, r, (*session.Session).SaveJob)
}

func (s *Server) handleRemoveJob(w http.ResponseWriter, r *http.Request) {
	s.handleJobAction(w, r, func(sess *session.Session, job session.Listing) (session.State, error) {
		return sess.RemoveJob(job), nil
	})
}

func (s *Server) handleJobAction(w http.ResponseWriter, r *http.Request, action func(*session.Session, session.Listing) (session.State, error)) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	var req types.JobRequest
	if !s.decodeRequest(w, r, &req, false) {
		return
	}

	state, err := action(sess, session.Listing(req.Job))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.viewResponse(w, state)
}

func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	state, err := sess.Tailor(r.Context())
	if err != nil {
		if !errors.Is(err, session.ErrNoSelection) {
			log.Printf("[tailor] session %s: %v", sess.ID(), err)
		}
		s.handleError(w, err)
		return
	}
	s.viewResponse(w, state)
}

func (s *Server) handleSwitchTab(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	var req types.TabRequest
	if !s.decodeRequest(w, r, &req, false) {
		return
	}

	state, err := sess.SwitchTab(session.Tab(req.Tab))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.viewResponse(w, state)
}

// currentSession resolves the session named by the request's token. It
// writes the error response itself when there is none.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "missing session")
		return nil, false
	}
	sess, err := s.manager.Get(id)
	if err != nil {
		s.handleError(w, err)
		return nil, false
	}
	return sess, true
}

// decodeRequest decodes and validates a JSON body into req. With optional
// set, an empty body leaves req at its zero value.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, req validatable, optional bool) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(req); err != nil {
		if !(optional && errors.Is(err, io.EOF)) {
			s.handleError(w, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
			return false
		}
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, validationError(err))
		return false
	}
	return true
}

// validationError converts validator output into an ErrValidation naming the
// first failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{
			Field:   strings.ToLower(fe.Field()),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] internal error: %v", err)
	}
	s.errorResponse(w, status, errorMessage(err, status))
}

func (s *Server) viewResponse(w http.ResponseWriter, state session.State) {
	s.jsonResponse(w, http.StatusOK, types.NewSessionView(state))
}
