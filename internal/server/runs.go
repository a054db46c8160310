package server

import (
	"net/http"

	"github.com/flickergrid/flickergrid/pkg/errors"
	"github.com/flickergrid/flickergrid/pkg/run"
)

var errNoDisplay = errors.New(errors.ErrCodeUnsupported, "no display queue configured")

// handleSubmit accepts a run. Rejected runs answer 400 with a flat
// field -> message object.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.queue == nil {
		s.writeError(w, r, errNoDisplay)
		return
	}
	if err := parseForm(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, fe := run.FromForm(r.Form)
	if !fe.Empty() {
		s.logger.Warn("run rejected", "fields", fe.Fields())
		s.writeJSON(w, http.StatusBadRequest, fe)
		return
	}
	task, err := s.queue.Submit(req)
	if err != nil {
		if fe, ok := errors.AsFieldErrors(err); ok {
			s.logger.Warn("run rejected", "fields", fe.Fields())
		}
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run.Receipt{ID: task.ID, Position: s.queue.Len()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.queue == nil {
		s.writeJSON(w, http.StatusOK, run.Status{CurrentTask: run.TaskIdle, Passed: -1})
		return
	}
	s.writeJSON(w, http.StatusOK, s.queue.Status())
}
