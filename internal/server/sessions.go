package server

import (
	"net/http"

	"github.com/flickergrid/flickergrid/pkg/errors"
	"github.com/flickergrid/flickergrid/pkg/run"
)

var errNoSessions = errors.New(errors.ErrCodeUnsupported, "no session store configured")

type sessionContent struct {
	Content string `json:"content"`
}

type commitResponse struct {
	Name string `json:"name"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.writeError(w, r, errNoSessions)
		return
	}
	names, err := s.sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.writeError(w, r, errNoSessions)
		return
	}
	text, err := s.sessions.Get(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sessionContent{Content: text})
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.writeError(w, r, errNoSessions)
		return
	}
	if err := parseForm(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	name, err := s.sessions.Save(r.Context(), r.Form.Get("name"), r.Form.Get(run.FieldDesignText))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session saved", "name", name)
	s.writeJSON(w, http.StatusOK, commitResponse{Name: name})
}
