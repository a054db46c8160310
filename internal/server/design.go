package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/flickergrid/flickergrid/pkg/buildinfo"
	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/display"
	"github.com/flickergrid/flickergrid/pkg/errors"
	"github.com/flickergrid/flickergrid/pkg/pipeline"
	"github.com/flickergrid/flickergrid/pkg/render"
	"github.com/flickergrid/flickergrid/pkg/run"
)

// Response headers on previews.
const (
	HeaderDuplicates = "X-Flickergrid-Duplicates"
	HeaderCoerced    = "X-Flickergrid-Coerced"
	HeaderCache      = "X-Flickergrid-Cache"
)

var routes = []string{
	"GET /",
	"POST /generate",
	"POST /preview.svg",
	"POST /preview.png",
	"GET /cues",
	"GET /getAll",
	"GET /getByName",
	"GET /getName",
	"POST /commit",
	"POST " + run.SubmitPath,
	"GET " + run.StatusPath,
}

type indexResponse struct {
	Name   string         `json:"name"`
	Build  buildinfo.Info `json:"build"`
	Routes []string       `json:"routes"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, indexResponse{Name: "flickergrid", Build: buildinfo.Get(), Routes: routes})
}

// options applies the request's form values over the base options.
// Unparsable values are coerced to zero and listed in HeaderCoerced.
func (s *Server) options(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	if err := parseForm(w, r); err != nil {
		return pipeline.Options{}, err
	}

	o := s.base
	o.Logger = s.logger
	var coercion display.Coercion
	o.Display, coercion = display.FromForm(r.Form, s.base.Display)
	if !coercion.OK() {
		w.Header().Set(HeaderCoerced, strings.Join(coercion.Invalid, ","))
		s.logger.Warn("coerced display options", "keys", coercion.Invalid)
	}

	if v := r.Form.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidOptions, "seed must be an unsigned integer, got %q", v)
		}
		o.Seed = seed
	}
	if v := r.Form.Get("height"); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil || h <= 0 {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidOptions, "height must be a positive number, got %q", v)
		}
		o.Height = h
	}
	o.DesignText = r.Form.Get(run.FieldDesignText)
	o.Background = r.Form.Get(run.FieldBackground)
	return o, nil
}

type generateResponse struct {
	DesignText string   `json:"designText"`
	Cues       []string `json:"cues"`
	Cached     bool     `json:"cached"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	o, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	text, hit, err := s.runner.GenerateWithCacheInfo(r.Context(), o)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, generateResponse{
		DesignText: text,
		Cues:       design.Cues(design.Parse(text)),
		Cached:     hit,
	})
}

func (s *Server) handlePreview(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := s.options(w, r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		o.Formats = []string{format}

		artifacts, report, hit, err := s.runner.RenderWithCacheInfo(r.Context(), o)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if len(report.Duplicates) > 0 {
			pids := make([]string, len(report.Duplicates))
			for i, d := range report.Duplicates {
				pids[i] = d.PID
			}
			w.Header().Set(HeaderDuplicates, strings.Join(pids, ","))
		}
		if hit {
			w.Header().Set(HeaderCache, "hit")
		} else {
			w.Header().Set(HeaderCache, "miss")
		}
		w.Header().Set("Content-Type", contentType)
		if _, err := w.Write(artifacts[format]); err != nil {
			s.logger.Warn("write preview", "error", err)
		}
	}
}

type cuesResponse struct {
	Cues       []string           `json:"cues"`
	Duplicates []design.Duplicate `json:"duplicates,omitempty"`
	Malformed  []string           `json:"malformed,omitempty"`
}

func (s *Server) handleCues(w http.ResponseWriter, r *http.Request) {
	report := render.Inspect(r.URL.Query().Get(run.FieldDesignText))
	s.writeJSON(w, http.StatusOK, cuesResponse{
		Cues:       report.Cues,
		Duplicates: report.Duplicates,
		Malformed:  report.Malformed,
	})
}
