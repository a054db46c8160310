package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/flickergrid/flickergrid/pkg/errors"
)

// errorBody is the JSON body of every non-2xx response except rejected
// runs, which answer with their field errors directly.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if fe, ok := errors.AsFieldErrors(err); ok {
		s.writeJSON(w, http.StatusBadRequest, fe)
		return
	}

	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorBody{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidDesign,
		errors.ErrCodeInvalidRun, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidSessionName:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeNetwork, errors.ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseForm parses the query and a url-encoded or multipart body.
// maxBodyBytes caps request bodies; background data URLs are the largest field.
const maxBodyBytes = 32 << 20

func parseForm(w http.ResponseWriter, r *http.Request) error {
	const maxMemory = 32 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse form")
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
