package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/nikogura/resume-builder/pkg/llm"
	"github.com/nikogura/resume-builder/pkg/session"
	"github.com/pkg/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error from the session flow to an HTTP status.
func statusFor(err error) (code int) {
	var genErr *llm.GenerationError
	var valErr validator.ValidationErrors
	var badReq *badRequest

	switch {
	case errors.Is(err, session.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, session.ErrUnknownQuestion),
		errors.Is(err, session.ErrUnknownSection),
		errors.As(err, &valErr),
		errors.As(err, &badReq):
		code = http.StatusBadRequest
	case errors.Is(err, session.ErrQuestionnaireIncomplete),
		errors.Is(err, session.ErrQuestionnaireComplete),
		errors.Is(err, session.ErrNotGenerated):
		code = http.StatusConflict
	case errors.Is(err, session.ErrNoChanges),
		errors.Is(err, session.ErrRevisionEmpty):
		code = http.StatusUnprocessableEntity
	case errors.As(err, &genErr):
		code = http.StatusBadGateway
	default:
		code = http.StatusInternalServerError
	}
	return code
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", code, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", code, "error", err)
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(r *http.Request, v any) (err error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	err = dec.Decode(v)
	if err != nil {
		err = errors.Wrap(&badRequest{cause: err}, "invalid request body")
		return err
	}

	err = s.validate.Struct(v)
	if err != nil {
		err = errors.Wrap(err, "invalid request")
		return err
	}

	return err
}

// badRequest marks a body that could not be decoded.
type badRequest struct {
	cause error
}

func (e *badRequest) Error() (msg string) {
	msg = e.cause.Error()
	return msg
}

func (e *badRequest) Unwrap() (cause error) {
	cause = e.cause
	return cause
}
