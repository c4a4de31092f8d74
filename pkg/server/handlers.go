package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikogura/resume-builder/pkg/resume"
	"github.com/nikogura/resume-builder/pkg/session"
)

type answerRequest struct {
	Value string `json:"value" validate:"max=5000"`
}

type answersRequest struct {
	Answers map[string]string `json:"answers" validate:"required,min=1,dive,max=5000"`
}

type reviseRequest struct {
	Section     string `json:"section" validate:"required"`
	Instruction string `json:"instruction" validate:"max=2000"`
}

type questionsResponse struct {
	Questions []session.Question `json:"questions"`
	Revisable []string           `json:"revisable_sections"`
}

// sessionView is the JSON form of a session returned to clients.
type sessionView struct {
	ID            string               `json:"id"`
	Step          int                  `json:"step"`
	Question      *session.Question    `json:"question,omitempty"`
	Complete      bool                 `json:"complete"`
	Generated     bool                 `json:"generated"`
	Answers       map[string]string    `json:"answers"`
	Contact       resume.ContactRecord `json:"contact"`
	Sections      resume.SectionMap    `json:"sections"`
	Modified      bool                 `json:"modified"`
	Instruction   string               `json:"instruction,omitempty"`
	TargetSection string               `json:"target_section,omitempty"`
	Warning       string               `json:"warning,omitempty"`
}

func newSessionView(s *session.Session) (v sessionView) {
	v = sessionView{
		ID:            s.ID,
		Step:          s.Step,
		Complete:      s.Complete(),
		Generated:     s.Generated,
		Answers:       s.Answers,
		Contact:       s.Contact,
		Sections:      s.Current,
		Modified:      !s.Original.Equal(s.Current),
		Instruction:   s.Instruction,
		TargetSection: s.TargetSection,
	}
	if q, ok := s.Question(); ok && !s.Generated {
		v.Question = &q
	}
	if s.Generated && s.Current.IsEmpty() {
		v.Warning = session.ErrEmptyResume.Error()
	}
	return v
}

func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, code int, sess *session.Session, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, code, newSessionView(sess))
}

func (s *Server) handleQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, questionsResponse{
		Questions: session.Questions,
		Revisable: session.RevisableSections,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.ctrl.Start(r.Context())
	s.respondSession(w, r, http.StatusCreated, sess, err)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.ctrl.Get(r.Context(), chi.URLParam(r, "id"))
	s.respondSession(w, r, http.StatusOK, sess, err)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := s.ctrl.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	err := s.decode(r, &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.ctrl.Answer(r.Context(), chi.URLParam(r, "id"), req.Value)
	s.respondSession(w, r, http.StatusOK, sess, err)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	sess, err := s.ctrl.Back(r.Context(), chi.URLParam(r, "id"))
	s.respondSession(w, r, http.StatusOK, sess, err)
}

func (s *Server) handleSetAnswers(w http.ResponseWriter, r *http.Request) {
	var req answersRequest
	err := s.decode(r, &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.ctrl.SetAnswers(r.Context(), chi.URLParam(r, "id"), req.Answers)
	s.respondSession(w, r, http.StatusOK, sess, err)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.ctrl.Generate(r.Context(), chi.URLParam(r, "id"))
	s.respondSession(w, r, http.StatusOK, sess, err)
}

func (s *Server) handleInformation(w http.ResponseWriter, r *http.Request) {
	var req answersRequest
	err := s.decode(r, &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.ctrl.UpdateInformation(r.Context(), chi.URLParam(r, "id"), req.Answers)
	s.respondSession(w, r, http.StatusOK, sess, err)
}

func (s *Server) handleRevise(w http.ResponseWriter, r *http.Request) {
	var req reviseRequest
	err := s.decode(r, &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.ctrl.ReviseSection(r.Context(), chi.URLParam(r, "id"), req.Section, req.Instruction)
	s.respondSession(w, r, http.StatusOK, sess, err)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	sess, err := s.ctrl.Restore(r.Context(), chi.URLParam(r, "id"))
	s.respondSession(w, r, http.StatusOK, sess, err)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.ctrl.Reset(r.Context(), chi.URLParam(r, "id"))
	s.respondSession(w, r, http.StatusOK, sess, err)
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	markdown, err := s.ctrl.Markdown(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(markdown))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.ctrl.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !sess.Generated {
		s.writeError(w, r, session.ErrNotGenerated)
		return
	}

	page, err := s.preview.Page(sess.Current, sess.Contact)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	pdf, err := s.ctrl.Document(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
