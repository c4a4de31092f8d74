// Package session drives one user's resume from questionnaire to rendered document.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikogura/resume-builder/pkg/resume"
)

// Session is the state of one resume being built.
type Session struct {
	ID      string               `json:"id"`
	Step    int                  `json:"step"`
	Answers map[string]string    `json:"answers"`
	Contact resume.ContactRecord `json:"contact"`
	// Original is the resume as generated; Current carries revisions on top of it.
	Original  resume.SectionMap `json:"original"`
	Current   resume.SectionMap `json:"current"`
	Generated bool              `json:"generated"`
	// Artifact is the last rendered document, valid while Fingerprint matches the content.
	Artifact      []byte    `json:"artifact,omitempty"`
	Fingerprint   string    `json:"fingerprint,omitempty"`
	Instruction   string    `json:"instruction,omitempty"`
	TargetSection string    `json:"target_section,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// New creates an empty session at the first questionnaire step.
func New(now time.Time) (s *Session) {
	s = &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.clear()
	return s
}

func (s *Session) clear() {
	s.Step = 0
	s.Answers = make(map[string]string, len(Questions))
	for _, q := range Questions {
		s.Answers[q.Key] = ""
	}
	s.Contact = resume.ContactRecord{}
	s.Original = resume.SectionMap{}
	s.Current = resume.SectionMap{}
	s.Generated = false
	s.Instruction = ""
	s.TargetSection = ""
	s.invalidate()
}

// Complete reports whether every questionnaire step was answered.
func (s *Session) Complete() (complete bool) {
	complete = s.Step >= len(Questions)
	return complete
}

// Question returns the current questionnaire step.
func (s *Session) Question() (q Question, ok bool) {
	if s.Complete() || s.Step < 0 {
		return q, ok
	}
	q = Questions[s.Step]
	ok = true
	return q, ok
}

// UserInfo returns the answers in the form sent to the model.
func (s *Session) UserInfo() (info string) {
	info = UserInfo(s.Answers)
	return info
}

// invalidate drops the cached document.
func (s *Session) invalidate() {
	s.Artifact = nil
	s.Fingerprint = ""
}
