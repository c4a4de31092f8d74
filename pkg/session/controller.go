package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nikogura/resume-builder/pkg/resume"
	"github.com/pkg/errors"
)

// Generator produces resume text with a generative model.
type Generator interface {
	GenerateResume(ctx context.Context, userInfo string) (string, error)
	ReviseSection(ctx context.Context, key string, lines []string, instruction string) ([]string, error)
}

// DocumentRenderer turns sections and contact details into a document.
type DocumentRenderer interface {
	Render(sections resume.SectionMap, contact resume.ContactRecord) ([]byte, error)
}

// Controller applies user actions to stored sessions.
//
// Every action loads the session, changes it and saves it while holding a per-session lock.
// An action that fails saves nothing, so earlier content is never replaced by partial results.
type Controller struct {
	store    Store
	gen      Generator
	renderer DocumentRenderer
	now      func() time.Time
	locks    sync.Map
}

// NewController creates a Controller.
func NewController(store Store, gen Generator, renderer DocumentRenderer) (c *Controller) {
	c = &Controller{
		store:    store,
		gen:      gen,
		renderer: renderer,
		now:      time.Now,
	}
	return c
}

func (c *Controller) lock(id string) (unlock func()) {
	v, _ := c.locks.LoadOrStore(id, &sync.Mutex{})
	mu, _ := v.(*sync.Mutex)
	mu.Lock()
	unlock = mu.Unlock
	return unlock
}

// update runs fn on the stored session and saves the result unless fn fails.
func (c *Controller) update(ctx context.Context, id string, fn func(s *Session) error) (s *Session, err error) {
	unlock := c.lock(id)
	defer unlock()

	s, err = c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = fn(s)
	if err != nil {
		return nil, err
	}

	s.UpdatedAt = c.now()
	err = c.store.Save(ctx, s)
	if err != nil {
		return nil, err
	}

	return s, err
}

// Start creates a new session.
func (c *Controller) Start(ctx context.Context) (s *Session, err error) {
	s = New(c.now())
	err = c.store.Save(ctx, s)
	if err != nil {
		return nil, err
	}
	slog.Debug("session started", "session", s.ID)
	return s, err
}

// Get returns a session.
func (c *Controller) Get(ctx context.Context, id string) (s *Session, err error) {
	s, err = c.store.Get(ctx, id)
	return s, err
}

// Delete removes a session.
func (c *Controller) Delete(ctx context.Context, id string) (err error) {
	unlock := c.lock(id)
	defer unlock()

	err = c.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	c.locks.Delete(id)
	return err
}

// Answer records the answer to the current question and advances to the next one.
func (c *Controller) Answer(ctx context.Context, id, value string) (s *Session, err error) {
	s, err = c.update(ctx, id, func(s *Session) error {
		q, ok := s.Question()
		if !ok || s.Generated {
			return ErrQuestionnaireComplete
		}
		s.Answers[q.Key] = value
		s.Step++
		return nil
	})
	return s, err
}

// Back returns to the previous question. It is a no-op on the first question.
func (c *Controller) Back(ctx context.Context, id string) (s *Session, err error) {
	s, err = c.update(ctx, id, func(s *Session) error {
		if s.Generated {
			return ErrQuestionnaireComplete
		}
		if s.Step > 0 {
			s.Step--
		}
		return nil
	})
	return s, err
}

// SetAnswers fills in answers by key and completes the questionnaire.
func (c *Controller) SetAnswers(ctx context.Context, id string, values map[string]string) (s *Session, err error) {
	err = checkKeys(values)
	if err != nil {
		return nil, err
	}

	s, err = c.update(ctx, id, func(s *Session) error {
		if s.Generated {
			return ErrQuestionnaireComplete
		}
		for k, v := range values {
			s.Answers[k] = v
		}
		s.Step = len(Questions)
		return nil
	})
	return s, err
}

// Generate produces the resume from the questionnaire answers. A session that already has a
// resume is returned unchanged; Reset starts over.
func (c *Controller) Generate(ctx context.Context, id string) (s *Session, err error) {
	s, err = c.update(ctx, id, func(s *Session) error {
		if !s.Complete() {
			return ErrQuestionnaireIncomplete
		}
		if s.Generated {
			return nil
		}

		markdown, genErr := c.gen.GenerateResume(ctx, s.UserInfo())
		if genErr != nil {
			return errors.Wrap(genErr, "resume generation failed")
		}

		parsed := resume.Parse(markdown)
		if parsed.IsEmpty() {
			slog.Warn("generated resume has no recognizable sections", "session", s.ID)
		}

		for _, field := range resume.ContactFields {
			s.Contact, _ = s.Contact.Set(field, strings.TrimSpace(s.Answers[field]))
		}
		s.Original = parsed
		s.Current = parsed.Clone()
		s.Generated = true
		s.invalidate()

		slog.Info("resume generated", "session", s.ID, "sections", parsed.Len())
		return nil
	})
	return s, err
}

// UpdateInformation applies edited answers to a generated resume.
//
// Changed contact fields update the header directly. Each changed category is regenerated on
// its own and replaces that section in both the original and the current resume; clearing a
// category removes its section. Returns ErrNoChanges when nothing changed.
func (c *Controller) UpdateInformation(ctx context.Context, id string, edits map[string]string) (s *Session, err error) {
	err = checkKeys(edits)
	if err != nil {
		return nil, err
	}

	s, err = c.update(ctx, id, func(s *Session) error {
		if !s.Generated {
			return ErrNotGenerated
		}

		changed := false
		for _, q := range Questions {
			value, ok := edits[q.Key]
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			if value == strings.TrimSpace(s.Answers[q.Key]) {
				continue
			}
			s.Answers[q.Key] = value

			if resume.IsContactField(q.Key) {
				s.Contact, _ = s.Contact.Set(q.Key, value)
				changed = true
				continue
			}

			if value == "" {
				s.Original.Delete(q.Key)
				s.Current.Delete(q.Key)
				changed = true
				continue
			}

			markdown, genErr := c.gen.GenerateResume(ctx, q.Label+": "+value)
			if genErr != nil {
				return errors.Wrapf(genErr, "failed to regenerate %s", q.Key)
			}

			lines, found := resume.Parse(markdown).Get(q.Key)
			if !found {
				slog.Warn("regenerated text has no matching section", "session", s.ID, "section", q.Key)
				continue
			}
			s.Original.Set(q.Key, lines)
			s.Current.Set(q.Key, lines)
			changed = true
		}

		if !changed {
			return ErrNoChanges
		}
		s.invalidate()
		return nil
	})
	return s, err
}

// ReviseSection rewrites one section of the current resume following instruction.
func (c *Controller) ReviseSection(ctx context.Context, id, key, instruction string) (s *Session, err error) {
	if !IsRevisable(key) {
		err = errors.Wrapf(ErrUnknownSection, "%q", key)
		return nil, err
	}

	s, err = c.update(ctx, id, func(s *Session) error {
		if !s.Generated {
			return ErrNotGenerated
		}

		lines, _ := s.Current.Get(key)
		revised, genErr := c.gen.ReviseSection(ctx, key, lines, instruction)
		if genErr != nil {
			return errors.Wrapf(genErr, "failed to revise %s", key)
		}
		if len(revised) == 0 {
			return errors.Wrapf(ErrRevisionEmpty, "section %s", key)
		}

		s.Current.Set(key, revised)
		s.Instruction = instruction
		s.TargetSection = key
		s.invalidate()

		slog.Info("section revised", "session", s.ID, "section", key, "lines", len(revised))
		return nil
	})
	return s, err
}

// Restore discards revisions, returning the current resume to the generated original.
func (c *Controller) Restore(ctx context.Context, id string) (s *Session, err error) {
	s, err = c.update(ctx, id, func(s *Session) error {
		if !s.Generated {
			return ErrNotGenerated
		}
		s.Current = s.Original.Clone()
		s.invalidate()
		return nil
	})
	return s, err
}

// Reset clears the session back to the first question, keeping its ID.
func (c *Controller) Reset(ctx context.Context, id string) (s *Session, err error) {
	s, err = c.update(ctx, id, func(s *Session) error {
		s.clear()
		return nil
	})
	return s, err
}

// Markdown returns the current resume as Markdown.
func (c *Controller) Markdown(ctx context.Context, id string) (markdown string, err error) {
	var s *Session
	s, err = c.store.Get(ctx, id)
	if err != nil {
		return markdown, err
	}
	if !s.Generated {
		err = ErrNotGenerated
		return markdown, err
	}
	markdown = resume.Reconstruct(s.Current)
	return markdown, err
}

// Document returns the rendered current resume, reusing the cached document while the content
// fingerprint is unchanged.
func (c *Controller) Document(ctx context.Context, id string) (pdf []byte, err error) {
	var cached []byte
	_, err = c.update(ctx, id, func(s *Session) error {
		if !s.Generated {
			return ErrNotGenerated
		}

		fingerprint := resume.Fingerprint(s.Current, s.Contact)
		if fingerprint == s.Fingerprint && len(s.Artifact) > 0 {
			cached = s.Artifact
			return nil
		}

		rendered, renderErr := c.renderer.Render(s.Current, s.Contact)
		if renderErr != nil {
			return errors.Wrap(renderErr, "failed to render resume")
		}

		s.Artifact = rendered
		s.Fingerprint = fingerprint
		cached = rendered
		slog.Debug("resume rendered", "session", s.ID, "bytes", len(rendered))
		return nil
	})
	if err != nil {
		return nil, err
	}

	pdf = cached
	return pdf, err
}

func checkKeys(values map[string]string) (err error) {
	for k := range values {
		if _, ok := LabelFor(k); !ok {
			err = errors.Wrapf(ErrUnknownQuestion, "%q", k)
			return err
		}
	}
	return err
}
