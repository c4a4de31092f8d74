package session

import (
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")
	// ErrQuestionnaireIncomplete is returned when generation is requested before every step was answered.
	ErrQuestionnaireIncomplete = errors.New("questionnaire is not complete")
	// ErrQuestionnaireComplete is returned when answering or stepping back after the last step.
	ErrQuestionnaireComplete = errors.New("questionnaire is already complete")
	// ErrUnknownQuestion is returned for an answer key that is not a questionnaire step.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrNotGenerated is returned by operations that need a generated resume.
	ErrNotGenerated = errors.New("resume has not been generated")
	// ErrNoChanges is returned when an update changes nothing.
	ErrNoChanges = errors.New("no changes detected")
	// ErrRevisionEmpty is returned when the model produced nothing usable for a section.
	ErrRevisionEmpty = errors.New("revision produced no content")
	// ErrUnknownSection is returned for a section that cannot be revised.
	ErrUnknownSection = errors.New("unknown section")
	// ErrEmptyResume signals a generated resume with no recognizable sections. It is a warning.
	ErrEmptyResume = errors.New("generated resume contains no sections")
)
