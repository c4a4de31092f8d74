package llm

import (
	"fmt"
)

// Params controls the length and randomness of a completion.
type Params struct {
	MaxTokens   int     `json:"max_tokens" validate:"gte=1,lte=8192"`
	Temperature float64 `json:"temperature" validate:"gte=0,lte=2"`
}

// DefaultGenerationParams are used for whole-resume generation.
func DefaultGenerationParams() (p Params) {
	p = Params{MaxTokens: 800, Temperature: 0.7}
	return p
}

// DefaultRevisionParams are used for single-section revisions.
func DefaultRevisionParams() (p Params) {
	p = Params{MaxTokens: 400, Temperature: 0.5}
	return p
}

// ChatRequest represents the chat-completions request format.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// Message represents a message in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationError reports that the text generation service produced no usable content.
// StatusCode is zero when no HTTP response was received.
type GenerationError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *GenerationError) Error() (msg string) {
	msg = "text generation failed: " + e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() (cause error) {
	cause = e.Cause
	return cause
}
