package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nikogura/resume-builder/pkg/resume"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	// DefaultEndpoint is the Perplexity chat-completions endpoint.
	DefaultEndpoint = "https://api.perplexity.ai/chat/completions"
	// DefaultModel is the model to use.
	DefaultModel = "sonar-pro"
	// DefaultTimeout bounds a single completion request.
	DefaultTimeout = 60 * time.Second

	maxErrorBody = 512
)

// Client represents a chat-completions API client.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	endpoint   string
	generation Params
	revision   Params
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the chat-completions URL.
func WithEndpoint(endpoint string) (opt Option) {
	opt = func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
	return opt
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) (opt Option) {
	opt = func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
	return opt
}

// WithGenerationParams overrides the parameters used by GenerateResume.
func WithGenerationParams(p Params) (opt Option) {
	opt = func(c *Client) {
		c.generation = p
	}
	return opt
}

// WithRevisionParams overrides the parameters used by ReviseSection.
func WithRevisionParams(p Params) (opt Option) {
	opt = func(c *Client) {
		c.revision = p
	}
	return opt
}

// NewClient creates a new chat-completions client.
func NewClient(apiKey, model string, opts ...Option) (client *Client) {
	if model == "" {
		model = DefaultModel
	}
	client = &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: DefaultEndpoint,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		generation: DefaultGenerationParams(),
		revision:   DefaultRevisionParams(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// GenerateResume asks the model for a complete Markdown resume built from userInfo.
func (c *Client) GenerateResume(ctx context.Context, userInfo string) (markdown string, err error) {
	prompt := buildGenerationPrompt(userInfo)

	var responseText string
	responseText, err = c.Complete(ctx, generationSystemPrompt, prompt, c.generation.MaxTokens, c.generation.Temperature)
	if err != nil {
		err = errors.Wrap(err, "resume generation request failed")
		return markdown, err
	}

	markdown = stripMarkdownCodeFences(responseText)
	return markdown, err
}

// ReviseSection asks the model to improve one section and returns the revised lines.
//
// The reply is parsed as the body of a section with the same key, so a reply that repeats the
// heading or uses bold headings is handled the same way. An empty result means the model
// returned nothing usable for that section.
func (c *Client) ReviseSection(ctx context.Context, key string, lines []string, instruction string) (revised []string, err error) {
	prompt := buildRevisionPrompt(key, strings.Join(lines, "\n"), instruction)

	var responseText string
	responseText, err = c.Complete(ctx, revisionSystemPrompt, prompt, c.revision.MaxTokens, c.revision.Temperature)
	if err != nil {
		err = errors.Wrapf(err, "revision request for %s failed", key)
		return revised, err
	}

	title := resume.TitleFor(key)
	if title == "" {
		title = key
	}

	parsed := resume.Parse("## " + title + "\n" + stripMarkdownCodeFences(responseText))
	revised, _ = parsed.Get(key)

	return revised, err
}

// Complete sends one system and one user message and returns the trimmed reply text.
//
// Transport failures, non-2xx statuses, malformed payloads and empty replies are all reported as
// a *GenerationError; no partial text is ever returned alongside an error.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (text string, err error) {
	chatReq := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	var reqBody []byte
	reqBody, err = json.Marshal(chatReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return text, err
	}

	// Create HTTP request
	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return text, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	slog.Debug("sending completion request", "endpoint", c.endpoint, "model", c.model, "max_tokens", maxTokens)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = &GenerationError{Message: "HTTP request failed", Cause: err}
		return text, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = &GenerationError{StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
		return text, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = &GenerationError{StatusCode: resp.StatusCode, Message: errorDetail(respBody)}
		return text, err
	}

	if !gjson.ValidBytes(respBody) {
		err = &GenerationError{StatusCode: resp.StatusCode, Message: "malformed response: " + truncate(string(respBody))}
		return text, err
	}

	content := gjson.GetBytes(respBody, "choices.0.message.content")
	if !content.Exists() {
		err = &GenerationError{StatusCode: resp.StatusCode, Message: "no content in response"}
		return text, err
	}

	text = strings.TrimSpace(content.String())
	if text == "" {
		err = &GenerationError{StatusCode: resp.StatusCode, Message: "empty completion"}
		return text, err
	}

	slog.Debug("completion received", "chars", len(text),
		"total_tokens", gjson.GetBytes(respBody, "usage.total_tokens").Int())

	return text, err
}

// errorDetail extracts a provider error message, falling back to the raw body.
func errorDetail(body []byte) (detail string) {
	for _, path := range []string{"error.message", "error", "detail"} {
		v := gjson.GetBytes(body, path)
		if v.Exists() && v.Type == gjson.String && v.String() != "" {
			detail = v.String()
			return detail
		}
	}
	detail = truncate(strings.TrimSpace(string(body)))
	if detail == "" {
		detail = "empty error response"
	}
	return detail
}

func truncate(s string) (short string) {
	short = s
	if len(short) > maxErrorBody {
		short = short[:maxErrorBody] + "..."
	}
	return short
}

// stripMarkdownCodeFences removes a code fence wrapped around the whole response.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = strings.TrimSpace(text)

	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence line, including any info string.
	newline := strings.IndexByte(cleaned, '\n')
	if newline < 0 {
		cleaned = ""
		return cleaned
	}
	cleaned = cleaned[newline+1:]

	cleaned = strings.TrimRight(cleaned, " \r\n")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimRight(cleaned, " \r\n")

	return cleaned
}
