// Package draft generates Markdown drafts for blog posts and job listings.
package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agency-admin-api/internal/metrics"
	"github.com/rs/zerolog"
)

// Kind selects the instruction sent with a draft request
type Kind string

const (
	KindBlog Kind = "blog"
	KindJob  Kind = "job"
)

// FailurePlaceholder is returned as draft text whenever generation fails
const FailurePlaceholder = "Failed to generate content. Please try again."

// Temperature of every draft request
const Temperature float32 = 0.7

var instructions = map[Kind]string{
	KindBlog: "You are a professional tech blogger. Generate a structured blog post based on the title provided. Return only the content in Markdown.",
	KindJob:  "You are an HR specialist. Generate a detailed job description including responsibilities and requirements based on the job title. Return only the content in Markdown.",
}

// Instruction returns the system instruction for kind
func Instruction(kind Kind) (string, bool) {
	s, ok := instructions[kind]
	return s, ok
}

var (
	// ErrUnknownKind is returned for kinds other than blog and job
	ErrUnknownKind = errors.New("unknown draft kind")
	// ErrEmptyResponse is returned when the model answers with no text
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrUnavailable is returned when no model is configured
	ErrUnavailable = errors.New("draft generation is not configured")
)

// Request is one call to a text model
type Request struct {
	Prompt            string
	SystemInstruction string
	Temperature       float32
}

// Generator produces text for a request
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Unavailable is a Generator that always fails with ErrUnavailable
type Unavailable struct{}

func (Unavailable) Generate(context.Context, Request) (string, error) {
	return "", ErrUnavailable
}

// Result is the outcome of a draft request. Failed results carry FailurePlaceholder.
type Result struct {
	Text   string `json:"text"`
	Failed bool   `json:"failed"`
}

// Assistant turns a title into draft content
type Assistant struct {
	gen     Generator
	timeout time.Duration
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// Option configures an Assistant
type Option func(*Assistant)

// WithTimeout bounds each generation. Zero means no bound beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(a *Assistant) { a.timeout = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(a *Assistant) { a.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Assistant) { a.metrics = m }
}

// NewAssistant creates an assistant over gen. A nil gen behaves as Unavailable.
func NewAssistant(gen Generator, opts ...Option) *Assistant {
	if gen == nil {
		gen = Unavailable{}
	}
	a := &Assistant{gen: gen, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Draft asks the model for content based on title. It makes exactly one attempt
// and never returns an error; failures yield FailurePlaceholder.
func (a *Assistant) Draft(ctx context.Context, title string, kind Kind) Result {
	text, err := a.generate(ctx, title, kind)
	a.metrics.ObserveDraft(string(kind), err != nil)
	if err != nil {
		a.log.Warn().Err(err).Str("kind", string(kind)).Str("title", title).Msg("Draft generation failed")
		return Result{Text: FailurePlaceholder, Failed: true}
	}
	return Result{Text: text}
}

func (a *Assistant) generate(ctx context.Context, title string, kind Kind) (string, error) {
	instruction, ok := Instruction(kind)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	text, err := a.gen.Generate(ctx, Request{
		Prompt:            title,
		SystemInstruction: instruction,
		Temperature:       Temperature,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
