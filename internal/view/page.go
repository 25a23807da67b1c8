// Package view holds the list/form state machine behind each admin page.
// A page is either listing rows or editing one form; all store access goes
// through the typed repositories.
package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agency-admin-api/internal/draft"
	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/repository"
	"github.com/agency-admin-api/internal/validation"
	"github.com/rs/zerolog"
)

// State of a page
type State int

const (
	StateList State = iota
	StateEditing
)

func (s State) String() string {
	if s == StateEditing {
		return "editing"
	}
	return "list"
}

var (
	ErrNotEditing       = errors.New("no form is open")
	ErrUnknownRecord    = errors.New("record is not in the current list")
	ErrDraftUnsupported = errors.New("page has no draft assistant")
	ErrTitleRequired    = errors.New("title required")
)

// TitleRequiredMessage is the alert raised when a draft is requested without a title
const TitleRequiredMessage = "Enter a title first"

// Store is the part of a repository a page needs
type Store[T models.Record] interface {
	ListAll(ctx context.Context) repository.ListResult[T]
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id string, patch repository.Patch) error
	Delete(ctx context.Context, id string) error
}

// DraftBinding ties a page's form to the draft assistant
type DraftBinding[T models.Record] struct {
	Kind       draft.Kind
	Title      func(T) string
	SetContent func(T, string)
}

// Config describes one page
type Config[T models.Record] struct {
	Noun          string
	ConfirmPrompt string
	Blank         func() T
	Validate      func(T) validation.Errors
	Draft         *DraftBinding[T]
}

// Option configures a page
type Option func(*hooks)

type hooks struct {
	confirm   func(prompt string) bool
	alert     func(message string)
	assistant *draft.Assistant
	log       zerolog.Logger
}

// WithConfirm sets the yes/no prompt shown before deletes. Without one, deletes are declined.
func WithConfirm(fn func(prompt string) bool) Option {
	return func(h *hooks) { h.confirm = fn }
}

// WithAlert sets the sink for user-facing error messages
func WithAlert(fn func(message string)) Option {
	return func(h *hooks) { h.alert = fn }
}

// WithAssistant enables draft generation on pages that support it
func WithAssistant(a *draft.Assistant) Option {
	return func(h *hooks) { h.assistant = a }
}

func WithLogger(log zerolog.Logger) Option {
	return func(h *hooks) { h.log = log }
}

// Page is the list/form state machine of one collection
type Page[T models.Record] struct {
	store Store[T]
	cfg   Config[T]
	hooks hooks

	state       State
	rows        []T
	form        T
	editingID   string
	fieldErrors validation.Errors
	loadErr     error
}

// NewPage creates a page in the list state with no rows loaded
func NewPage[T models.Record](store Store[T], cfg Config[T], opts ...Option) *Page[T] {
	h := hooks{
		confirm: func(string) bool { return false },
		alert:   func(string) {},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&h)
	}
	return &Page[T]{store: store, cfg: cfg, hooks: h, rows: []T{}}
}

func (p *Page[T]) State() State                   { return p.state }
func (p *Page[T]) Rows() []T                      { return p.rows }
func (p *Page[T]) Form() T                        { return p.form }
func (p *Page[T]) EditingID() string              { return p.editingID }
func (p *Page[T]) FieldErrors() validation.Errors { return p.fieldErrors }
func (p *Page[T]) LoadErr() error                 { return p.loadErr }
func (p *Page[T]) SupportsDraft() bool            { return p.cfg.Draft != nil }
func (p *Page[T]) Noun() string                   { return p.cfg.Noun }
func (p *Page[T]) ConfirmPrompt() string          { return p.cfg.ConfirmPrompt }

// Mount loads the rows and shows the list
func (p *Page[T]) Mount(ctx context.Context) error {
	p.state = StateList
	p.closeForm()
	return p.reload(ctx)
}

// StartCreate opens a blank form with the page defaults
func (p *Page[T]) StartCreate() T {
	p.state = StateEditing
	p.editingID = ""
	p.fieldErrors = nil
	p.form = p.cfg.Blank()
	return p.form
}

// StartEdit opens the form seeded with the row whose id matches
func (p *Page[T]) StartEdit(id string) (T, error) {
	for _, row := range p.rows {
		if row.GetID() != id {
			continue
		}
		form, err := p.clone(row)
		if err != nil {
			var zero T
			return zero, err
		}
		p.state = StateEditing
		p.editingID = id
		p.fieldErrors = nil
		p.form = form
		return p.form, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s", ErrUnknownRecord, id)
}

// Cancel discards the form without touching the store
func (p *Page[T]) Cancel() {
	p.state = StateList
	p.closeForm()
}

// Save validates the form and then creates or updates the record.
// Validation failures and store failures both keep the form open with its input.
func (p *Page[T]) Save(ctx context.Context) error {
	if p.state != StateEditing {
		return ErrNotEditing
	}

	if errs := p.cfg.Validate(p.form); len(errs) > 0 {
		p.fieldErrors = errs
		return errs
	}
	p.fieldErrors = nil

	var err error
	if p.editingID == "" {
		_, err = p.store.Create(ctx, p.form)
	} else {
		var patch repository.Patch
		patch, err = repository.PatchFrom(p.form)
		if err == nil {
			err = p.store.Update(ctx, p.editingID, patch)
		}
	}
	if err != nil {
		p.hooks.log.Error().Err(err).Str("noun", p.cfg.Noun).Msg("Save failed")
		p.hooks.alert("Error saving " + p.cfg.Noun)
		return err
	}

	p.state = StateList
	p.closeForm()
	return p.reload(ctx)
}

// Delete removes the record after confirmation. A declined prompt changes nothing.
func (p *Page[T]) Delete(ctx context.Context, id string) (bool, error) {
	if !p.hooks.confirm(p.cfg.ConfirmPrompt) {
		return false, nil
	}
	if err := p.store.Delete(ctx, id); err != nil {
		p.hooks.log.Error().Err(err).Str("noun", p.cfg.Noun).Str("id", id).Msg("Delete failed")
		p.hooks.alert("Error deleting " + p.cfg.Noun)
		return false, err
	}
	return true, p.reload(ctx)
}

// GenerateDraft fills the form's content from its title. The store is never touched.
func (p *Page[T]) GenerateDraft(ctx context.Context) (draft.Result, error) {
	if p.cfg.Draft == nil || p.hooks.assistant == nil {
		return draft.Result{}, ErrDraftUnsupported
	}
	if p.state != StateEditing {
		return draft.Result{}, ErrNotEditing
	}

	title := p.cfg.Draft.Title(p.form)
	if title == "" {
		p.hooks.alert(TitleRequiredMessage)
		return draft.Result{}, ErrTitleRequired
	}

	res := p.hooks.assistant.Draft(ctx, title, p.cfg.Draft.Kind)
	p.cfg.Draft.SetContent(p.form, res.Text)
	return res, nil
}

func (p *Page[T]) reload(ctx context.Context) error {
	res := p.store.ListAll(ctx)
	p.rows = res.Records
	p.loadErr = res.Err
	return res.Err
}

func (p *Page[T]) closeForm() {
	var zero T
	p.form = zero
	p.editingID = ""
	p.fieldErrors = nil
}

func (p *Page[T]) clone(rec T) (T, error) {
	out := p.cfg.Blank()
	data, err := json.Marshal(rec)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, out)
	return out, err
}
