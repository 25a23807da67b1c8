// Package repository provides typed record access over a storage.Backend.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/agency-admin-api/internal/metrics"
	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/storage"
	"github.com/rs/zerolog"
)

// Patch is a partial set of fields applied by Update
type Patch map[string]any

// Fields that a caller may never overwrite
var reservedFields = []string{storage.FieldID, storage.FieldCreatedAt, storage.FieldUpdatedAt, "date"}

// PatchFrom builds a patch carrying every editable field of rec
func PatchFrom(rec models.Record) (Patch, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", rec.Collection(), err)
	}
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("encode %s: %w", rec.Collection(), err)
	}
	return p.editable(), nil
}

func (p Patch) editable() Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, f := range reservedFields {
		delete(out, f)
	}
	return out
}

// ListResult carries the records of a collection or the reason they could not be fetched.
// Records is never nil.
type ListResult[T models.Record] struct {
	Records []T
	Err     error
}

// Option configures a Repository
type Option func(*options)

type options struct {
	now     func() time.Time
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// WithClock sets the clock used for display dates
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger for store failures
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics records every store call
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// Repository is the typed adapter of one collection
type Repository[T models.Record] struct {
	backend    storage.Backend
	collection string
	newRecord  func() T
	opts       options
}

// New creates a repository for collection. newRecord returns an empty record to decode into.
func New[T models.Record](backend storage.Backend, collection string, newRecord func() T, opts ...Option) *Repository[T] {
	o := options{now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T]{backend: backend, collection: collection, newRecord: newRecord, opts: o}
}

// Collection returns the collection name
func (r *Repository[T]) Collection() string { return r.collection }

// Backend returns the backend name
func (r *Repository[T]) Backend() string { return r.backend.Name() }

// ListAll fetches the collection in backend order
func (r *Repository[T]) ListAll(ctx context.Context) ListResult[T] {
	start := time.Now()
	docs, err := r.backend.List(ctx, r.collection)
	r.observe("list", start, err)
	if err != nil {
		return ListResult[T]{Records: []T{}, Err: r.fail(storage.KindList, "list", err)}
	}

	records := make([]T, 0, len(docs))
	for _, doc := range docs {
		rec, err := r.decode(doc)
		if err != nil {
			return ListResult[T]{Records: []T{}, Err: r.fail(storage.KindList, "list", err)}
		}
		records = append(records, rec)
	}
	return ListResult[T]{Records: records}
}

// Create stores rec and returns it as persisted, with id and createdAt assigned
func (r *Repository[T]) Create(ctx context.Context, rec T) (T, error) {
	return r.create(ctx, rec, false)
}

// Restore is Create for records coming back from a backup: a valid display date is kept
func (r *Repository[T]) Restore(ctx context.Context, rec T) (T, error) {
	return r.create(ctx, rec, true)
}

func (r *Repository[T]) create(ctx context.Context, rec T, keepDate bool) (T, error) {
	var zero T
	if d, ok := any(rec).(models.Dated); ok {
		if !keepDate || !models.ValidDisplayDate(d.DisplayDate()) {
			d.SetDate(r.opts.now())
		}
	}

	doc, err := encode(rec)
	if err != nil {
		return zero, r.fail(storage.KindMutation, "create", err)
	}

	start := time.Now()
	stored, err := r.backend.Insert(ctx, r.collection, doc)
	r.observe("create", start, err)
	if err != nil {
		return zero, r.fail(storage.KindMutation, "create", err)
	}

	created, err := r.decode(stored)
	if err != nil {
		return zero, r.fail(storage.KindMutation, "create", err)
	}
	r.opts.log.Debug().Str("collection", r.collection).Str("id", created.GetID()).Msg("Record created")
	return created, nil
}

// Update merges patch into the record with the given id. Reserved fields are ignored.
func (r *Repository[T]) Update(ctx context.Context, id string, patch Patch) error {
	start := time.Now()
	err := r.backend.Patch(ctx, r.collection, id, storage.Document(patch.editable()))
	r.observe("update", start, err)
	if err != nil {
		return r.fail(storage.KindMutation, "update", err)
	}
	return nil
}

// Delete removes the record with the given id
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := r.backend.Remove(ctx, r.collection, id)
	r.observe("delete", start, err)
	if err != nil {
		return r.fail(storage.KindMutation, "delete", err)
	}
	return nil
}

// Get returns the record with the given id or storage.ErrNotFound
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	res := r.ListAll(ctx)
	if res.Err != nil {
		return zero, res.Err
	}
	for _, rec := range res.Records {
		if rec.GetID() == id {
			return rec, nil
		}
	}
	return zero, storage.ErrNotFound
}

// Count returns the number of records in the collection
func (r *Repository[T]) Count(ctx context.Context) (int, error) {
	res := r.ListAll(ctx)
	return len(res.Records), res.Err
}

// Records lists the collection as untyped records
func (r *Repository[T]) Records(ctx context.Context) ([]models.Record, error) {
	res := r.ListAll(ctx)
	out := make([]models.Record, 0, len(res.Records))
	for _, rec := range res.Records {
		out = append(out, rec)
	}
	return out, res.Err
}

// NewRecord returns an empty record with the form defaults
func (r *Repository[T]) NewRecord() models.Record { return r.newRecord() }

// CreateRecord is Create for callers that only hold a models.Record
func (r *Repository[T]) CreateRecord(ctx context.Context, rec models.Record) (models.Record, error) {
	typed, ok := rec.(T)
	if !ok {
		return nil, fmt.Errorf("record of type %T does not belong to %s", rec, r.collection)
	}
	return r.Create(ctx, typed)
}

// RestoreRecord is Restore for callers that only hold a models.Record
func (r *Repository[T]) RestoreRecord(ctx context.Context, rec models.Record) (models.Record, error) {
	typed, ok := rec.(T)
	if !ok {
		return nil, fmt.Errorf("record of type %T does not belong to %s", rec, r.collection)
	}
	return r.Restore(ctx, typed)
}

func (r *Repository[T]) decode(doc storage.Document) (T, error) {
	rec := r.newRecord()
	data, err := json.Marshal(doc)
	if err != nil {
		return rec, fmt.Errorf("decode %s document: %w", r.collection, err)
	}
	if err := json.Unmarshal(data, rec); err != nil {
		return rec, fmt.Errorf("decode %s document %s: %w", r.collection, doc.ID(), err)
	}
	return rec, nil
}

func encode(rec models.Record) (storage.Document, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var doc storage.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	delete(doc, storage.FieldID)
	delete(doc, storage.FieldCreatedAt)
	delete(doc, storage.FieldUpdatedAt)
	return doc, nil
}

func (r *Repository[T]) fail(kind storage.Kind, op string, err error) error {
	var se *storage.Error
	if errors.As(err, &se) {
		return err
	}
	r.opts.log.Error().
		Err(err).
		Str("collection", r.collection).
		Str("backend", r.backend.Name()).
		Str("op", op).
		Msg("Store operation failed")
	return &storage.Error{Kind: kind, Op: op, Collection: r.collection, Backend: r.backend.Name(), Err: err}
}

func (r *Repository[T]) observe(op string, start time.Time, err error) {
	r.opts.metrics.ObserveStore(r.collection, op, time.Since(start), err)
}
