package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// KeyPrefix is prepended to collection names to form blob keys
const KeyPrefix = "ca_admin_"

// Blob is a key-value store holding one serialized value per key
type Blob interface {
	// Get returns the value for key; ok is false when the key was never set
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// KV is the "local" backend: each collection is a single JSON array stored
// under one blob key. Ids are generated client-side and new documents are
// prepended, so List returns newest first.
type KV struct {
	blob  Blob
	name  string
	now   func() time.Time
	newID func() string
	// serializes read-modify-write cycles on the blob
	mu sync.Mutex
}

// KVOption configures a KV backend
type KVOption func(*KV)

// WithClock overrides the time source used for createdAt/updatedAt
func WithClock(now func() time.Time) KVOption {
	return func(kv *KV) { kv.now = now }
}

// WithIDGenerator overrides the id generator
func WithIDGenerator(fn func() string) KVOption {
	return func(kv *KV) { kv.newID = fn }
}

// WithName sets the backend name reported in logs and metrics
func WithName(name string) KVOption {
	return func(kv *KV) { kv.name = name }
}

// NewKV creates a local backend over the given blob store
func NewKV(blob Blob, opts ...KVOption) *KV {
	kv := &KV{
		blob:  blob,
		name:  "local",
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(kv)
	}
	return kv
}

// KeyFor returns the blob key of a collection
func KeyFor(collection string) string {
	return KeyPrefix + collection
}

func (kv *KV) Name() string { return kv.name }

// List returns the collection in insertion order (newest first)
func (kv *KV) List(ctx context.Context, collection string) ([]Document, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return kv.load(ctx, collection)
}

// Insert assigns an id and createdAt and prepends the document
func (kv *KV) Insert(ctx context.Context, collection string, doc Document) (Document, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	docs, err := kv.load(ctx, collection)
	if err != nil {
		return nil, err
	}

	stored := doc.withoutMeta()
	stored[FieldID] = kv.newID()
	stored[FieldCreatedAt] = kv.now().UTC().Format(time.RFC3339Nano)

	docs = append([]Document{stored}, docs...)
	if err := kv.save(ctx, collection, docs); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// Patch merges fields into the matching document. An unknown id is a no-op.
func (kv *KV) Patch(ctx context.Context, collection, id string, fields Document) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	docs, err := kv.load(ctx, collection)
	if err != nil {
		return err
	}

	for i, doc := range docs {
		if doc.ID() != id {
			continue
		}
		merged := doc.Clone()
		for k, v := range fields.withoutMeta() {
			merged[k] = v
		}
		merged[FieldUpdatedAt] = kv.now().UTC().Format(time.RFC3339Nano)
		docs[i] = merged
		return kv.save(ctx, collection, docs)
	}
	return nil
}

// Remove filters the document out of the collection
func (kv *KV) Remove(ctx context.Context, collection, id string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	docs, err := kv.load(ctx, collection)
	if err != nil {
		return err
	}

	kept := docs[:0]
	for _, doc := range docs {
		if doc.ID() != id {
			kept = append(kept, doc)
		}
	}
	if len(kept) == len(docs) {
		return nil
	}
	return kv.save(ctx, collection, kept)
}

func (kv *KV) load(ctx context.Context, collection string) ([]Document, error) {
	data, ok, err := kv.blob.Get(ctx, KeyFor(collection))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	if !ok || len(data) == 0 {
		return []Document{}, nil
	}
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return docs, nil
}

func (kv *KV) save(ctx context.Context, collection string, docs []Document) error {
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := kv.blob.Set(ctx, KeyFor(collection), data); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	return nil
}
