package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/repository"
	"github.com/agency-admin-api/internal/validation"
	"github.com/rs/zerolog"
)

// ContentService validates records before they reach the store
type ContentService[T models.Record] struct {
	repo     *repository.Repository[T]
	validate func(T) validation.Errors
	log      zerolog.Logger
}

// NewContentService creates a service over repo
func NewContentService[T models.Record](repo *repository.Repository[T], validate func(T) validation.Errors, log zerolog.Logger) *ContentService[T] {
	return &ContentService[T]{
		repo:     repo,
		validate: validate,
		log:      log.With().Str("service", repo.Collection()).Logger(),
	}
}

// Repository exposes the underlying repository
func (s *ContentService[T]) Repository() *repository.Repository[T] { return s.repo }

// List returns every record, newest first for the local backend
func (s *ContentService[T]) List(ctx context.Context) repository.ListResult[T] {
	return s.repo.ListAll(ctx)
}

// Get returns one record
func (s *ContentService[T]) Get(ctx context.Context, id string) (T, error) {
	return s.repo.Get(ctx, id)
}

// Create validates rec and stores it
func (s *ContentService[T]) Create(ctx context.Context, rec T) (T, error) {
	if errs := s.validate(rec); len(errs) > 0 {
		var zero T
		return zero, errs
	}
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return created, err
	}
	s.log.Info().Str("id", created.GetID()).Msg("Record created")
	return created, nil
}

// Update applies patch to an existing record after validating the merged result
func (s *ContentService[T]) Update(ctx context.Context, id string, patch repository.Patch) (T, error) {
	var zero T
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	merged, err := merge(current, patch)
	if err != nil {
		return zero, validation.Errors{{Field: "body", Message: err.Error()}}
	}
	if errs := s.validate(merged); len(errs) > 0 {
		return zero, errs
	}

	stored, err := knownFields(merged, patch)
	if err != nil {
		return zero, err
	}
	if err := s.repo.Update(ctx, id, stored); err != nil {
		return zero, err
	}
	s.log.Info().Str("id", id).Msg("Record updated")
	return s.repo.Get(ctx, id)
}

// Replace overwrites every editable field of the record with rec
func (s *ContentService[T]) Replace(ctx context.Context, id string, rec T) (T, error) {
	var zero T
	if errs := s.validate(rec); len(errs) > 0 {
		return zero, errs
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return zero, err
	}

	patch, err := repository.PatchFrom(rec)
	if err != nil {
		return zero, err
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return zero, err
	}
	s.log.Info().Str("id", id).Msg("Record replaced")
	return s.repo.Get(ctx, id)
}

// Delete removes the record. Deleting an absent record succeeds.
func (s *ContentService[T]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("Record deleted")
	return nil
}

// Fields owned by the store; the repository drops them from patches as well
var readOnlyFields = map[string]bool{"id": true, "date": true, "createdAt": true, "updatedAt": true}

// knownFields keeps the patch keys that belong to the record, with values taken from merged
func knownFields[T models.Record](merged T, patch repository.Patch) (repository.Patch, error) {
	full, err := repository.PatchFrom(merged)
	if err != nil {
		return nil, err
	}
	out := make(repository.Patch, len(patch))
	for k := range patch {
		if v, ok := full[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// merge applies patch to a copy of current through its JSON form
func merge[T models.Record](current T, patch repository.Patch) (T, error) {
	data, err := json.Marshal(current)
	if err != nil {
		return current, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return current, err
	}
	for k, v := range patch {
		if !readOnlyFields[k] {
			fields[k] = v
		}
	}
	data, err = json.Marshal(fields)
	if err != nil {
		return current, err
	}

	var merged T
	if err := json.Unmarshal(data, &merged); err != nil {
		return current, fmt.Errorf("invalid field value: %w", err)
	}
	return merged, nil
}
