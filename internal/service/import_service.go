package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agency-admin-api/internal/config"
	"github.com/agency-admin-api/internal/repository"
	"github.com/agency-admin-api/internal/validation"
	"github.com/rs/zerolog"
)

// maxReportedErrors caps the errors kept in an ImportResult; failures beyond it are still counted
const maxReportedErrors = 1000

// ImportResult summarises one backup import
type ImportResult struct {
	Resource   string                       `json:"resource"`
	Total      int                          `json:"total"`
	Created    int                          `json:"created"`
	Failed     int                          `json:"failed"`
	DurationMs int64                        `json:"durationMs"`
	Errors     []validation.ValidationError `json:"errors,omitempty"`
}

// importService is the concrete implementation of ImportService
type importService struct {
	repos     *repository.Repositories
	cfg       *config.Config
	validator *validation.Validator
	log       zerolog.Logger
}

// newImportService creates a new ImportService
func newImportService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *importService {
	return &importService{
		repos:     repos,
		cfg:       cfg,
		validator: validation.NewValidator(),
		log:       log.With().Str("service", "import").Logger(),
	}
}

// Import reads NDJSON records for resource from r and creates the valid ones.
// Invalid lines are reported with their line number; a store failure stops the import.
func (s *importService) Import(ctx context.Context, resource string, r io.Reader) (*ImportResult, error) {
	store, ok := s.repos.ByResource(resource)
	if !ok {
		return nil, fmt.Errorf("unknown resource: %s", resource)
	}

	start := time.Now()
	result := &ImportResult{Resource: resource}
	s.log.Info().Str("resource", resource).Msg("Starting import")

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, s.maxLineSize())

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Total++

		rec := store.NewRecord()
		if err := json.Unmarshal([]byte(line), rec); err != nil {
			s.reject(result, validation.Errors{{Line: lineNum, Field: "json", Message: "invalid JSON: " + err.Error()}})
			continue
		}

		if errs := s.validator.Validate(rec); len(errs) > 0 {
			s.reject(result, errs.AtLine(lineNum))
			continue
		}

		if _, err := store.RestoreRecord(ctx, rec); err != nil {
			result.DurationMs = time.Since(start).Milliseconds()
			s.log.Error().Err(err).Str("resource", resource).Int("line", lineNum).Msg("Import aborted")
			return result, err
		}
		result.Created++
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("read import: %w", err)
	}

	result.DurationMs = time.Since(start).Milliseconds()
	s.log.Info().
		Str("resource", resource).
		Int("total", result.Total).
		Int("created", result.Created).
		Int("failed", result.Failed).
		Int64("duration_ms", result.DurationMs).
		Msg("Import completed")
	return result, nil
}

// maxLineSize bounds one NDJSON line to 1MB or the upload limit, whichever is smaller
func (s *importService) maxLineSize() int {
	size := 1024 * 1024
	if s.cfg != nil && s.cfg.Import.MaxUploadSize > 0 && s.cfg.Import.MaxUploadSize < int64(size) {
		size = int(s.cfg.Import.MaxUploadSize)
	}
	return size
}

func (s *importService) reject(result *ImportResult, errs validation.Errors) {
	result.Failed++
	for _, e := range errs {
		if len(result.Errors) >= maxReportedErrors {
			return
		}
		result.Errors = append(result.Errors, e)
	}
}
