package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/repository"
	"github.com/rs/zerolog"
)

// Export formats
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
	FormatCSV    = "csv"
)

// ContentTypes maps export formats to their MIME type
var ContentTypes = map[string]string{
	FormatNDJSON: "application/x-ndjson",
	FormatJSON:   "application/json",
	FormatCSV:    "text/csv",
}

// csvColumns lists the exported columns per resource; nested fields use dotted paths
var csvColumns = map[string][]string{
	"projects": {"id", "title", "client", "category", "status", "imageUrl", "date", "createdAt"},
	"blogs":    {"id", "title", "author", "status", "imageUrl", "date", "createdAt", "content"},
	"jobs":     {"id", "role", "department", "location", "type", "status", "imageUrl", "createdAt", "updatedAt", "description"},
	"team":     {"id", "name", "role", "bio", "imageUrl", "socialLinks.linkedin", "socialLinks.twitter", "socialLinks.github", "createdAt"},
	"services": {"id", "name", "description", "icon", "createdAt"},
}

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// Stream writes every record of resource to w in the given format and returns the count
func (s *exportService) Stream(ctx context.Context, w io.Writer, resource, format string) (int, error) {
	store, ok := s.repos.ByResource(resource)
	if !ok {
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
	if _, ok := ContentTypes[format]; !ok {
		return 0, fmt.Errorf("unsupported format: %s", format)
	}

	s.log.Info().Str("resource", resource).Str("format", format).Msg("Starting export")
	start := time.Now()

	records, err := store.Records(ctx)
	if err != nil {
		return 0, err
	}

	switch format {
	case FormatNDJSON:
		err = writeNDJSON(w, records)
	case FormatJSON:
		err = writeJSON(w, records)
	case FormatCSV:
		err = writeCSV(w, csvColumns[resource], records)
	}
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Str("resource", resource).
		Int("count", len(records)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("Export completed")
	return len(records), nil
}

// GetCount returns count for a resource
func (s *exportService) GetCount(ctx context.Context, resource string) (int, error) {
	store, ok := s.repos.ByResource(resource)
	if !ok {
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
	return store.Count(ctx)
}

func writeNDJSON(w io.Writer, records []models.Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeJSON(w io.Writer, records []models.Record) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("["); err != nil {
		return err
	}
	for i, rec := range records {
		if i > 0 {
			if _, err := bw.WriteString(","); err != nil {
				return err
			}
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("]"); err != nil {
		return err
	}
	return bw.Flush()
}

func writeCSV(w io.Writer, columns []string, records []models.Record) error {
	writer := csv.NewWriter(w)

	// Write header
	if err := writer.Write(columns); err != nil {
		return err
	}

	for _, rec := range records {
		fields, err := flatten(rec)
		if err != nil {
			return err
		}
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = fields[col]
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// flatten renders a record's JSON fields as strings keyed by dotted path
func flatten(rec models.Record) (map[string]string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(fields))
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			key := prefix + k
			switch val := v.(type) {
			case nil:
			case string:
				out[key] = val
			case map[string]any:
				walk(key+".", val)
			default:
				out[key] = fmt.Sprint(val)
			}
		}
	}
	walk("", fields)
	return out, nil
}
