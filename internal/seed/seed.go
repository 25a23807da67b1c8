// Package seed loads the built-in starter catalog and applies it to empty collections.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/repository"
	"github.com/agency-admin-api/internal/storage"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultCatalog []byte

// Catalog is the starter content
type Catalog struct {
	Projects []*models.Project
	Blogs    []*models.Blog
	Services []*models.ServiceItem

	services []storage.Document
}

// Load parses the embedded catalog
func Load() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse reads a catalog from YAML
func Parse(data []byte) (*Catalog, error) {
	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}

	c := &Catalog{}
	if err := decode(raw[models.CollectionProjects], &c.Projects); err != nil {
		return nil, fmt.Errorf("seed projects: %w", err)
	}
	if err := decode(raw[models.CollectionBlogs], &c.Blogs); err != nil {
		return nil, fmt.Errorf("seed blogs: %w", err)
	}
	if err := decode(raw[models.CollectionServices], &c.Services); err != nil {
		return nil, fmt.Errorf("seed services: %w", err)
	}
	for _, s := range raw[models.CollectionServices] {
		c.services = append(c.services, storage.Document(s))
	}
	return c, nil
}

// decode goes through JSON so the models' json tags apply
func decode(items []map[string]any, out any) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// ServiceDocuments returns the services as documents for a read-only backend
func (c *Catalog) ServiceDocuments() map[string][]storage.Document {
	docs := make([]storage.Document, len(c.services))
	for i, d := range c.services {
		docs[i] = d.Clone()
	}
	return map[string][]storage.Document{models.CollectionServices: docs}
}

// Report counts the records created per collection
type Report map[string]int

// Apply creates the catalog's records in every collection that is currently empty.
// Collections that already hold data, or refuse writes, are left alone.
func Apply(ctx context.Context, repos *repository.Repositories, c *Catalog, log zerolog.Logger) (Report, error) {
	report := Report{}

	n, err := seedCollection(ctx, repos.Projects, c.Projects)
	if err != nil {
		return report, err
	}
	report[models.CollectionProjects] = n

	n, err = seedCollection(ctx, repos.Blogs, c.Blogs)
	if err != nil {
		return report, err
	}
	report[models.CollectionBlogs] = n

	n, err = seedCollection(ctx, repos.Services, c.Services)
	if errors.Is(err, storage.ErrReadOnly) {
		log.Debug().Str("collection", models.CollectionServices).Msg("Skipping seed of read-only collection")
		err = nil
	}
	if err != nil {
		return report, err
	}
	report[models.CollectionServices] = n

	log.Info().
		Int("projects", report[models.CollectionProjects]).
		Int("blogs", report[models.CollectionBlogs]).
		Int("services", report[models.CollectionServices]).
		Msg("Seed applied")
	return report, nil
}

func seedCollection[T models.Record](ctx context.Context, repo *repository.Repository[T], records []T) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	// Insert in reverse so the prepend order leaves the first entry on top
	created := 0
	for i := len(records) - 1; i >= 0; i-- {
		if _, err := repo.Create(ctx, records[i]); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
