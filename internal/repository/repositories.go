package repository

import (
	"context"

	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/storage"
)

// RecordStore is the untyped view of a repository used by bulk operations
type RecordStore interface {
	Collection() string
	Backend() string
	Count(ctx context.Context) (int, error)
	Records(ctx context.Context) ([]models.Record, error)
	NewRecord() models.Record
	CreateRecord(ctx context.Context, rec models.Record) (models.Record, error)
	RestoreRecord(ctx context.Context, rec models.Record) (models.Record, error)
}

// Repositories holds one repository per collection
type Repositories struct {
	Projects *Repository[*models.Project]
	Blogs    *Repository[*models.Blog]
	Jobs     *Repository[*models.Job]
	Team     *Repository[*models.TeamMember]
	Services *Repository[*models.ServiceItem]
}

// NewRepositories creates all repositories. Services may live on their own backend.
func NewRepositories(content, services storage.Backend, opts ...Option) *Repositories {
	if services == nil {
		services = content
	}
	return &Repositories{
		Projects: New(content, models.CollectionProjects, models.NewProject, opts...),
		Blogs:    New(content, models.CollectionBlogs, models.NewBlog, opts...),
		Jobs:     New(content, models.CollectionJobs, models.NewJob, opts...),
		Team:     New(content, models.CollectionTeam, models.NewTeamMember, opts...),
		Services: New(services, models.CollectionServices, models.NewServiceItem, opts...),
	}
}

// ByResource returns the repository behind an API resource name
func (r *Repositories) ByResource(resource string) (RecordStore, bool) {
	switch resource {
	case "projects":
		return r.Projects, true
	case "blogs":
		return r.Blogs, true
	case "jobs":
		return r.Jobs, true
	case "team":
		return r.Team, true
	case "services":
		return r.Services, true
	}
	return nil, false
}
