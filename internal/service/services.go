package service

import (
	"context"
	"io"

	"github.com/agency-admin-api/internal/config"
	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/repository"
	"github.com/agency-admin-api/internal/validation"
	"github.com/rs/zerolog"
)

// ImportService defines the interface for backup imports
type ImportService interface {
	Import(ctx context.Context, resource string, r io.Reader) (*ImportResult, error)
}

// ExportService defines the interface for backup exports
type ExportService interface {
	Stream(ctx context.Context, w io.Writer, resource, format string) (int, error)
	GetCount(ctx context.Context, resource string) (int, error)
}

// StatsService defines the interface for dashboard totals
type StatsService interface {
	Stats(ctx context.Context) (*Stats, error)
}

// Services holds all service interfaces
type Services struct {
	Projects     *ContentService[*models.Project]
	Blogs        *ContentService[*models.Blog]
	Jobs         *ContentService[*models.Job]
	Team         *ContentService[*models.TeamMember]
	ServiceItems *ContentService[*models.ServiceItem]

	Import ImportService
	Export ExportService
	Stats  StatsService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	v := validation.NewValidator()
	return &Services{
		Projects:     NewContentService(repos.Projects, v.ValidateProject, log),
		Blogs:        NewContentService(repos.Blogs, v.ValidateBlog, log),
		Jobs:         NewContentService(repos.Jobs, v.ValidateJob, log),
		Team:         NewContentService(repos.Team, v.ValidateTeamMember, log),
		ServiceItems: NewContentService(repos.Services, v.ValidateServiceItem, log),
		Import:       newImportService(repos, cfg, log),
		Export:       newExportService(repos, log),
		Stats:        newStatsService(repos, log),
	}
}
