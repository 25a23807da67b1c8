package service

import (
	"context"
	"errors"

	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/repository"
	"github.com/rs/zerolog"
)

// Stats are the dashboard totals
type Stats struct {
	TotalProjects int `json:"totalProjects"`
	TotalBlogs    int `json:"totalBlogs"`
	OpenJobs      int `json:"openJobs"`
	TeamMembers   int `json:"teamMembers"`
	Services      int `json:"services"`
}

type statsService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newStatsService(repos *repository.Repositories, log zerolog.Logger) *statsService {
	return &statsService{
		repos: repos,
		log:   log.With().Str("service", "stats").Logger(),
	}
}

// Stats counts every collection. A failed collection is reported as zero and
// its error joined into the returned error.
func (s *statsService) Stats(ctx context.Context) (*Stats, error) {
	var errs []error
	count := func(n int, err error) int {
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}

	stats := &Stats{
		TotalProjects: count(s.repos.Projects.Count(ctx)),
		TotalBlogs:    count(s.repos.Blogs.Count(ctx)),
		TeamMembers:   count(s.repos.Team.Count(ctx)),
		Services:      count(s.repos.Services.Count(ctx)),
	}

	jobs := s.repos.Jobs.ListAll(ctx)
	if jobs.Err != nil {
		errs = append(errs, jobs.Err)
	}
	for _, j := range jobs.Records {
		if j.Status == models.JobStatusOpen {
			stats.OpenJobs++
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		s.log.Error().Err(err).Msg("Stats incomplete")
	}
	return stats, err
}
