package view

import (
	"github.com/agency-admin-api/internal/draft"
	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/validation"
)

var validator = validation.NewValidator()

func NewProjectsPage(store Store[*models.Project], opts ...Option) *Page[*models.Project] {
	return NewPage(store, Config[*models.Project]{
		Noun:          "project",
		ConfirmPrompt: "Are you sure you want to delete this project?",
		Blank:         models.NewProject,
		Validate:      validator.ValidateProject,
	}, opts...)
}

func NewBlogsPage(store Store[*models.Blog], opts ...Option) *Page[*models.Blog] {
	return NewPage(store, Config[*models.Blog]{
		Noun:          "blog post",
		ConfirmPrompt: "Delete this blog post?",
		Blank:         models.NewBlog,
		Validate:      validator.ValidateBlog,
		Draft: &DraftBinding[*models.Blog]{
			Kind:       draft.KindBlog,
			Title:      func(b *models.Blog) string { return b.Title },
			SetContent: func(b *models.Blog, s string) { b.Content = s },
		},
	}, opts...)
}

func NewJobsPage(store Store[*models.Job], opts ...Option) *Page[*models.Job] {
	return NewPage(store, Config[*models.Job]{
		Noun:          "job",
		ConfirmPrompt: "Remove this job listing?",
		Blank:         models.NewJob,
		Validate:      validator.ValidateJob,
		Draft: &DraftBinding[*models.Job]{
			Kind:       draft.KindJob,
			Title:      func(j *models.Job) string { return j.Role },
			SetContent: func(j *models.Job, s string) { j.Description = s },
		},
	}, opts...)
}

func NewTeamPage(store Store[*models.TeamMember], opts ...Option) *Page[*models.TeamMember] {
	return NewPage(store, Config[*models.TeamMember]{
		Noun:          "member",
		ConfirmPrompt: "Are you sure you want to delete this team member?",
		Blank:         models.NewTeamMember,
		Validate:      validator.ValidateTeamMember,
	}, opts...)
}

func NewServicesPage(store Store[*models.ServiceItem], opts ...Option) *Page[*models.ServiceItem] {
	return NewPage(store, Config[*models.ServiceItem]{
		Noun:          "service",
		ConfirmPrompt: "Delete this service?",
		Blank:         models.NewServiceItem,
		Validate:      validator.ValidateServiceItem,
	}, opts...)
}
