package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/agency-admin-api/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Line    int         `json:"line,omitempty"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a set of field errors caught before any store call
type Errors []ValidationError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the names of the offending fields
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for _, v := range e {
		fields = append(fields, v.Field)
	}
	return fields
}

// AtLine returns a copy of the errors tagged with an input line number
func (e Errors) AtLine(line int) Errors {
	out := make(Errors, len(e))
	for i, v := range e {
		v.Line = line
		out[i] = v
	}
	return out
}

// Validator checks records against the rules of the admin forms
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// Validate dispatches on the record type. Unknown types pass.
func (v *Validator) Validate(rec models.Record) Errors {
	switch r := rec.(type) {
	case *models.Project:
		return v.ValidateProject(r)
	case *models.Blog:
		return v.ValidateBlog(r)
	case *models.Job:
		return v.ValidateJob(r)
	case *models.TeamMember:
		return v.ValidateTeamMember(r)
	case *models.ServiceItem:
		return v.ValidateServiceItem(r)
	}
	return nil
}

// ValidateProject validates a project record
func (v *Validator) ValidateProject(p *models.Project) Errors {
	var errors Errors

	errors = required(errors, "title", p.Title)
	errors = required(errors, "client", p.Client)

	if p.Category == "" {
		errors = append(errors, ValidationError{Field: "category", Message: "category is required"})
	} else if !models.ValidProjectCategories[p.Category] {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "invalid category, must be one of: Web App, Mobile App, SaaS, UI/UX Design, Branding",
			Value:   p.Category,
		})
	}

	if p.Status == "" {
		errors = append(errors, ValidationError{Field: "status", Message: "status is required"})
	} else if !models.ValidProjectStatuses[p.Status] {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "invalid status, must be one of: Completed, In Progress, On Hold",
			Value:   p.Status,
		})
	}

	return optionalURL(errors, "imageUrl", p.ImageURL)
}

// ValidateBlog validates a blog record
func (v *Validator) ValidateBlog(b *models.Blog) Errors {
	var errors Errors

	errors = required(errors, "title", b.Title)
	errors = required(errors, "author", b.Author)

	if b.Status == "" {
		errors = append(errors, ValidationError{Field: "status", Message: "status is required"})
	} else if !models.ValidBlogStatuses[b.Status] {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "invalid status, must be one of: Published, Draft",
			Value:   b.Status,
		})
	}

	// Published posts need a body; drafts may be empty until generated
	if b.Status == models.BlogStatusPublished && strings.TrimSpace(b.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "published posts must have content"})
	}

	return optionalURL(errors, "imageUrl", b.ImageURL)
}

// ValidateJob validates a job listing
func (v *Validator) ValidateJob(j *models.Job) Errors {
	var errors Errors

	errors = required(errors, "role", j.Role)
	errors = required(errors, "location", j.Location)

	if j.Type == "" {
		errors = append(errors, ValidationError{Field: "type", Message: "type is required"})
	} else if !models.ValidJobTypes[j.Type] {
		errors = append(errors, ValidationError{
			Field:   "type",
			Message: "invalid type, must be one of: Full-time, Contract, Remote",
			Value:   j.Type,
		})
	}

	if j.Status == "" {
		errors = append(errors, ValidationError{Field: "status", Message: "status is required"})
	} else if !models.ValidJobStatuses[j.Status] {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "invalid status, must be one of: Open, Closed",
			Value:   j.Status,
		})
	}

	return optionalURL(errors, "imageUrl", j.ImageURL)
}

// ValidateTeamMember validates a team member
func (v *Validator) ValidateTeamMember(m *models.TeamMember) Errors {
	var errors Errors

	errors = required(errors, "name", m.Name)
	errors = required(errors, "role", m.Role)
	errors = optionalURL(errors, "imageUrl", m.ImageURL)

	if m.SocialLinks != nil {
		errors = optionalURL(errors, "socialLinks.linkedin", m.SocialLinks.LinkedIn)
		errors = optionalURL(errors, "socialLinks.twitter", m.SocialLinks.Twitter)
		errors = optionalURL(errors, "socialLinks.github", m.SocialLinks.GitHub)
	}

	return errors
}

// ValidateServiceItem validates a service offering
func (v *Validator) ValidateServiceItem(s *models.ServiceItem) Errors {
	var errors Errors

	errors = required(errors, "name", s.Name)
	errors = required(errors, "description", s.Description)

	if s.Icon == "" {
		errors = append(errors, ValidationError{Field: "icon", Message: "icon is required"})
	} else if !models.ValidServiceIcons[s.Icon] {
		errors = append(errors, ValidationError{
			Field:   "icon",
			Message: "invalid icon, must be one of: Code, Smartphone, Cloud, Search",
			Value:   s.Icon,
		})
	}

	return errors
}

func required(errors Errors, field, value string) Errors {
	if strings.TrimSpace(value) == "" {
		return append(errors, ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)})
	}
	return errors
}

// optionalURL accepts an empty value or an absolute http(s) URL
func optionalURL(errors Errors, field, value string) Errors {
	if value == "" {
		return errors
	}
	if !isHTTPURL(value) {
		errors = append(errors, ValidationError{Field: field, Message: "must be an absolute http(s) URL", Value: value})
	}
	return errors
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
