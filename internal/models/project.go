package models

import (
	"time"
)

// ProjectStatus is the lifecycle state of a portfolio project
type ProjectStatus string

const (
	ProjectStatusCompleted  ProjectStatus = "Completed"
	ProjectStatusInProgress ProjectStatus = "In Progress"
	ProjectStatusOnHold     ProjectStatus = "On Hold"
)

// ValidProjectStatuses defines allowed project statuses
var ValidProjectStatuses = map[ProjectStatus]bool{
	ProjectStatusCompleted:  true,
	ProjectStatusInProgress: true,
	ProjectStatusOnHold:     true,
}

// ValidProjectCategories defines the categories offered by the project form
var ValidProjectCategories = map[string]bool{
	"Web App":      true,
	"Mobile App":   true,
	"SaaS":         true,
	"UI/UX Design": true,
	"Branding":     true,
}

// Project represents a portfolio project
type Project struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Client    string        `json:"client"`
	Category  string        `json:"category"`
	Status    ProjectStatus `json:"status"`
	ImageURL  string        `json:"imageUrl"`
	Date      string        `json:"date,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// NewProject returns a project seeded with the form defaults
func NewProject() *Project {
	return &Project{Category: "Web App", Status: ProjectStatusInProgress}
}

func (p *Project) GetID() string       { return p.ID }
func (p *Project) Collection() string  { return CollectionProjects }
func (p *Project) SetDate(t time.Time) { p.Date = t.Format(DisplayDateLayout) }
func (p *Project) DisplayDate() string { return p.Date }
