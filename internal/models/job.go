package models

import (
	"time"
)

// JobStatus represents whether a job listing accepts applications
type JobStatus string

const (
	JobStatusOpen   JobStatus = "Open"
	JobStatusClosed JobStatus = "Closed"
)

// JobType represents the engagement type of a job listing
type JobType string

const (
	JobTypeFullTime JobType = "Full-time"
	JobTypeContract JobType = "Contract"
	JobTypeRemote   JobType = "Remote"
)

// ValidJobStatuses defines allowed job statuses
var ValidJobStatuses = map[JobStatus]bool{
	JobStatusOpen:   true,
	JobStatusClosed: true,
}

// ValidJobTypes defines allowed job types
var ValidJobTypes = map[JobType]bool{
	JobTypeFullTime: true,
	JobTypeContract: true,
	JobTypeRemote:   true,
}

// Job represents a careers page listing
type Job struct {
	ID          string     `json:"id"`
	Role        string     `json:"role"`
	Location    string     `json:"location"`
	Type        JobType    `json:"type"`
	Status      JobStatus  `json:"status"`
	ImageURL    string     `json:"imageUrl"`
	Department  string     `json:"department"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// NewJob returns a job listing seeded with the form defaults
func NewJob() *Job {
	return &Job{Type: JobTypeFullTime, Status: JobStatusOpen}
}

func (j *Job) GetID() string      { return j.ID }
func (j *Job) Collection() string { return CollectionJobs }
