package models

import "time"

// Collection names shared by every storage backend
const (
	CollectionProjects = "projects"
	CollectionBlogs    = "blogs"
	CollectionJobs     = "jobs"
	CollectionTeam     = "teamMembers"
	CollectionServices = "services"
)

// DisplayDateLayout is the layout of the human-readable "date" field
const DisplayDateLayout = "Jan 2, 2006"

// Record is implemented by every entity kept in a collection
type Record interface {
	GetID() string
	Collection() string
}

// Dated is implemented by records that carry a display date assigned at creation
type Dated interface {
	DisplayDate() string
	SetDate(t time.Time)
}

// ValidDisplayDate reports whether s is a date in DisplayDateLayout
func ValidDisplayDate(s string) bool {
	_, err := time.Parse(DisplayDateLayout, s)
	return err == nil
}

// Resources maps API resource names to collection names
var Resources = map[string]string{
	"projects": CollectionProjects,
	"blogs":    CollectionBlogs,
	"jobs":     CollectionJobs,
	"team":     CollectionTeam,
	"services": CollectionServices,
}

// ResourceNames lists the API resource names in display order
var ResourceNames = []string{"projects", "blogs", "jobs", "team", "services"}
