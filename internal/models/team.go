package models

import (
	"time"
)

// SocialLinks holds optional profile URLs of a team member
type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// TeamMember represents a person shown on the team page
type TeamMember struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Role        string       `json:"role"`
	Bio         string       `json:"bio"`
	ImageURL    string       `json:"imageUrl"`
	SocialLinks *SocialLinks `json:"socialLinks"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func NewTeamMember() *TeamMember { return &TeamMember{} }

func (m *TeamMember) GetID() string      { return m.ID }
func (m *TeamMember) Collection() string { return CollectionTeam }
