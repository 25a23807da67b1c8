package models

import (
	"time"
)

// ValidServiceIcons defines the icon references the website can render
var ValidServiceIcons = map[string]bool{
	"Code":       true,
	"Smartphone": true,
	"Cloud":      true,
	"Search":     true,
}

// ServiceItem represents an offering displayed on the website
type ServiceItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewServiceItem() *ServiceItem { return &ServiceItem{Icon: "Code"} }

func (s *ServiceItem) GetID() string      { return s.ID }
func (s *ServiceItem) Collection() string { return CollectionServices }
