package types

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Technologies []string  `json:"technologies"`
	GithubURL    *string   `json:"githubUrl,omitempty"`
	LiveURL      *string   `json:"liveUrl,omitempty"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateProjectParams struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Technologies []string `json:"technologies"`
	GithubURL    *string  `json:"githubUrl,omitempty"`
	LiveURL      *string  `json:"liveUrl,omitempty"`
	Featured     bool     `json:"featured"`
}

type UpdateProjectParams struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Image        *string   `json:"image,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
	GithubURL    *string   `json:"githubUrl,omitempty"`
	LiveURL      *string   `json:"liveUrl,omitempty"`
	Featured     *bool     `json:"featured,omitempty"`
}
