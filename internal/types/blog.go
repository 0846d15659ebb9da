package types

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is the outward shape of a post. Legacy documents may lack
// slug/content/published in the store; the repository resolves those
// before a post crosses this boundary.
type BlogPost struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Slug      string      `json:"slug"`
	Content   string      `json:"content"`
	Excerpt   string      `json:"excerpt"`
	Image     string      `json:"image"`
	Tags      []string    `json:"tags"`
	Published bool        `json:"published"`
	Author    *PostAuthor `json:"author,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type PostAuthor struct {
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

type CreateBlogPostParams struct {
	Title     string      `json:"title"`
	Slug      string      `json:"slug,omitempty"`
	Content   string      `json:"content"`
	Excerpt   string      `json:"excerpt"`
	Image     string      `json:"image"`
	Tags      []string    `json:"tags"`
	Published *bool       `json:"published,omitempty"`
	Author    *PostAuthor `json:"author,omitempty"`
}

type UpdateBlogPostParams struct {
	Title     *string     `json:"title,omitempty"`
	Content   *string     `json:"content,omitempty"`
	Excerpt   *string     `json:"excerpt,omitempty"`
	Image     *string     `json:"image,omitempty"`
	Tags      *[]string   `json:"tags,omitempty"`
	Published *bool       `json:"published,omitempty"`
	Author    *PostAuthor `json:"author,omitempty"`
}
