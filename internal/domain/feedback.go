package domain

import "time"

// Feedback is a comment ("c") or feedback ("f") left through the site form.
type Feedback struct {
	ID          string    `json:"id"`
	Type        string    `json:"type" validate:"required,oneof=c f"`
	AuthorEmail string    `json:"author_email" validate:"required,email"`
	Place       string    `json:"place,omitempty" validate:"max=200"`
	Content     string    `json:"content" validate:"required,min=10,max=5000"`
	CommentedAt time.Time `json:"commented_at"`
}
