package domain

import "time"

// CarouselSlide is one image of the homepage carousel. Slides are shown by
// ascending Position, which runs 0..n-1 without gaps.
type CarouselSlide struct {
	ID         string    `json:"id"`
	ImageURL   string    `json:"imageUrl"`
	Caption    string    `json:"caption,omitempty"`
	ShowButton bool      `json:"showButton"`
	ButtonURL  string    `json:"buttonUrl,omitempty"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Announcement is the banner text shown above the storefront header.
type Announcement struct {
	Text      string    `json:"text"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updatedAt"`
}
