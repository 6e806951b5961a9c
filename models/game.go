package models

// GameSummary is the denormalized snapshot of a game cached on a cart item
// for display and pricing. Best-effort: it may be stale or absent when the
// lookup failed at add time.
type GameSummary struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Price     float64  `json:"price"`
	Developer string   `json:"developer,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Category  string   `json:"category,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
	IsActive  bool     `json:"is_active"`
}
