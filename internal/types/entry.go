package types

import "time"

// EntryDateLayout is the only accepted format for Entry.Date.
const EntryDateLayout = "2006-01-02"

// Entry is a single diary entry owned by one user.
type Entry struct {
	ID        int64     `json:"id" example:"7"`
	UserID    int64     `json:"user_id" example:"1"`
	Title     string    `json:"title" example:"Lisbon"`
	Content   string    `json:"content" example:"Tram 28 all the way up."`
	Date      string    `json:"date" example:"2024-05-01"`
	Location  string    `json:"location" example:"Lisbon, PT"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryRequest is the body for creating or rewriting an entry.
// UserID is optional; when present it must name the caller.
type EntryRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Date     string `json:"date"`
	Location string `json:"location"`
	UserID   *int64 `json:"UserID,omitempty"`
}
