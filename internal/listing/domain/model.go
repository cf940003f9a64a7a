package domain

import "time"

// Default image used when a listing is created without an upload.
const (
	DefaultImageURL = "https://images.unsplash.com/photo-1625505826533-5c80aca7d157?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxzZWFyY2h8MTJ8fGdvYXxlbnwwfHwwfHx8MA%3D%3D&auto=format&fit=crop&w=800&q=60"
	DefaultImageKey = "default_image_name"
)

// GeoPoint is a resolved latitude/longitude pair. A listing carries either
// a complete point or none at all, never half of one.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ListingImage is the attachment pair handed back by the storage backend.
// After creation it is never empty: the default image stands in when no
// file was uploaded.
type ListingImage struct {
	URL        string `json:"url"`
	StorageKey string `json:"storage_key"`
}

// IsZero reports whether no image has been resolved yet.
func (i ListingImage) IsZero() bool {
	return i.URL == "" && i.StorageKey == ""
}

type Listing struct {
	ID          string
	OwnerID     string // set at creation, never reassigned
	Title       string
	Description string
	Price       float64
	Location    string
	Country     string
	Category    string
	Image       ListingImage
	Coordinates *GeoPoint
	ReviewIDs   []string // back-references only, never embedded
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// User is consumed read-only by the listing core: an opaque owner
// identifier plus the fields shown when a listing is expanded.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Review is referenced from a listing by identifier; the core never
// mutates reviews.
type Review struct {
	ID        string
	ListingID string
	AuthorID  string
	Rating    int32
	Comment   string
	CreatedAt time.Time
}

// ExpandedReview is a review with its author resolved for display.
type ExpandedReview struct {
	Review
	Author *User
}

// ExpandedListing is a listing with its owner and reviews resolved via
// explicit foreign-key lookups at read time.
type ExpandedListing struct {
	Listing
	Owner   *User
	Reviews []ExpandedReview
}
