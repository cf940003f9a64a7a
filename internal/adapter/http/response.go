package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wanderstay/listing-service/internal/listing/domain"
)

// View types returned on the read paths. The HTML rendering layer proper
// lives outside this service; it consumes these payloads.

type imageView struct {
	URL        string `json:"url"`
	StorageKey string `json:"storage_key"`
}

type ownerView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type reviewView struct {
	ID        string     `json:"id"`
	Rating    int32      `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"created_at"`
	Author    *ownerView `json:"author,omitempty"`
}

type listingView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Location    string     `json:"location"`
	Country     string     `json:"country"`
	Category    string     `json:"category"`
	Image       imageView  `json:"image"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	Owner       *ownerView `json:"owner,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type listingDetailView struct {
	listingView
	Reviews []reviewView `json:"reviews"`
}

func toOwnerView(u *domain.User) *ownerView {
	if u == nil {
		return nil
	}
	return &ownerView{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toListingView(l *domain.Listing, owner *domain.User) listingView {
	view := listingView{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Country:     l.Country,
		Category:    l.Category,
		Image:       imageView{URL: l.Image.URL, StorageKey: l.Image.StorageKey},
		Owner:       toOwnerView(owner),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.Coordinates != nil {
		view.Latitude = &l.Coordinates.Latitude
		view.Longitude = &l.Coordinates.Longitude
	}
	return view
}

func toListingDetailView(l *domain.ExpandedListing) listingDetailView {
	view := listingDetailView{
		listingView: toListingView(&l.Listing, l.Owner),
		Reviews:     make([]reviewView, 0, len(l.Reviews)),
	}
	for _, rev := range l.Reviews {
		view.Reviews = append(view.Reviews, reviewView{
			ID:        rev.ID,
			Rating:    rev.Rating,
			Comment:   rev.Comment,
			CreatedAt: rev.CreatedAt,
			Author:    toOwnerView(rev.Author),
		})
	}
	return view
}

func renderJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
