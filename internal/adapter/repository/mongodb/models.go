package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wanderstay/listing-service/internal/listing/domain"
)

// Persistence documents. Domain entities stay free of bson tags; the
// mapping lives here.

type geoPointDocument struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

type listingImageDocument struct {
	URL        string `bson:"url"`
	StorageKey string `bson:"storage_key"`
}

type listingDocument struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty"`
	OwnerID     string                `bson:"owner_id"`
	Title       string                `bson:"title"`
	Description string                `bson:"description"`
	Price       float64               `bson:"price"`
	Location    string                `bson:"location"`
	Country     string                `bson:"country"`
	Category    string                `bson:"category"`
	Image       listingImageDocument  `bson:"image"`
	Coordinates *geoPointDocument     `bson:"coordinates,omitempty"`
	ReviewIDs   []string              `bson:"review_ids,omitempty"`
	CreatedAt   time.Time             `bson:"created_at"`
	UpdatedAt   time.Time             `bson:"updated_at"`
}

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
}

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID string             `bson:"listing_id"`
	AuthorID  string             `bson:"author_id"`
	Rating    int32              `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"created_at"`
}

// toListingDocument converts the domain Listing. An empty domain ID maps
// to NilObjectID so the repository can decide whether to generate one.
func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	docID := primitive.NilObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("toListingDocument: invalid ID format %q: %w", l.ID, err)
		}
	}

	var coords *geoPointDocument
	if l.Coordinates != nil {
		coords = &geoPointDocument{Latitude: l.Coordinates.Latitude, Longitude: l.Coordinates.Longitude}
	}

	return &listingDocument{
		ID:          docID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Country:     l.Country,
		Category:    l.Category,
		Image:       listingImageDocument{URL: l.Image.URL, StorageKey: l.Image.StorageKey},
		Coordinates: coords,
		ReviewIDs:   l.ReviewIDs,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	var coords *domain.GeoPoint
	if d.Coordinates != nil {
		coords = &domain.GeoPoint{Latitude: d.Coordinates.Latitude, Longitude: d.Coordinates.Longitude}
	}
	return &domain.Listing{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Location:    d.Location,
		Country:     d.Country,
		Category:    d.Category,
		Image:       domain.ListingImage{URL: d.Image.URL, StorageKey: d.Image.StorageKey},
		Coordinates: coords,
		ReviewIDs:   d.ReviewIDs,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toUserDocument(u *domain.User) (*userDocument, error) {
	if u == nil {
		return nil, nil
	}
	docID := primitive.NilObjectID
	if u.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, fmt.Errorf("toUserDocument: invalid ID format %q: %w", u.ID, err)
		}
	}
	return &userDocument{
		ID:           docID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}, nil
}

func toDomainUser(d *userDocument) *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

func toDomainReview(d *reviewDocument) *domain.Review {
	if d == nil {
		return nil
	}
	return &domain.Review{
		ID:        d.ID.Hex(),
		ListingID: d.ListingID,
		AuthorID:  d.AuthorID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
	}
}
