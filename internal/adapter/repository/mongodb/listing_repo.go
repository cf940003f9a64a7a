package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wanderstay/listing-service/internal/listing/domain"
)

// ListingRepository is the Mongo-backed listing store. It owns the
// listings collection and performs the read-time owner/review expansion
// with explicit lookups against the users and reviews collections.
type ListingRepository struct {
	listings *mongo.Collection
	users    *mongo.Collection
	reviews  *ReviewRepository
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{
		listings: db.Collection("listings"),
		users:    db.Collection("users"),
		reviews:  NewReviewRepository(db),
	}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.listings.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("inserting listing: %w", err)
	}

	listing.ID = doc.ID.Hex()
	listing.CreatedAt = doc.CreatedAt
	listing.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return domain.ErrListingNotFound
	}
	doc.UpdatedAt = time.Now().UTC()

	res, err := r.listings.UpdateByID(ctx, doc.ID, bson.M{"$set": bson.M{
		"title":       doc.Title,
		"description": doc.Description,
		"price":       doc.Price,
		"location":    doc.Location,
		"country":     doc.Country,
		"category":    doc.Category,
		"image":       doc.Image,
		"coordinates": doc.Coordinates,
		"updated_at":  doc.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("updating listing %s: %w", listing.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}

	listing.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.listings.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("deleting listing %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}
	var doc listingDocument
	if err := r.listings.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("finding listing %s: %w", id, err)
	}
	return toDomainListing(&doc), nil
}

// FindByIDExpanded resolves the owner, the reviews referenced by the
// listing, and each review's author.
func (r *ListingRepository) FindByIDExpanded(ctx context.Context, id string) (*domain.ExpandedListing, error) {
	listing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expanded := &domain.ExpandedListing{Listing: *listing}

	expanded.Owner, err = r.lookupUser(ctx, listing.OwnerID)
	if err != nil {
		return nil, err
	}

	reviews, err := r.reviews.FindByIDs(ctx, listing.ReviewIDs)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(reviews))
	for _, rev := range reviews {
		authorIDs = append(authorIDs, rev.AuthorID)
	}
	authors, err := r.lookupUsers(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	expanded.Reviews = make([]domain.ExpandedReview, 0, len(reviews))
	for _, rev := range reviews {
		expanded.Reviews = append(expanded.Reviews, domain.ExpandedReview{
			Review: *rev,
			Author: authors[rev.AuthorID],
		})
	}
	return expanded, nil
}

// FindAllExpanded returns every listing with its owner batch-loaded.
// Reviews are left unexpanded on the list view.
func (r *ListingRepository) FindAllExpanded(ctx context.Context) ([]*domain.ExpandedListing, error) {
	cursor, err := r.listings.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing all listings: %w", err)
	}
	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding listings: %w", err)
	}

	ownerIDs := make([]string, 0, len(docs))
	for i := range docs {
		ownerIDs = append(ownerIDs, docs[i].OwnerID)
	}
	owners, err := r.lookupUsers(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	expanded := make([]*domain.ExpandedListing, 0, len(docs))
	for i := range docs {
		listing := toDomainListing(&docs[i])
		expanded = append(expanded, &domain.ExpandedListing{
			Listing: *listing,
			Owner:   owners[listing.OwnerID],
		})
	}
	return expanded, nil
}

func (r *ListingRepository) lookupUser(ctx context.Context, id string) (*domain.User, error) {
	users, err := r.lookupUsers(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return users[id], nil
}

// lookupUsers batch-loads users keyed by hex ID. Unknown IDs are simply
// absent from the result map.
func (r *ListingRepository) lookupUsers(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}
	result := make(map[string]*domain.User, len(objectIDs))
	if len(objectIDs) == 0 {
		return result, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("looking up users: %w", err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	for i := range docs {
		user := toDomainUser(&docs[i])
		result[user.ID] = user
	}
	return result, nil
}

