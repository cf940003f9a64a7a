package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/wanderstay/listing-service/internal/listing/domain"
	"github.com/wanderstay/listing-service/internal/platform/logger"
)

// ListingCache is the optional read cache in front of listing lookups.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id string) error
}

// OwnershipGuard decides whether an identity may mutate a listing. It is
// invoked strictly before update, delete and edit-form rendering; reads
// and create bypass it.
type OwnershipGuard struct {
	repo   domain.ListingRepository
	cache  ListingCache
	logger *logger.Logger
}

func NewOwnershipGuard(repo domain.ListingRepository, cache ListingCache, log *logger.Logger) *OwnershipGuard {
	return &OwnershipGuard{repo: repo, cache: cache, logger: log}
}

// Authorize looks the listing up and compares its owner to the identity.
// It returns the listing on success so callers don't fetch it twice.
// An absent listing yields domain.ErrListingNotFound, an owner mismatch
// domain.ErrNotOwner.
func (g *OwnershipGuard) Authorize(ctx context.Context, userID, listingID string) (*domain.Listing, error) {
	listing, err := g.lookup(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != userID {
		g.logger.Warn("OwnershipGuard.Authorize: denied, not the owner",
			zap.String("listing_id", listingID),
			zap.String("listing_owner_id", listing.OwnerID),
			zap.String("user_id", userID))
		return nil, domain.ErrNotOwner
	}
	return listing, nil
}

// lookup goes through the cache when one is configured; cache failures
// degrade to a repository read.
func (g *OwnershipGuard) lookup(ctx context.Context, listingID string) (*domain.Listing, error) {
	if g.cache != nil {
		cached, err := g.cache.GetListing(ctx, listingID)
		if err != nil {
			g.logger.Warn("OwnershipGuard.lookup: cache read failed", zap.String("listing_id", listingID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	listing, err := g.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if g.cache != nil {
		if err := g.cache.SetListing(ctx, listing); err != nil {
			g.logger.Warn("OwnershipGuard.lookup: cache write failed", zap.String("listing_id", listingID), zap.Error(err))
		}
	}
	return listing, nil
}
