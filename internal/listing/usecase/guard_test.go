package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wanderstay/listing-service/internal/listing/domain"
	"github.com/wanderstay/listing-service/internal/platform/logger"
)

func TestOwnershipGuard_Authorize_Owner(t *testing.T) {
	repo := new(MockListingRepository)
	guard := NewOwnershipGuard(repo, nil, logger.NewLogger())
	ctx := context.Background()

	repo.On("FindByID", ctx, "listing-1").Return(storedListing(), nil).Once()

	listing, err := guard.Authorize(ctx, "owner-1", "listing-1")

	assert.NoError(t, err)
	assert.Equal(t, "listing-1", listing.ID)
}

func TestOwnershipGuard_Authorize_NotOwner(t *testing.T) {
	repo := new(MockListingRepository)
	guard := NewOwnershipGuard(repo, nil, logger.NewLogger())
	ctx := context.Background()

	repo.On("FindByID", ctx, "listing-1").Return(storedListing(), nil).Once()

	_, err := guard.Authorize(ctx, "someone-else", "listing-1")

	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestOwnershipGuard_Authorize_Missing(t *testing.T) {
	repo := new(MockListingRepository)
	guard := NewOwnershipGuard(repo, nil, logger.NewLogger())
	ctx := context.Background()

	repo.On("FindByID", ctx, "ghost").Return(nil, domain.ErrListingNotFound).Once()

	_, err := guard.Authorize(ctx, "owner-1", "ghost")

	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestOwnershipGuard_CacheHitSkipsRepository(t *testing.T) {
	repo := new(MockListingRepository)
	cache := new(MockListingCache)
	guard := NewOwnershipGuard(repo, cache, logger.NewLogger())
	ctx := context.Background()

	cache.On("GetListing", ctx, "listing-1").Return(storedListing(), nil).Once()

	listing, err := guard.Authorize(ctx, "owner-1", "listing-1")

	assert.NoError(t, err)
	assert.Equal(t, "listing-1", listing.ID)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestOwnershipGuard_CacheFailureDegradesToRepository(t *testing.T) {
	repo := new(MockListingRepository)
	cache := new(MockListingCache)
	guard := NewOwnershipGuard(repo, cache, logger.NewLogger())
	ctx := context.Background()

	cache.On("GetListing", ctx, "listing-1").Return(nil, errors.New("redis: connection refused")).Once()
	repo.On("FindByID", ctx, "listing-1").Return(storedListing(), nil).Once()
	cache.On("SetListing", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()

	listing, err := guard.Authorize(ctx, "owner-1", "listing-1")

	assert.NoError(t, err)
	assert.Equal(t, "listing-1", listing.ID)
	repo.AssertExpectations(t)
}

func TestOwnershipGuard_CacheMissPopulatesCache(t *testing.T) {
	repo := new(MockListingRepository)
	cache := new(MockListingCache)
	guard := NewOwnershipGuard(repo, cache, logger.NewLogger())
	ctx := context.Background()

	cache.On("GetListing", ctx, "listing-1").Return(nil, nil).Once()
	repo.On("FindByID", ctx, "listing-1").Return(storedListing(), nil).Once()
	cache.On("SetListing", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()

	_, err := guard.Authorize(ctx, "owner-1", "listing-1")

	assert.NoError(t, err)
	cache.AssertExpectations(t)
}
