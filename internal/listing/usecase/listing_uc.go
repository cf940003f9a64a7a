package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/wanderstay/listing-service/internal/adapter/messaging/nats"
	"github.com/wanderstay/listing-service/internal/listing/domain"
	"github.com/wanderstay/listing-service/internal/platform/logger"
	"github.com/wanderstay/listing-service/internal/platform/metrics"
)

// Geocoder resolves a free-text location in a single attempt.
type Geocoder interface {
	Resolve(ctx context.Context, locationText string) (domain.GeoPoint, error)
}

// EventPublisher broadcasts lifecycle events to interested services.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Mailer notifies an owner that their listing went live.
type Mailer interface {
	SendListingCreated(toEmail, listingTitle string) error
}

// ListingUsecase sequences authorization, geocoding, image resolution and
// persistence for each lifecycle operation. The authenticated identity is
// an explicit parameter on every mutating call; nothing is read from
// ambient state. Each request runs strictly sequentially, and persistence
// is always the last step, so a failure earlier in the sequence leaves no
// partial write behind.
type ListingUsecase struct {
	repo     domain.ListingRepository
	users    domain.UserRepository
	guard    *OwnershipGuard
	geocoder Geocoder
	storage  ImageStorage
	cache    ListingCache
	events   EventPublisher
	mailer   Mailer
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	users domain.UserRepository,
	guard *OwnershipGuard,
	geocoder Geocoder,
	storage ImageStorage,
	cache ListingCache,
	events EventPublisher,
	mailer Mailer,
	mm *metrics.MetricsManager,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:     repo,
		users:    users,
		guard:    guard,
		geocoder: geocoder,
		storage:  storage,
		cache:    cache,
		events:   events,
		mailer:   mailer,
		metrics:  mm,
		logger:   log,
	}
}

// EditView is the payload behind the edit form: the listing plus a
// blurred preview variant of its current image.
type EditView struct {
	Listing    *domain.Listing
	PreviewURL string
}

// Create geocodes the location, resolves the image (upload or default)
// and persists a listing owned by ownerID. A geocoding failure aborts
// before anything is written.
func (uc *ListingUsecase) Create(ctx context.Context, ownerID string, in CreateListingInput, upload *ImageUpload) (*domain.Listing, error) {
	uc.logger.Info("ListingUsecase.Create: creating new listing",
		zap.String("owner_id", ownerID), zap.String("title", in.Title))

	if err := in.Validate(); err != nil {
		return nil, err
	}

	point, err := uc.geocoder.Resolve(ctx, in.Location)
	if err != nil {
		uc.logger.Warn("ListingUsecase.Create: geocoding failed",
			zap.String("location", in.Location), zap.Error(err))
		return nil, err
	}

	image, err := uc.resolveImage(ctx, upload)
	if err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Location:    in.Location,
		Country:     in.Country,
		Category:    in.Category,
		Image:       image,
		Coordinates: &point,
	}
	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.Create: failed to persist listing",
			zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ListingsCreatedTotal.Inc()
	}
	uc.publish(ctx, nats.SubjectListingCreated, listing)
	uc.notifyOwner(ctx, listing)

	return listing, nil
}

// Update applies a partial-field merge after the ownership guard allows
// it. Geocoding reruns only when the location actually changed, with the
// same abort-before-write behavior as Create. Owner and identity fields
// are never merged, whatever the request carried.
func (uc *ListingUsecase) Update(ctx context.Context, userID, listingID string, in UpdateListingInput, upload *ImageUpload) (*domain.Listing, error) {
	uc.logger.Info("ListingUsecase.Update: updating listing",
		zap.String("listing_id", listingID), zap.String("user_id", userID))

	listing, err := uc.guard.Authorize(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	if in.Location != nil && *in.Location != listing.Location {
		point, err := uc.geocoder.Resolve(ctx, *in.Location)
		if err != nil {
			uc.logger.Warn("ListingUsecase.Update: geocoding failed",
				zap.String("listing_id", listingID), zap.String("location", *in.Location), zap.Error(err))
			return nil, err
		}
		listing.Location = *in.Location
		listing.Coordinates = &point
	}

	if in.Title != nil {
		listing.Title = *in.Title
	}
	if in.Description != nil {
		listing.Description = *in.Description
	}
	if in.Price != nil {
		listing.Price = *in.Price
	}
	if in.Country != nil {
		listing.Country = *in.Country
	}
	if in.Category != nil {
		listing.Category = *in.Category
	}

	// A new upload replaces the image; otherwise the stored pair is
	// carried forward whole, URL and storage key both.
	if upload != nil {
		image, err := uc.storage.Upload(ctx, upload.Filename, upload.ContentType, upload.Data)
		if err != nil {
			return nil, err
		}
		listing.Image = image
	}

	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.Update: failed to persist update",
			zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}

	uc.invalidate(ctx, listingID)
	if uc.metrics != nil {
		uc.metrics.ListingUpdatesTotal.Inc()
	}
	uc.publish(ctx, nats.SubjectListingUpdated, listing)

	return listing, nil
}

// Delete removes the listing after the ownership guard allows it and
// broadcasts the deletion so the review service can cascade.
func (uc *ListingUsecase) Delete(ctx context.Context, userID, listingID string) error {
	uc.logger.Info("ListingUsecase.Delete: deleting listing",
		zap.String("listing_id", listingID), zap.String("user_id", userID))

	listing, err := uc.guard.Authorize(ctx, userID, listingID)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, listingID); err != nil {
		uc.logger.Error("ListingUsecase.Delete: failed to delete listing",
			zap.String("listing_id", listingID), zap.Error(err))
		return err
	}

	uc.invalidate(ctx, listingID)
	if uc.metrics != nil {
		uc.metrics.ListingDeletesTotal.Inc()
	}
	uc.publish(ctx, nats.SubjectListingDeleted, listing)

	return nil
}

// Show returns the listing with owner, reviews and review authors
// expanded. A missing ID is a terminal outcome for the caller.
func (uc *ListingUsecase) Show(ctx context.Context, listingID string) (*domain.ExpandedListing, error) {
	listing, err := uc.repo.FindByIDExpanded(ctx, listingID)
	if err != nil {
		uc.logger.Warn("ListingUsecase.Show: lookup failed", zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}
	return listing, nil
}

// List returns all listings with owners expanded.
func (uc *ListingUsecase) List(ctx context.Context) ([]*domain.ExpandedListing, error) {
	return uc.repo.FindAllExpanded(ctx)
}

// EditForm runs the guard and hands back the listing together with the
// blurred preview URL for the form.
func (uc *ListingUsecase) EditForm(ctx context.Context, userID, listingID string) (*EditView, error) {
	listing, err := uc.guard.Authorize(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}
	return &EditView{
		Listing:    listing,
		PreviewURL: BlurredPreviewURL(listing.Image.URL),
	}, nil
}

func (uc *ListingUsecase) invalidate(ctx context.Context, listingID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteListing(ctx, listingID); err != nil {
		uc.logger.Warn("ListingUsecase: cache invalidation failed", zap.String("listing_id", listingID), zap.Error(err))
	}
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, listing *domain.Listing) {
	if uc.events == nil {
		return
	}
	event := nats.ListingEvent{ListingID: listing.ID, OwnerID: listing.OwnerID}
	if err := uc.events.Publish(ctx, subject, event); err != nil {
		uc.logger.Warn("ListingUsecase: event publish failed",
			zap.String("subject", subject), zap.String("listing_id", listing.ID), zap.Error(err))
	}
}

// notifyOwner sends the listing-created email without blocking the
// request.
func (uc *ListingUsecase) notifyOwner(ctx context.Context, listing *domain.Listing) {
	if uc.mailer == nil || uc.users == nil {
		return
	}
	owner, err := uc.users.FindByID(ctx, listing.OwnerID)
	if err != nil {
		uc.logger.Warn("ListingUsecase.notifyOwner: owner lookup failed",
			zap.String("owner_id", listing.OwnerID), zap.Error(err))
		return
	}
	title := listing.Title
	email := owner.Email
	go func() {
		if err := uc.mailer.SendListingCreated(email, title); err != nil {
			uc.logger.Warn("ListingUsecase.notifyOwner: email send failed",
				zap.String("email", email), zap.Error(err))
		}
	}()
}
