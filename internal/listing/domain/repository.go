package domain

import "context"

// ListingRepository owns persistence of Listing records and the
// join-expanded read paths. Expansion is done with explicit foreign-key
// lookups (listing -> owner, listing -> reviews -> authors), never lazy
// loading.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindByIDExpanded(ctx context.Context, id string) (*ExpandedListing, error)
	FindAllExpanded(ctx context.Context) ([]*ExpandedListing, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// ReviewRepository is read-only from the listing core's point of view.
type ReviewRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]*Review, error)
}
