package usecase

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/wanderstay/listing-service/internal/listing/domain"
)

// Validation rules live as struct tags so tests can enumerate them and
// they run once, before any persistence call.
var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateListingInput carries the submitted listing fields. The owner is
// deliberately not part of the input: it is always taken from the
// authenticated identity.
type CreateListingInput struct {
	Title       string  `validate:"required"`
	Description string  `validate:"max=2000"`
	Price       float64 `validate:"gte=0"`
	Location    string  `validate:"required"`
	Country     string
	Category    string
}

func (in CreateListingInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidListingData, err)
	}
	return nil
}

// UpdateListingInput is a partial-field merge: nil means "leave as is".
// Owner and identity have no representation here at all, so they cannot
// be smuggled through an update request.
type UpdateListingInput struct {
	Title       *string  `validate:"omitempty,min=1"`
	Description *string  `validate:"omitempty,max=2000"`
	Price       *float64 `validate:"omitempty,gte=0"`
	Location    *string  `validate:"omitempty,min=1"`
	Country     *string
	Category    *string
}

func (in UpdateListingInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidListingData, err)
	}
	return nil
}
