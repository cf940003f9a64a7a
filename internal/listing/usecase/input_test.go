package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wanderstay/listing-service/internal/listing/domain"
)

func TestCreateListingInput_Validate(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		assert.NoError(t, validCreateInput().Validate())
	})

	t.Run("missing title rejected", func(t *testing.T) {
		in := validCreateInput()
		in.Title = ""
		assert.ErrorIs(t, in.Validate(), domain.ErrInvalidListingData)
	})

	t.Run("missing location rejected", func(t *testing.T) {
		in := validCreateInput()
		in.Location = ""
		assert.ErrorIs(t, in.Validate(), domain.ErrInvalidListingData)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		in := validCreateInput()
		in.Price = -1
		assert.ErrorIs(t, in.Validate(), domain.ErrInvalidListingData)
	})

	t.Run("oversized description rejected", func(t *testing.T) {
		in := validCreateInput()
		in.Description = strings.Repeat("a", 2001)
		assert.ErrorIs(t, in.Validate(), domain.ErrInvalidListingData)
	})
}

func TestUpdateListingInput_Validate(t *testing.T) {
	t.Run("all nil fields pass", func(t *testing.T) {
		assert.NoError(t, UpdateListingInput{}.Validate())
	})

	t.Run("empty title rejected", func(t *testing.T) {
		empty := ""
		assert.ErrorIs(t, UpdateListingInput{Title: &empty}.Validate(), domain.ErrInvalidListingData)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		price := -10.0
		assert.ErrorIs(t, UpdateListingInput{Price: &price}.Validate(), domain.ErrInvalidListingData)
	})
}
