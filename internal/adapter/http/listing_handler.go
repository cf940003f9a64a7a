package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wanderstay/listing-service/internal/adapter/http/middleware"
	"github.com/wanderstay/listing-service/internal/adapter/http/session"
	"github.com/wanderstay/listing-service/internal/listing/domain"
	"github.com/wanderstay/listing-service/internal/listing/usecase"
	"github.com/wanderstay/listing-service/internal/platform/logger"
)

const maxUploadSize = 10 << 20 // 10 MiB

// ListingService is the slice of the listing usecase the HTTP layer needs.
type ListingService interface {
	Create(ctx context.Context, ownerID string, in usecase.CreateListingInput, upload *usecase.ImageUpload) (*domain.Listing, error)
	Update(ctx context.Context, userID, listingID string, in usecase.UpdateListingInput, upload *usecase.ImageUpload) (*domain.Listing, error)
	Delete(ctx context.Context, userID, listingID string) error
	Show(ctx context.Context, listingID string) (*domain.ExpandedListing, error)
	List(ctx context.Context) ([]*domain.ExpandedListing, error)
	EditForm(ctx context.Context, userID, listingID string) (*usecase.EditView, error)
}

type ListingHandler struct {
	service  ListingService
	sessions *session.Manager
	logger   *logger.Logger
}

func NewListingHandler(service ListingService, sm *session.Manager, log *logger.Logger) *ListingHandler {
	return &ListingHandler{service: service, sessions: sm, logger: log.Named("listing_handler")}
}

// Index lists every listing with its owner preloaded.
func (h *ListingHandler) Index(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list listings", zap.Error(err))
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
		return
	}

	views := make([]listingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, toListingView(&l.Listing, l.Owner))
	}
	renderJSON(w, http.StatusOK, map[string]interface{}{"listings": views})
}

// NewForm serves the create form payload. The route exists so the form
// URL can sit behind the login requirement, matching the edit form.
func (h *ListingHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]interface{}{
		"categories": []string{"trending", "rooms", "iconic-cities", "mountains", "castles", "amazing-pools", "camping", "farms", "arctic"},
	})
}

// Show renders a single listing with its owner and reviews expanded.
func (h *ListingHandler) Show(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")

	expanded, err := h.service.Show(r.Context(), listingID)
	if errors.Is(err, domain.ErrListingNotFound) {
		h.sessions.AddFlash(w, r, session.FlashError, "Listing you requested for does not exist!")
		http.Redirect(w, r, "/listings", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.logger.Error("failed to show listing", zap.String("listing_id", listingID), zap.Error(err))
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
		return
	}

	renderJSON(w, http.StatusOK, toListingDetailView(expanded))
}

// Create handles the multipart create form. Validation and geocoding
// failures flash a message and send the user back to the form.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	if err := parseForm(r); err != nil {
		h.flashAndRedirect(w, r, "Invalid form submission.", "/listings/new")
		return
	}

	in := usecase.CreateListingInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
		Country:     r.FormValue("country"),
		Category:    r.FormValue("category"),
	}
	if rawPrice := r.FormValue("price"); rawPrice != "" {
		price, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil {
			h.flashAndRedirect(w, r, "Price must be a number.", "/listings/new")
			return
		}
		in.Price = price
	}

	upload, err := extractUpload(r)
	if err != nil {
		h.flashAndRedirect(w, r, "Only image files can be uploaded.", "/listings/new")
		return
	}

	created, err := h.service.Create(r.Context(), userID, in, upload)
	if err != nil {
		h.handleWriteError(w, r, err, "/listings/new")
		return
	}

	h.sessions.AddFlash(w, r, session.FlashSuccess, "Successfully created a new listing!")
	http.Redirect(w, r, "/listings/"+created.ID, http.StatusSeeOther)
}

// EditForm loads the listing for its owner and hands back a blurred
// preview of the current image.
func (h *ListingHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	listingID := chi.URLParam(r, "id")

	view, err := h.service.EditForm(r.Context(), userID, listingID)
	if err != nil {
		h.handleAccessError(w, r, err, listingID)
		return
	}

	renderJSON(w, http.StatusOK, map[string]interface{}{
		"listing":     toListingView(view.Listing, nil),
		"preview_url": view.PreviewURL,
	})
}

// Update applies a partial edit. Absent form fields leave the stored
// values alone; the uploaded file, when present, replaces the image.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	listingID := chi.URLParam(r, "id")
	editPath := "/listings/" + listingID + "/edit"

	if err := parseForm(r); err != nil {
		h.flashAndRedirect(w, r, "Invalid form submission.", editPath)
		return
	}

	in := usecase.UpdateListingInput{
		Title:       formField(r, "title"),
		Description: formField(r, "description"),
		Location:    formField(r, "location"),
		Country:     formField(r, "country"),
		Category:    formField(r, "category"),
	}
	if rawPrice := formField(r, "price"); rawPrice != nil {
		price, err := strconv.ParseFloat(*rawPrice, 64)
		if err != nil {
			h.flashAndRedirect(w, r, "Price must be a number.", editPath)
			return
		}
		in.Price = &price
	}

	upload, err := extractUpload(r)
	if err != nil {
		h.flashAndRedirect(w, r, "Only image files can be uploaded.", editPath)
		return
	}

	updated, err := h.service.Update(r.Context(), userID, listingID, in, upload)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) || errors.Is(err, domain.ErrNotOwner) {
			h.handleAccessError(w, r, err, listingID)
			return
		}
		h.handleWriteError(w, r, err, editPath)
		return
	}

	h.sessions.AddFlash(w, r, session.FlashSuccess, "Listing Updated!")
	http.Redirect(w, r, "/listings/"+updated.ID, http.StatusSeeOther)
}

// Delete removes the listing after the ownership check.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	listingID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, listingID); err != nil {
		h.handleAccessError(w, r, err, listingID)
		return
	}

	h.sessions.AddFlash(w, r, session.FlashSuccess, "Listing Deleted!")
	http.Redirect(w, r, "/listings", http.StatusSeeOther)
}

func (h *ListingHandler) handleWriteError(w http.ResponseWriter, r *http.Request, err error, formPath string) {
	switch {
	case errors.Is(err, domain.ErrLocationEmpty),
		errors.Is(err, domain.ErrLocationNotFound),
		errors.Is(err, domain.ErrGeocoderUnavailable):
		h.flashAndRedirect(w, r, "Invalid location. Please enter a valid address.", formPath)
	case errors.Is(err, domain.ErrInvalidListingData):
		h.flashAndRedirect(w, r, "Please fill out all required fields.", formPath)
	case errors.Is(err, domain.ErrUploadRejected):
		h.flashAndRedirect(w, r, "Only image files can be uploaded.", formPath)
	default:
		h.logger.Error("listing write failed", zap.Error(err))
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
	}
}

func (h *ListingHandler) handleAccessError(w http.ResponseWriter, r *http.Request, err error, listingID string) {
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		h.sessions.AddFlash(w, r, session.FlashError, "Listing you requested for does not exist!")
		http.Redirect(w, r, "/listings", http.StatusSeeOther)
	case errors.Is(err, domain.ErrNotOwner):
		h.sessions.AddFlash(w, r, session.FlashError, "You don't have permission to do that!")
		http.Redirect(w, r, "/listings/"+listingID, http.StatusSeeOther)
	default:
		h.logger.Error("listing access failed", zap.String("listing_id", listingID), zap.Error(err))
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
	}
}

func (h *ListingHandler) flashAndRedirect(w http.ResponseWriter, r *http.Request, message, target string) {
	h.sessions.AddFlash(w, r, session.FlashError, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// parseForm accepts both multipart and urlencoded bodies so the same
// handlers serve HTML forms with and without file inputs.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// formField reports a pointer only when the field was actually sent,
// so partial edits can tell "absent" from "cleared".
func formField(r *http.Request, key string) *string {
	if vals, ok := r.PostForm[key]; ok && len(vals) > 0 {
		return &vals[0]
	}
	return nil
}

// extractUpload reads the "listing_image" part, if any, and gates it on
// an image/* content type before the bytes go anywhere near storage.
// Without a new file the form's "existing_image" flag is implied: the
// stored image pair stays as it is.
func extractUpload(r *http.Request) (*usecase.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile("listing_image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domain.ErrUploadRejected
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &usecase.ImageUpload{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}
