package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wanderstay/listing-service/internal/adapter/http/session"
	"github.com/wanderstay/listing-service/internal/listing/domain"
	"github.com/wanderstay/listing-service/internal/listing/usecase"
	"github.com/wanderstay/listing-service/internal/platform/logger"
)

type MockListingService struct{ mock.Mock }

func (m *MockListingService) Create(ctx context.Context, ownerID string, in usecase.CreateListingInput, upload *usecase.ImageUpload) (*domain.Listing, error) {
	args := m.Called(ctx, ownerID, in, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) Update(ctx context.Context, userID, listingID string, in usecase.UpdateListingInput, upload *usecase.ImageUpload) (*domain.Listing, error) {
	args := m.Called(ctx, userID, listingID, in, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) Delete(ctx context.Context, userID, listingID string) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockListingService) Show(ctx context.Context, listingID string) (*domain.ExpandedListing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpandedListing), args.Error(1)
}
func (m *MockListingService) List(ctx context.Context) ([]*domain.ExpandedListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ExpandedListing), args.Error(1)
}
func (m *MockListingService) EditForm(ctx context.Context, userID, listingID string) (*usecase.EditView, error) {
	args := m.Called(ctx, userID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.EditView), args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

type testEnv struct {
	router   http.Handler
	listings *MockListingService
	users    *MockUserService
	sessions *session.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewLogger()
	sm := session.NewManager("test-session-secret")
	listings := new(MockListingService)
	users := new(MockUserService)
	router := NewRouter("listing_service_test",
		NewListingHandler(listings, sm, log),
		NewUserHandler(users, sm, log),
		sm, "test-jwt-secret", nil, log)
	return &testEnv{router: router, listings: listings, users: users, sessions: sm}
}

// sessionCookie produces a cookie carrying a logged-in session.
func sessionCookie(t *testing.T, sm *session.Manager, userID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, sm.SetCurrentUser(rec, req, userID))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// multipartRequest builds a listing form body with an optional file part.
func multipartRequest(t *testing.T, target string, fields map[string]string, fileName, fileContentType string, fileData []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="listing_image"; filename="`+fileName+`"`)
		header.Set("Content-Type", fileContentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestListingHandler_Show_NotFoundRedirects(t *testing.T) {
	env := newTestEnv(t)
	env.listings.On("Show", mock.Anything, "ghost").Return(nil, domain.ErrListingNotFound).Once()

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/ghost", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings", rec.Header().Get("Location"))
}

func TestListingHandler_Show_Success(t *testing.T) {
	env := newTestEnv(t)
	expanded := &domain.ExpandedListing{
		Listing: domain.Listing{
			ID: "listing-1", OwnerID: "owner-1", Title: "Cottage",
			Coordinates: &domain.GeoPoint{Latitude: 48.8566, Longitude: 2.3522},
		},
		Owner: &domain.User{ID: "owner-1", Username: "alice", Email: "alice@example.com"},
	}
	env.listings.On("Show", mock.Anything, "listing-1").Return(expanded, nil).Once()

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/listing-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"id":"listing-1"`)
	assert.Contains(t, body, `"latitude":48.8566`)
	assert.Contains(t, body, `"username":"alice"`)
}

func TestListingHandler_Create_AnonymousRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, formRequest(http.MethodPost, "/listings", url.Values{"title": {"x"}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	env.listings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListingHandler_Create_Success(t *testing.T) {
	env := newTestEnv(t)
	env.listings.On("Create", mock.Anything, "user-42", mock.MatchedBy(func(in usecase.CreateListingInput) bool {
		return in.Title == "Cottage" && in.Location == "Paris, France" && in.Price == 1500
	}), (*usecase.ImageUpload)(nil)).Return(&domain.Listing{ID: "listing-9", OwnerID: "user-42"}, nil).Once()

	req := formRequest(http.MethodPost, "/listings", url.Values{
		"title":    {"Cottage"},
		"location": {"Paris, France"},
		"country":  {"France"},
		"price":    {"1500"},
	})
	req.AddCookie(sessionCookie(t, env.sessions, "user-42"))

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings/listing-9", rec.Header().Get("Location"))
	env.listings.AssertExpectations(t)
}

func TestListingHandler_Create_WithUpload(t *testing.T) {
	env := newTestEnv(t)
	env.listings.On("Create", mock.Anything, "user-42", mock.Anything, mock.MatchedBy(func(up *usecase.ImageUpload) bool {
		return up != nil && up.Filename == "villa.jpg" && up.ContentType == "image/jpeg"
	})).Return(&domain.Listing{ID: "listing-9"}, nil).Once()

	req := multipartRequest(t, "/listings", map[string]string{
		"title":    "Villa",
		"location": "Rome, Italy",
		"price":    "900",
	}, "villa.jpg", "image/jpeg", []byte("jpegdata"))
	req.AddCookie(sessionCookie(t, env.sessions, "user-42"))

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	env.listings.AssertExpectations(t)
}

func TestListingHandler_Create_RejectsNonImageUpload(t *testing.T) {
	env := newTestEnv(t)

	req := multipartRequest(t, "/listings", map[string]string{
		"title":    "Villa",
		"location": "Rome, Italy",
	}, "notes.txt", "text/plain", []byte("plain text"))
	req.AddCookie(sessionCookie(t, env.sessions, "user-42"))

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings/new", rec.Header().Get("Location"))
	env.listings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListingHandler_Create_InvalidLocationRedirectsBack(t *testing.T) {
	env := newTestEnv(t)
	env.listings.On("Create", mock.Anything, "user-42", mock.Anything, (*usecase.ImageUpload)(nil)).
		Return(nil, domain.ErrLocationNotFound).Once()

	req := formRequest(http.MethodPost, "/listings", url.Values{
		"title":    {"Cottage"},
		"location": {"Nowhereville"},
	})
	req.AddCookie(sessionCookie(t, env.sessions, "user-42"))

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings/new", rec.Header().Get("Location"))
}

func TestListingHandler_Update_MethodOverrideAndPartialFields(t *testing.T) {
	env := newTestEnv(t)
	env.listings.On("Update", mock.Anything, "owner-1", "listing-1", mock.MatchedBy(func(in usecase.UpdateListingInput) bool {
		return in.Title != nil && *in.Title == "New Title" &&
			in.Location == nil && in.Price == nil
	}), (*usecase.ImageUpload)(nil)).Return(&domain.Listing{ID: "listing-1", OwnerID: "owner-1"}, nil).Once()

	req := formRequest(http.MethodPost, "/listings/listing-1", url.Values{
		"_method": {"PUT"},
		"title":   {"New Title"},
	})
	req.AddCookie(sessionCookie(t, env.sessions, "owner-1"))

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings/listing-1", rec.Header().Get("Location"))
	env.listings.AssertExpectations(t)
}

func TestListingHandler_Update_NotOwnerRedirectsToShow(t *testing.T) {
	env := newTestEnv(t)
	env.listings.On("Update", mock.Anything, "intruder", "listing-1", mock.Anything, (*usecase.ImageUpload)(nil)).
		Return(nil, domain.ErrNotOwner).Once()

	req := formRequest(http.MethodPost, "/listings/listing-1", url.Values{
		"_method": {"PUT"},
		"title":   {"Hijacked"},
	})
	req.AddCookie(sessionCookie(t, env.sessions, "intruder"))

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings/listing-1", rec.Header().Get("Location"))
}

func TestListingHandler_Delete_Success(t *testing.T) {
	env := newTestEnv(t)
	env.listings.On("Delete", mock.Anything, "owner-1", "listing-1").Return(nil).Once()

	req := formRequest(http.MethodPost, "/listings/listing-1?_method=DELETE", url.Values{})
	req.AddCookie(sessionCookie(t, env.sessions, "owner-1"))

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings", rec.Header().Get("Location"))
	env.listings.AssertExpectations(t)
}

func TestListingHandler_Delete_MissingListingRedirects(t *testing.T) {
	env := newTestEnv(t)
	env.listings.On("Delete", mock.Anything, "owner-1", "ghost").Return(domain.ErrListingNotFound).Once()

	req := formRequest(http.MethodPost, "/listings/ghost?_method=DELETE", url.Values{})
	req.AddCookie(sessionCookie(t, env.sessions, "owner-1"))

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings", rec.Header().Get("Location"))
}

func TestListingHandler_EditForm_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/listing-1/edit", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestListingHandler_EditForm_ReturnsPreviewURL(t *testing.T) {
	env := newTestEnv(t)
	env.listings.On("EditForm", mock.Anything, "owner-1", "listing-1").Return(&usecase.EditView{
		Listing:    &domain.Listing{ID: "listing-1", OwnerID: "owner-1"},
		PreviewURL: "https://host/upload/w_250/e_blur:100/pic.jpg",
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/listings/listing-1/edit", nil)
	req.AddCookie(sessionCookie(t, env.sessions, "owner-1"))

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "e_blur:100")
}

func TestListingHandler_Index(t *testing.T) {
	env := newTestEnv(t)
	env.listings.On("List", mock.Anything).Return([]*domain.ExpandedListing{
		{Listing: domain.Listing{ID: "a", Title: "One"}},
		{Listing: domain.Listing{ID: "b", Title: "Two"}},
	}, nil).Once()

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"a"`)
	assert.Contains(t, rec.Body.String(), `"id":"b"`)
}
