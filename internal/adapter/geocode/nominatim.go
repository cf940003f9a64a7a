// Package geocode resolves free-text locations to coordinates through the
// OpenStreetMap Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wanderstay/listing-service/internal/listing/domain"
	"github.com/wanderstay/listing-service/internal/platform/logger"
)

const defaultTimeout = 5 * time.Second

type NominatimClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// NewNominatimClient builds a geocoder against the given base URL
// (e.g. "https://nominatim.openstreetmap.org"). A non-positive timeout
// falls back to 5 seconds.
func NewNominatimClient(baseURL string, timeout time.Duration, log *logger.Logger) *NominatimClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &NominatimClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
	}
}

// nominatimResult is one entry of the Nominatim search response; the API
// returns coordinates as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve looks up the location in a single attempt. Empty input is
// rejected before any network call. An empty result set maps to
// domain.ErrLocationNotFound; transport failures, timeouts and non-2xx
// responses map to domain.ErrGeocoderUnavailable.
func (c *NominatimClient) Resolve(ctx context.Context, locationText string) (domain.GeoPoint, error) {
	query := strings.TrimSpace(locationText)
	if query == "" {
		return domain.GeoPoint{}, domain.ErrLocationEmpty
	}

	lookupURL := fmt.Sprintf("%s/search?format=json&q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: %v", domain.ErrGeocoderUnavailable, err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", "wanderstay-listing-service/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("NominatimClient.Resolve: request failed", zap.String("location", query), zap.Error(err))
		return domain.GeoPoint{}, fmt.Errorf("%w: %v", domain.ErrGeocoderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("NominatimClient.Resolve: unexpected status", zap.String("location", query), zap.Int("status", resp.StatusCode))
		return domain.GeoPoint{}, fmt.Errorf("%w: status %d", domain.ErrGeocoderUnavailable, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: decoding response: %v", domain.ErrGeocoderUnavailable, err)
	}
	if len(results) == 0 {
		return domain.GeoPoint{}, domain.ErrLocationNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: malformed latitude %q", domain.ErrGeocoderUnavailable, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: malformed longitude %q", domain.ErrGeocoderUnavailable, results[0].Lon)
	}

	return domain.GeoPoint{Latitude: lat, Longitude: lon}, nil
}
