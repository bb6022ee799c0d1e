// File: /services/geo_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GeoService proxies forward and reverse geocoding against the Nominatim
// API so the client never talks to the tile provider directly.
type GeoService struct {
	baseURL string
	client  *http.Client
}

func NewGeoService(baseURL string) *GeoService {
	return &GeoService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Place is one geocoding result.
type Place struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type,omitempty"`
}

// Search resolves free-text queries to candidate places.
func (s *GeoService) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	if limit <= 0 {
		limit = 5
	}
	endpoint := fmt.Sprintf("%s/search?format=json&limit=%d&q=%s", s.baseURL, limit, url.QueryEscape(query))

	var places []Place
	if err := s.get(ctx, endpoint, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// Reverse resolves a coordinate to the nearest named place.
func (s *GeoService) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f", s.baseURL, lat, lon)

	var place Place
	if err := s.get(ctx, endpoint, &place); err != nil {
		return nil, err
	}
	return &place, nil
}

func (s *GeoService) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	// Nominatim requires an identifying user agent
	req.Header.Set("User-Agent", "injoy-api/1.0")

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("geocoding request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding request failed: %s", res.Status)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
