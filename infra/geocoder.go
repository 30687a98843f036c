package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aperturelog/aperture/config"
)

// Address is the normalized result of a reverse-geocoding lookup, shaped
// after the geo columns on a photo.
type Address struct {
	Country        string `json:"country,omitempty"`
	CountryCode    string `json:"country_code,omitempty"`
	Region         string `json:"region,omitempty"`
	City           string `json:"city,omitempty"`
	District       string `json:"district,omitempty"`
	FullAddress    string `json:"full_address,omitempty"`
	PlaceFormatted string `json:"place_formatted,omitempty"`
}

// Geocoder resolves coordinates to addresses through the Mapbox geocoding
// API. Nil when no access token is configured; callers treat geocoding as
// optional.
type Geocoder struct {
	BaseURL string
	Token   string
	client  *http.Client
}

func InitGeocoder(cfg *config.EnvConfig) *Geocoder {
	if cfg.Mapbox.Token == "" {
		return nil
	}
	return &Geocoder{
		BaseURL: cfg.Mapbox.BaseURL,
		Token:   cfg.Mapbox.Token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type mapboxFeatureContextEntry struct {
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
}

type mapboxResponse struct {
	Features []struct {
		Properties struct {
			FullAddress    string `json:"full_address"`
			PlaceFormatted string `json:"place_formatted"`
			Context        struct {
				Country  *mapboxFeatureContextEntry `json:"country"`
				Region   *mapboxFeatureContextEntry `json:"region"`
				Place    *mapboxFeatureContextEntry `json:"place"`
				Locality *mapboxFeatureContextEntry `json:"locality"`
			} `json:"context"`
		} `json:"properties"`
	} `json:"features"`
}

func (g *Geocoder) ReverseGeocode(ctx context.Context, longitude, latitude float64) (*Address, error) {
	endpoint := fmt.Sprintf("%s/search/geocode/v6/reverse", g.BaseURL)

	q := url.Values{}
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("access_token", g.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("geocoding service returned %d: %s", resp.StatusCode, raw)
	}

	var decoded mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return &Address{}, nil
	}

	props := decoded.Features[0].Properties
	addr := &Address{
		FullAddress:    props.FullAddress,
		PlaceFormatted: props.PlaceFormatted,
	}
	if c := props.Context.Country; c != nil {
		addr.Country = c.Name
		addr.CountryCode = c.CountryCode
	}
	if r := props.Context.Region; r != nil {
		addr.Region = r.Name
	}
	if p := props.Context.Place; p != nil {
		addr.City = p.Name
	}
	if l := props.Context.Locality; l != nil {
		addr.District = l.Name
	}
	return addr, nil
}
