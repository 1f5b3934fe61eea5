package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"backend-runhub/internal/shared/geo"
)

// Placename is a best-effort reverse-geocode result.
type Placename struct {
	Street   string
	District string
	City     string
}

func (p Placename) Label() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.City, p.District, p.Street} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Geocoder resolves a position to a human label. Lookup failures are
// recoverable: callers fall back to a synthetic label.
type Geocoder interface {
	Lookup(ctx context.Context, p geo.Position) (Placename, error)
}

// HTTPGeocoder talks to a Nominatim-style reverse endpoint.
type HTTPGeocoder struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPGeocoder(baseURL string) *HTTPGeocoder {
	return &HTTPGeocoder{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (g *HTTPGeocoder) Lookup(ctx context.Context, p geo.Position) (Placename, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%f", p.Lat))
	q.Set("lon", fmt.Sprintf("%f", p.Lng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Placename{}, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return Placename{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Placename{}, errors.New("geocoder status " + resp.Status)
	}

	var body struct {
		Address struct {
			Road    string `json:"road"`
			Suburb  string `json:"suburb"`
			City    string `json:"city"`
			Town    string `json:"town"`
			Village string `json:"village"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Placename{}, err
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}
	return Placename{Street: body.Address.Road, District: body.Address.Suburb, City: city}, nil
}
