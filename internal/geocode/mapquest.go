package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkordes/bootcamp-api/internal/domain"
)

const (
	mapQuestPath     = "/geocoding/v1/address"
	maxResponseBytes = 1 << 20
	defaultTimeout   = 10 * time.Second
)

// APIError is a non-success answer from the provider.
type APIError struct {
	Status  int // HTTP status, or the provider's own status code
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("geocoder responded %d: %s", e.Status, e.Message)
}

// MapQuest is a client for the MapQuest Geocoding API.
type MapQuest struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewMapQuest returns a MapQuest client. A nil client gets a default with a
// 10 second timeout.
func NewMapQuest(baseURL, apiKey string, client *http.Client) *MapQuest {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &MapQuest{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []mapQuestLocation `json:"locations"`
	} `json:"results"`
}

type mapQuestLocation struct {
	Street     string `json:"street"`
	AdminArea5 string `json:"adminArea5"` // city
	AdminArea3 string `json:"adminArea3"` // state
	AdminArea1 string `json:"adminArea1"` // country
	PostalCode string `json:"postalCode"`
	LatLng     struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"latLng"`
}

// Geocode calls GET {base}/geocoding/v1/address?key=...&location=query.
func (m *MapQuest) Geocode(ctx context.Context, query string) ([]domain.GeoResult, error) {
	u, err := url.Parse(m.baseURL + mapQuestPath)
	if err != nil {
		return nil, fmt.Errorf("geocode.MapQuest.Geocode: base url: %w", err)
	}
	q := u.Query()
	q.Set("key", m.apiKey)
	q.Set("location", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode.MapQuest.Geocode: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode.MapQuest.Geocode: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("geocode.MapQuest.Geocode: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("geocode.MapQuest.Geocode: %w", &APIError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(body)),
		})
	}

	var parsed mapQuestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("geocode.MapQuest.Geocode: decode: %w", err)
	}
	if parsed.Info.StatusCode != 0 {
		return nil, fmt.Errorf("geocode.MapQuest.Geocode: %w", &APIError{
			Status:  parsed.Info.StatusCode,
			Message: strings.Join(parsed.Info.Messages, "; "),
		})
	}

	out := []domain.GeoResult{}
	for _, r := range parsed.Results {
		for _, loc := range r.Locations {
			out = append(out, loc.toResult())
		}
	}
	return out, nil
}

func (l mapQuestLocation) toResult() domain.GeoResult {
	return domain.GeoResult{
		Latitude:         l.LatLng.Lat,
		Longitude:        l.LatLng.Lng,
		FormattedAddress: formatAddress(l),
		Street:           l.Street,
		City:             l.AdminArea5,
		State:            l.AdminArea3,
		Zipcode:          l.PostalCode,
		Country:          l.AdminArea1,
	}
}

// formatAddress renders "street, city, state zip, country", skipping blanks.
func formatAddress(l mapQuestLocation) string {
	stateZip := strings.TrimSpace(l.AdminArea3 + " " + l.PostalCode)
	var parts []string
	for _, p := range []string{l.Street, l.AdminArea5, stateZip, l.AdminArea1} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
