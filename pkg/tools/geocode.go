package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// FindLocationName is the function name for the geocoding tool.
const FindLocationName = "find_location"

const findLocationDescription = "Finds and verifies a geographic location based on a user's spoken description. " +
	"Use this as soon as the user provides a potential address or location."

const geocodeEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// FindLocationArgs is the argument object the model supplies.
type FindLocationArgs struct {
	// LocationQuery is the location mentioned by the caller, such as
	// "123 Main Street" or "the corner of Oak and Elm".
	LocationQuery string `json:"location_query"`
}

// FindLocationResult is the structured payload returned to the model.
type FindLocationResult struct {
	Success        bool     `json:"success"`
	FoundLocations []string `json:"found_locations,omitempty"`
	Message        string   `json:"message,omitempty"`
	ErrorMessage   string   `json:"error_message,omitempty"`
}

// Geocoder resolves free-form location descriptions to formatted
// addresses via the Google Geocoding API.
type Geocoder struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// GeocoderOption configures a Geocoder.
type GeocoderOption func(*Geocoder)

// WithGeocodeEndpoint overrides the API endpoint. Used in tests.
func WithGeocodeEndpoint(endpoint string) GeocoderOption {
	return func(g *Geocoder) { g.endpoint = endpoint }
}

// WithGeocodeHTTPClient overrides the HTTP client.
func WithGeocodeHTTPClient(client *http.Client) GeocoderOption {
	return func(g *Geocoder) { g.client = client }
}

// NewGeocoder creates the find_location tool backend. An empty apiKey is
// allowed; invocations then return a configuration failure result rather
// than an error, so the assistant can tell the caller the service is
// unavailable.
func NewGeocoder(apiKey string, opts ...GeocoderOption) *Geocoder {
	g := &Geocoder{
		apiKey:   apiKey,
		endpoint: geocodeEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Tool wraps the geocoder as a catalog entry.
func (g *Geocoder) Tool() Tool {
	return NewFunc(FindLocationName, findLocationDescription, g.findLocation)
}

// geocodeResponse mirrors the fields of the Geocoding API response the
// tool consumes.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

func (g *Geocoder) findLocation(ctx context.Context, args FindLocationArgs) (any, error) {
	if g.apiKey == "" {
		return &FindLocationResult{
			Success:      false,
			ErrorMessage: "The location service is currently unavailable due to a server configuration issue.",
		}, nil
	}
	if args.LocationQuery == "" {
		return &FindLocationResult{
			Success:      false,
			ErrorMessage: "No location was provided to search for.",
		}, nil
	}

	q := url.Values{}
	q.Set("address", args.LocationQuery)
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return &FindLocationResult{
			Success:      false,
			ErrorMessage: "There was an error connecting to the location service.",
		}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FindLocationResult{
			Success:      false,
			ErrorMessage: fmt.Sprintf("The location service returned an unexpected status (%d).", resp.StatusCode),
		}, nil
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return &FindLocationResult{
			Success:      false,
			ErrorMessage: "The location service returned an unreadable response.",
		}, nil
	}

	var found []string
	if body.Status == "OK" {
		for _, r := range body.Results {
			found = append(found, r.FormattedAddress)
		}
	}
	return &FindLocationResult{
		Success:        true,
		FoundLocations: found,
		Message:        "Location search completed.",
	}, nil
}
