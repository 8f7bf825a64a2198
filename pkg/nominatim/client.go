// Package nominatim provides a reverse-geocoding client for
// OpenStreetMap-compatible (Nominatim) endpoints.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/county-enrich/internal/resilience"
)

// DefaultBaseURL is the public Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Address is the structured address block of a reverse-geocode response.
type Address struct {
	Road        string `json:"road"`
	Suburb      string `json:"suburb"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	County      string `json:"county"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

// Place is the result of a reverse-geocode lookup. Found is false when the
// service answered but could not resolve the point to any place.
type Place struct {
	DisplayName string
	Address     Address
	Found       bool
}

// reverseResponse is the raw Nominatim reverse payload. Nominatim reports an
// unresolvable point as HTTP 200 with an "error" field instead of a result.
type reverseResponse struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
	Error       string  `json:"error"`
}

// Client issues reverse-geocode requests against a Nominatim endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default Nominatim endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithUserAgent sets the identifying User-Agent the service requires.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout on the client's HTTP transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit sets the requests-per-second limit. The public Nominatim
// instance allows at most 1 req/s.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a reverse-geocoding Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  "county-enrich/1.0",
		limiter:    rate.NewLimiter(1, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reverse resolves a coordinate pair to a place. Timeouts and 408/429/5xx
// responses come back as transient errors so callers can retry them; any
// other failure is final.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: rate limit")
	}

	params := url.Values{
		"format":         {"jsonv2"},
		"lat":            {fmt.Sprintf("%.7f", lat)},
		"lon":            {fmt.Sprintf("%.7f", lon)},
		"addressdetails": {"1"},
	}

	reqURL := c.baseURL + "/reverse?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Client-side timeouts already satisfy net.Error and classify
		// as transient downstream.
		return nil, eris.Wrap(err, "nominatim: reverse request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("nominatim: reverse returned status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: read body")
	}

	var rr reverseResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, eris.Wrap(err, "nominatim: parse response")
	}

	// "Unable to geocode" arrives as 200 + error field: not a failure,
	// just no place at that point.
	if rr.Error != "" {
		return &Place{Found: false}, nil
	}

	return &Place{
		DisplayName: rr.DisplayName,
		Address:     rr.Address,
		Found:       true,
	}, nil
}
