package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/parqio/spot-booking/internal/timezone"
)

// Resolver maps coordinates to an IANA timezone name. It must never block
// booking logic: any failure degrades to UTC.
type Resolver interface {
	TimezoneFor(ctx context.Context, lat, lng float64) string
}

// HTTPResolver queries a REST timezone lookup service. The lookup is an
// idempotent read, so it is retried a bounded number of times with backoff.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

func NewHTTPResolver(baseURL string) *HTTPResolver {
	return &HTTPResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

const lookupAttempts = 3

func (r *HTTPResolver) TimezoneFor(ctx context.Context, lat, lng float64) string {
	url := fmt.Sprintf("%s?lat=%f&lng=%f", r.baseURL, lat, lng)

	var lastErr error
	for attempt := 0; attempt < lookupAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return timezone.DefaultTimezone
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		tz, err := r.lookup(ctx, url)
		if err == nil && timezone.IsValid(tz) {
			return tz
		}
		lastErr = err
	}

	log.Printf("timezone lookup failed, defaulting to UTC: %v", lastErr)
	return timezone.DefaultTimezone
}

func (r *HTTPResolver) lookup(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timezone service returned %d", resp.StatusCode)
	}

	var body struct {
		Timezone string `json:"timezone"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Timezone, nil
}
