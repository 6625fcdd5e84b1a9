package flight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// HTTPProvider queries a flight status service with GET <url>?flight=<number>&date=<YYYY-MM-DD>.
// The service answers with a Status document.
type HTTPProvider struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	maxAttempts int
	backoff     time.Duration
}

// NewHTTPProvider creates a provider for the service at baseURL. Transient failures are
// retried up to maxRetries times.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration, maxRetries int) *HTTPProvider {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &HTTPProvider{
		client:      &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		apiKey:      apiKey,
		maxAttempts: maxRetries + 1,
		backoff:     200 * time.Millisecond,
	}
}

func (p *HTTPProvider) Lookup(ctx context.Context, flightNumber string, scheduled time.Time) (*Status, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid provider url: %w", err)
	}
	q := u.Query()
	q.Set("flight", flightNumber)
	q.Set("date", scheduled.Format("2006-01-02"))
	u.RawQuery = q.Encode()

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if p.apiKey != "" {
			req.Header.Set("Authorization", p.apiKey)
		}
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("flight %s: %w", flightNumber, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var st Status
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flight status: %w", err)
	}
	if st.FlightNumber == "" {
		st.FlightNumber = flightNumber
	}
	if st.ScheduledTime.IsZero() {
		st.ScheduledTime = scheduled
	}
	if st.StatusColor == "" {
		st.StatusColor = ColorOf(st.Status)
	}
	if st.TrackingLink == "" {
		st.TrackingLink = TrackingLink(flightNumber)
	}
	return &st, nil
}

func (p *HTTPProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// doWithRetry retries network errors, 429 and 5xx responses with exponential backoff.
func (p *HTTPProvider) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	backoff := p.backoff
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := p.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}
		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == p.maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return nil, lastErr
}
