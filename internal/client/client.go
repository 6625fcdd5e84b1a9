// Package client talks to the parkd API on behalf of the operator CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"parksystem-backend/internal/flight"
	"parksystem-backend/internal/model"
	"parksystem-backend/internal/pricing"
	"parksystem-backend/internal/reservation"
)

var (
	// ErrNotLoggedIn is returned by calls that need a session when there is none.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrUnauthorized is returned when the server rejected the session; it has been cleared.
	ErrUnauthorized = errors.New("session expired, log in again")
)

// APIError is a non-2xx answer of the server.
type APIError struct {
	Status  int
	Message string `json:"error"`
	Field   string `json:"field"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("server rejected %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Profile is the caller's plan and usage.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	PlanCode string `json:"plan_code"`
	PlanName string `json:"plan_name"`
	Usage    int    `json:"usage"`
	Limit    int    `json:"limit"`
	Language string `json:"language"`
}

// Estimate is a priced stay.
type Estimate struct {
	Days  int     `json:"days"`
	Price float64 `json:"price"`
}

// Client is an API client authenticating with the stored session.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionStore
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, sessions SessionStore, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, sessions: sessions}
}

type signInResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

func (c *Client) saveSignIn(resp signInResponse) (*Session, error) {
	s := &Session{
		Username:     resp.User.Username,
		UserID:       resp.User.ID,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if err := c.sessions.Save(s); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return s, nil
}

// Login signs in with a password and stores the session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var resp signInResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.send(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	return c.saveSignIn(resp)
}

// GoogleLogin signs in with a Google ID token and stores the session.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*Session, error) {
	var resp signInResponse
	if err := c.send(ctx, http.MethodPost, "/auth/google", "", map[string]string{"id_token": idToken}, &resp); err != nil {
		return nil, err
	}
	return c.saveSignIn(resp)
}

// Logout revokes the refresh token and forgets the session.
func (c *Client) Logout(ctx context.Context) error {
	s, err := c.sessions.Load()
	if err != nil {
		return err
	}
	err = c.send(ctx, http.MethodPost, "/auth/logout", "", map[string]string{"refresh_token": s.RefreshToken}, nil)
	if clearErr := c.sessions.Clear(); clearErr != nil {
		return clearErr
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return nil
	}
	return err
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	return &p, c.do(ctx, http.MethodGet, "/profile", nil, &p)
}

func (c *Client) Reservations(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	return out, c.do(ctx, http.MethodGet, "/reservations", nil, &out)
}

func (c *Client) CreateReservation(ctx context.Context, d reservation.Draft) (model.Reservation, error) {
	var r model.Reservation
	return r, c.do(ctx, http.MethodPost, "/reservations", d, &r)
}

func (c *Client) UpdateReservation(ctx context.Context, id int64, d reservation.Draft) (model.Reservation, error) {
	var r model.Reservation
	return r, c.do(ctx, http.MethodPut, reservationPath(id, ""), d, &r)
}

func (c *Client) DeleteReservation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, reservationPath(id, ""), nil, nil)
}

func (c *Client) ToggleComplete(ctx context.Context, id int64) (model.Reservation, error) {
	var r model.Reservation
	return r, c.do(ctx, http.MethodPost, reservationPath(id, "toggle_complete"), nil, &r)
}

func (c *Client) TogglePayment(ctx context.Context, id int64) (model.Reservation, error) {
	var r model.Reservation
	return r, c.do(ctx, http.MethodPost, reservationPath(id, "toggle_payment"), nil, &r)
}

func (c *Client) FlightStatus(ctx context.Context, id int64) (*flight.Status, error) {
	var st flight.Status
	return &st, c.do(ctx, http.MethodGet, reservationPath(id, "flight_status"), nil, &st)
}

func (c *Client) Pricing(ctx context.Context) (model.PricingSettings, error) {
	var p model.PricingSettings
	return p, c.do(ctx, http.MethodGet, "/pricing-settings", nil, &p)
}

func (c *Client) SetPricing(ctx context.Context, patch pricing.Patch) (model.PricingSettings, error) {
	var p model.PricingSettings
	return p, c.do(ctx, http.MethodPut, "/pricing-settings", patch, &p)
}

func (c *Client) Estimate(ctx context.Context, returnDate time.Time) (Estimate, error) {
	var e Estimate
	path := "/pricing-settings/estimate?returnDate=" + url.QueryEscape(returnDate.Format(time.RFC3339))
	return e, c.do(ctx, http.MethodGet, path, nil, &e)
}

func reservationPath(id int64, action string) string {
	p := "/reservations/" + strconv.FormatInt(id, 10)
	if action != "" {
		p += "/" + action
	}
	return p
}

// do performs an authenticated call. An expired access token is refreshed once; when that
// fails too the session is cleared and ErrUnauthorized returned.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	s, err := c.sessions.Load()
	if err != nil {
		return err
	}

	err = c.send(ctx, method, path, s.AccessToken, body, out)
	if !isUnauthorized(err) {
		return err
	}

	if refreshErr := c.refresh(ctx, s); refreshErr != nil {
		if clearErr := c.sessions.Clear(); clearErr != nil {
			return clearErr
		}
		return ErrUnauthorized
	}

	err = c.send(ctx, method, path, s.AccessToken, body, out)
	if isUnauthorized(err) {
		if clearErr := c.sessions.Clear(); clearErr != nil {
			return clearErr
		}
		return ErrUnauthorized
	}
	return err
}

func (c *Client) refresh(ctx context.Context, s *Session) error {
	if s.RefreshToken == "" {
		return ErrUnauthorized
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.send(ctx, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": s.RefreshToken}, &resp); err != nil {
		return err
	}
	s.AccessToken = resp.AccessToken
	return c.sessions.Save(s)
}

func isUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}
