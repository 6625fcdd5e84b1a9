package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"parksystem-backend/config"
	"parksystem-backend/internal/api"
	"parksystem-backend/internal/auth"
	"parksystem-backend/internal/client"
	"parksystem-backend/internal/db"
	"parksystem-backend/internal/flight"
	"parksystem-backend/internal/logger"
	"parksystem-backend/internal/reservation"
	"parksystem-backend/internal/store"
)

// newAPIServer runs the real API on an in-memory database.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gormDB, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	sqlDB, _ := gormDB.DB()
	t.Cleanup(func() { sqlDB.Close() })

	loc, _ := time.LoadLocation("Europe/Warsaw")
	s := store.NewGormStore(gormDB)
	router := api.NewRouter(api.Deps{
		Store:    s,
		Auth:     auth.NewService(s, auth.NewIssuer("secret", time.Hour, time.Hour), auth.NewMemoryRevoker(), nil, bcrypt.MinCost),
		Flights:  flight.NewService(flight.StaticProvider{}, s, time.Minute, loc, logger.NewNop(), nil),
		Location: loc,
		Logger:   logger.NewNop(),
	}, config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// signedIn registers jan and writes a parkctl config holding his session.
func signedIn(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	body := strings.NewReader(`{"username":"jan","email":"jan@example.com","password":"correct-horse"}`)
	resp, err := http.Post(srv.URL+"/api/auth/register", "application/json", body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dir := t.TempDir()
	sessionFile := filepath.Join(dir, "session.json")
	configPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("api_url: %s/api\nsession_file: %s\ntimezone: Europe/Warsaw\n", srv.URL, sessionFile)
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o600))

	c := client.New(srv.URL+"/api", client.NewFileSessionStore(sessionFile), srv.Client())
	_, err = c.Login(context.Background(), "jan", "correct-horse")
	require.NoError(t, err)
	return configPath
}

func run(configPath string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestParkctl_ReservationWorkflow(t *testing.T) {
	srv := newAPIServer(t)
	configPath := signedIn(t, srv)

	loc, _ := time.LoadLocation("Europe/Warsaw")
	d := time.Now().In(loc).AddDate(0, 0, 2)
	returnAt := time.Date(d.Year(), d.Month(), d.Day(), 10, 0, 0, 0, loc)
	out, err := run(configPath, "add", "--plate", "WA 1", "--name", "Anna", "--flight", "LO1", "--return", returnAt.Format(time.RFC3339))
	require.NoError(t, err)
	assert.Contains(t, out, "Created reservation 1: WA 1, Anna")

	_, err = run(configPath, "add", "--plate", "WA 2", "--name", "Bartek", "--flight", "LO1", "--return", returnAt.Add(time.Hour).Format(time.RFC3339))
	require.NoError(t, err)

	_, err = run(configPath, "add", "--name", "Nobody", "--return", returnAt.Format(time.RFC3339))
	assert.ErrorIs(t, err, reservation.ErrInvalidDraft)

	out, err = run(configPath, "list", "--tab", "all-active")
	require.NoError(t, err)
	assert.Contains(t, out, "flight LO1 (2)")
	assert.Contains(t, out, "Bartek")

	out, err = run(configPath, "edit", "2", "--name", "Bartek Nowak")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated reservation 2: WA 2, Bartek Nowak")

	out, err = run(configPath, "done", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Reservation 1 is completed, together with 1 more on flight LO1")

	out, err = run(configPath, "list", "--tab", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "WA 1")
	assert.Contains(t, out, "WA 2")

	out, err = run(configPath, "paid", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Reservation 2 paid: yes")

	out, err = run(configPath, "flight", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "On Time")

	out, err = run(configPath, "rm", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted reservation 2")
}

func TestParkctl_PricingAndProfile(t *testing.T) {
	srv := newAPIServer(t)
	configPath := signedIn(t, srv)

	out, err := run(configPath, "pricing", "estimate", "--return", time.Now().Add(50*time.Hour).Format(time.RFC3339))
	require.NoError(t, err)
	assert.Equal(t, "3 day(s): 130.00\n", out)

	out, err = run(configPath, "pricing", "set", "--day3", "150", "--extra", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "150.00")
	assert.Contains(t, out, "30.00")

	out, err = run(configPath, "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "jan@example.com")
	assert.Contains(t, out, "none")

	out, err = run(configPath, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")

	_, err = run(configPath, "list")
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
}

func TestParseWhen(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Warsaw")

	got, err := parseWhen("2026-10-19 14:30", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 10, 19, 14, 30, 0, 0, loc)))

	got, err = parseWhen("2026-10-19T12:30:00Z", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 10, 19, 14, 30, 0, 0, loc)))

	_, err = parseWhen("tomorrow", loc)
	assert.Error(t, err)
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "01:02:03", formatCountdown(reservation.Split(time.Hour+2*time.Minute+3*time.Second)))
	assert.Equal(t, "2d 00:00:05", formatCountdown(reservation.Split(48*time.Hour+5*time.Second)))
}
