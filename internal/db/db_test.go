package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parksystem-backend/config"
	"parksystem-backend/internal/logger"
	"parksystem-backend/internal/model"
)

func TestIsSQLite(t *testing.T) {
	assert.True(t, IsSQLite("file::memory:?cache=shared"))
	assert.True(t, IsSQLite("/var/lib/parkd/parkd.db"))
	assert.True(t, IsSQLite(":memory:"))
	assert.False(t, IsSQLite("host=localhost user=parkd dbname=parkd"))
	assert.False(t, IsSQLite("postgres://parkd@localhost/parkd"))
}

func TestInit_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"}

	db, err := Init(cfg, logger.NewNop())
	require.NoError(t, err)

	for _, m := range []any{&model.User{}, &model.Reservation{}, &model.PricingSettings{}, &model.PushSubscription{}, &model.FlightStatusCache{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}
