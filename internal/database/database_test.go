package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/quote-vault/backend/internal/config"
	"github.com/emilythestrangee/quote-vault/backend/internal/models"
)

// startPostgres spins up a disposable Postgres and returns a migrated gorm DB
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("quotevault_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestMigrateEnforcesVoteUniqueness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db := startPostgres(t)

	user := models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)
	quote := models.Quote{Content: "a quote", CreatedByID: user.ID, IsActive: true}
	require.NoError(t, db.Create(&quote).Error)

	require.NoError(t, db.Create(&models.Vote{UserID: user.ID, QuoteID: quote.ID, Value: 1}).Error)

	// Second (user, quote) insert must hit the composite unique index
	err := db.Create(&models.Vote{UserID: user.ID, QuoteID: quote.ID, Value: -1}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Vote value outside {-1, 1} must hit the check constraint
	other := models.User{Username: "bob", Email: "bob@example.com", Password: "hash"}
	require.NoError(t, db.Create(&other).Error)
	err = db.Create(&models.Vote{UserID: other.ID, QuoteID: quote.ID, Value: 5}).Error
	assert.Error(t, err)
}

func TestMigrateEnforcesUserUniqueness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db := startPostgres(t)

	require.NoError(t, db.Create(&models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}).Error)

	err := db.Create(&models.User{Username: "alice", Email: "other@example.com", Password: "hash"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = db.Create(&models.User{Username: "other", Email: "alice@example.com", Password: "hash"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestSeedAdmin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db := startPostgres(t)
	cfg := &config.Config{AdminEmail: "admin@example.com", AdminPassword: "changeme1"}

	require.NoError(t, SeedAdmin(db, cfg))

	var admin models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).First(&admin).Error)
	assert.Equal(t, "admin@example.com", admin.Email)

	// Seeding again is a no-op
	require.NoError(t, SeedAdmin(db, cfg))
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	assert.Equal(t, int64(1), count)

	// Unconfigured seeding is a no-op too
	require.NoError(t, SeedAdmin(db, &config.Config{}))
}
