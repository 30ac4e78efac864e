package database

import (
	"testing"
	"time"

	"expense-tracker/internal/config"
	"expense-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB_CreatesSchema(t *testing.T) {
	db := SetupTestDB(t)

	for _, table := range []string{"users", "transactions", "budgets", "receipts", "blacklisted_tokens"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}
	assert.NoError(t, db.HealthCheck())
}

func TestCleanupExpiredTokens(t *testing.T) {
	db := SetupTestDB(t)
	user := CreateTestUser(t, db, "token_owner")

	require.NoError(t, db.Create(models.NewBlacklistedToken("expired", user.ID, time.Now().Add(-time.Hour))).Error)
	require.NoError(t, db.Create(models.NewBlacklistedToken("live", user.ID, time.Now().Add(time.Hour))).Error)

	removed, err := db.CleanupExpiredTokens()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var remaining []models.BlacklistedToken
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "live", remaining[0].JTI)
}

func TestInitialize_SQLite(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   t.TempDir() + "/expenses.db",
		},
	}

	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.Migrator().HasTable(&models.Budget{}))
	assert.True(t, db.Migrator().HasIndex(&models.Transaction{}, "idx_transactions_user_category"))
}
