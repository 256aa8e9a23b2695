package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRedisConnectAndPing(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(mr.Addr(), "", 0)
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
	assert.NotNil(t, client.Client())
}

func TestRedisConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(addr, "", 0)
	assert.Error(t, err)
}

func TestAutoMigrateAndPing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:storage_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	pg := NewFromDB(db)
	require.NoError(t, pg.AutoMigrate())
	assert.NoError(t, pg.Ping(context.Background()))

	for _, table := range []string{"users", "host_profiles", "properties", "favorites", "reviews", "bookings"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.NoError(t, pg.Close())
}
