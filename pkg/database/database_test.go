package database

import (
	"path/filepath"
	"scorm_rte/internal/config"
	"scorm_rte/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitDBSqlite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rte.db")
	db, err := InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: path}, true)
	require.NoError(t, err)
	require.True(t, db.Migrator().HasTable(&model.SyncLog{}))
}

func TestInitDBUnsupportedDriver(t *testing.T) {
	_, err := InitDB(&config.DatabaseConfig{Driver: "postgres"}, false)
	require.Error(t, err)
}

func TestInitRedisDisabled(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	require.Nil(t, rdb)
}
