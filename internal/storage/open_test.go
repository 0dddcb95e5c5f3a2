package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/yingzhou/internal/config"
	"github.com/jwebster45206/yingzhou/pkg/state"
	pkgstorage "github.com/jwebster45206/yingzhou/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Backends(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  config.Config
		want any
	}{
		{"file", config.Config{SaveBackend: config.BackendFile, SaveDir: filepath.Join(dir, "saves")}, &FileStorage{}},
		{"sqlite", config.Config{SaveBackend: config.BackendSQLite, SQLitePath: filepath.Join(dir, "y.db")}, &SQLiteStorage{}},
		{"redis", config.Config{SaveBackend: config.BackendRedis, RedisURL: "redis://" + mr.Addr()}, &RedisStorage{}},
		{"memory", config.Config{SaveBackend: config.BackendMemory}, &pkgstorage.MockStorage{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, err := Open(ctx, &tt.cfg, testLogger())
			require.NoError(t, err)
			defer store.Close()

			assert.IsType(t, tt.want, store)
			require.NoError(t, store.Ping(ctx))

			rec := state.NewSaveRecord()
			require.NoError(t, store.SaveRecord(ctx, rec))
			loaded, err := store.LoadRecord(ctx, rec.ID)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, rec.ID, loaded.ID)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{SaveBackend: "tape"}, testLogger())
	assert.Error(t, err)
}
