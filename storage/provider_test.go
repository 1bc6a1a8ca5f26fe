package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// exerciseProvider runs the same contract against every backend
func exerciseProvider(t *testing.T, p Provider) {
	t.Helper()
	ctx := context.Background()

	t.Run("Absent key", func(t *testing.T) {
		value, found, err := p.GetItem(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("Set and overwrite", func(t *testing.T) {
		require.NoError(t, p.SetItem(ctx, "memos", `[{"id":"1"}]`))
		require.NoError(t, p.SetItem(ctx, "memos", `[{"id":"2"}]`))

		value, found, err := p.GetItem(ctx, "memos")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"id":"2"}]`, value)
	})

	t.Run("Keys are independent", func(t *testing.T) {
		require.NoError(t, p.SetItem(ctx, "folders", `[]`))

		memos, _, err := p.GetItem(ctx, "memos")
		require.NoError(t, err)
		folders, _, err := p.GetItem(ctx, "folders")
		require.NoError(t, err)

		assert.Equal(t, `[{"id":"2"}]`, memos)
		assert.Equal(t, `[]`, folders)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, p.RemoveItem(ctx, "memos"))
		require.NoError(t, p.RemoveItem(ctx, "memos"))

		_, found, err := p.GetItem(ctx, "memos")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestMemoryProvider(t *testing.T) {
	p := NewMemoryProvider()
	defer p.Close()

	exerciseProvider(t, p)
}

func TestSQLiteProvider(t *testing.T) {
	cfg := Config{
		Driver: DriverSQLite,
		DBPath: filepath.Join(t.TempDir(), "memo.db"),
	}

	p, err := New(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	defer p.Close()

	assert.IsType(t, &SQLiteProvider{}, p)
	exerciseProvider(t, p)
}

func TestRedisProvider(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	cfg := Config{
		Driver:      DriverRedis,
		RedisAddr:   addr,
		RedisPrefix: "memo-notes-test:",
	}

	p, err := New(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()
	for _, key := range []string{"absent", "memos", "folders"} {
		require.NoError(t, p.RemoveItem(ctx, key))
	}

	exerciseProvider(t, p)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantType  Provider
		wantError error
	}{
		{
			name:     "Memory driver",
			cfg:      Config{Driver: DriverMemory},
			wantType: &MemoryProvider{},
		},
		{
			name:     "Empty driver defaults to sqlite",
			cfg:      Config{DBPath: filepath.Join(t.TempDir(), "default.db")},
			wantType: &SQLiteProvider{},
		},
		{
			name:      "Unknown driver",
			cfg:       Config{Driver: "localstorage"},
			wantError: ErrUnknownDriver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(context.Background(), tt.cfg, testLogger())

			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, p)
				return
			}

			require.NoError(t, err)
			defer p.Close()
			assert.IsType(t, tt.wantType, p)
		})
	}
}
