package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()

	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestGetConnectionConfigFromEnv(t *testing.T) {
	def := DefaultConnectionConfig()

	tests := []struct {
		name string
		env  map[string]string
		want ConnectionConfig
	}{
		{
			name: "no overrides",
			want: def,
		},
		{
			name: "all knobs set",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "100",
				"DB_MAX_IDLE_CONNS":     "50",
				"DB_CONN_MAX_LIFETIME":  "2h",
				"DB_CONN_MAX_IDLE_TIME": "45m",
			},
			want: ConnectionConfig{
				MaxOpenConns:    100,
				MaxIdleConns:    50,
				ConnMaxLifetime: 2 * time.Hour,
				ConnMaxIdleTime: 45 * time.Minute,
			},
		},
		{
			name: "partial overrides keep remaining defaults",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":    "75",
				"DB_CONN_MAX_LIFETIME": "3h",
			},
			want: ConnectionConfig{
				MaxOpenConns:    75,
				MaxIdleConns:    def.MaxIdleConns,
				ConnMaxLifetime: 3 * time.Hour,
				ConnMaxIdleTime: def.ConnMaxIdleTime,
			},
		},
		{
			name: "non-numeric values keep defaults",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":    "invalid",
				"DB_CONN_MAX_LIFETIME": "not-a-duration",
			},
			want: def,
		},
		{
			name: "zero values keep defaults",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "0",
				"DB_MAX_IDLE_CONNS":     "0",
				"DB_CONN_MAX_LIFETIME":  "0s",
				"DB_CONN_MAX_IDLE_TIME": "0m",
			},
			want: def,
		},
		{
			name: "negative values keep defaults",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":    "-10",
				"DB_CONN_MAX_LIFETIME": "-1h",
			},
			want: def,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			assert.Equal(t, tt.want, getConnectionConfigFromEnv())
		})
	}
}

// Open calls log.Fatal on an unreachable database, so it can only be
// exercised against a live instance.
func TestOpen_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_MAX_IDLE_CONNS", "25")

	db := Open(dsn)
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
