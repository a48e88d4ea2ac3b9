package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "url", dsn: "postgres://u:p@localhost:5432/bundyclock_dev?sslmode=disable", want: "bundyclock_dev"},
		{name: "keyword form", dsn: "host=localhost user=u dbname=attendance sslmode=disable", want: "attendance"},
		{name: "garbage", dsn: "postgres://%zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DatabaseName(tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig("postgres://localhost/x")

	assert.Equal(t, "postgres://localhost/x", cfg.DSN)
	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Less(t, cfg.MinConns, cfg.MaxConns)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnLifetime)
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		err := HealthCheck(context.Background(), pingerFunc(func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil
		}))
		assert.NoError(t, err)
	})

	t.Run("unhealthy", func(t *testing.T) {
		boom := errors.New("connection refused")
		err := HealthCheck(context.Background(), pingerFunc(func(context.Context) error { return boom }))
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "database unhealthy")
	})
}
