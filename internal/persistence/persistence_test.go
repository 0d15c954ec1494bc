package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/music-collection/internal/config"
)

func TestNewPostgres_EmptyDSNFallsBack(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, pg.Configured())
	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(context.Background()))
	pg.Close()

	require.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}

func TestNewPostgres_InvalidDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{DSN: "postgres://%zz"}, zap.NewNop())
	require.Error(t, err)
}

func TestRedis_NilSafe(t *testing.T) {
	var r *Redis
	assert.False(t, r.Configured())
	assert.Nil(t, r.Publisher())
	assert.Error(t, r.Ping(context.Background()))
	r.Close()
}
