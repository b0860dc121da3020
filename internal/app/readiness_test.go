package app

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestBuildReadinessChecks(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db, red := BuildReadinessChecks(pingerFunc(func(context.Context) error { return nil }), rdb)
	require.NotNil(t, red)
	assert.NoError(t, db(context.Background()))
	assert.NoError(t, red(context.Background()))

	mr.Close()
	assert.Error(t, red(context.Background()))
}

func TestBuildReadinessChecks_Unconfigured(t *testing.T) {
	t.Parallel()
	db, red := BuildReadinessChecks(nil, nil)
	assert.Nil(t, red)
	assert.EqualError(t, db(context.Background()), "db not configured")

	db, _ = BuildReadinessChecks(pingerFunc(func(context.Context) error { return errors.New("refused") }), nil)
	assert.EqualError(t, db(context.Background()), "refused")
}
