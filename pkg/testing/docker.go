// Package testing starts throwaway redis and postgres containers for
// integration tests. Tests using it are skipped in -short mode and when no
// docker daemon is reachable.
package testing

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

const (
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDBName   = "vibefit"
)

// DockerPool returns a pool connected to the local docker daemon.
func DockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("docker integration test skipped in short mode")
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not create new dockertest pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("could not ping docker: %s", err)
	}
	pool.MaxWait = time.Minute

	return pool
}

func runContainer(t *testing.T, pool *dockertest.Pool, opts *dockertest.RunOptions) *dockertest.Resource {
	t.Helper()
	resource, err := pool.RunWithOptions(opts, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	require.NoError(t, err, "run %s", opts.Repository)

	t.Cleanup(func() {
		if err := resource.Close(); err != nil {
			t.Logf("%s teardown: %s", opts.Repository, err)
		}
	})
	return resource
}

// StartRedis runs a redis container and returns its host port once it answers pings.
func StartRedis(t *testing.T, pool *dockertest.Pool) string {
	t.Helper()
	resource := runContainer(t, pool, &dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7",
	})
	redisPort := resource.GetPort("6379/tcp")

	rdb := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", redisPort),
	})
	defer func() {
		_ = rdb.Close()
	}()
	err := pool.Retry(func() error {
		return rdb.Ping(context.Background()).Err()
	})
	require.NoError(t, err, "connect to redis")

	return redisPort
}

// GetRedisClientAndCtx starts redis and returns a client to it, closed on cleanup.
func GetRedisClientAndCtx(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()
	pool := DockerPool(t)
	redisPort := StartRedis(t, pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	rdb := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", redisPort),
		DB:   0, // use default DB
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	pingRes, err := rdb.Ping(ctx).Result()
	require.NoError(t, err)
	t.Logf("redis ping res: %s", pingRes)

	return ctx, rdb
}

// StartPostgres runs a postgres container and returns its host port once it
// accepts connections.
func StartPostgres(t *testing.T, pool *dockertest.Pool) string {
	t.Helper()
	resource := runContainer(t, pool, &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=" + PostgresUser,
			"POSTGRES_PASSWORD=" + PostgresPassword,
			"POSTGRES_DB=" + PostgresDBName,
		},
	})
	pgPort := resource.GetPort("5432/tcp")

	ctx := context.Background()
	dbPool, err := pgxpool.New(ctx, PostgresDSN(pgPort))
	require.NoError(t, err, "create connection pool")
	defer dbPool.Close()

	err = pool.Retry(func() error {
		return dbPool.Ping(ctx)
	})
	require.NoError(t, err, "connect to db")

	return pgPort
}

func PostgresDSN(port string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@localhost:%s/%s?sslmode=disable",
		PostgresUser, PostgresPassword, port, PostgresDBName,
	)
}

// GetPostgresPool starts postgres and returns a pool to it, closed on cleanup.
func GetPostgresPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool := DockerPool(t)
	pgPort := StartPostgres(t, pool)

	dbPool, err := pgxpool.New(context.Background(), PostgresDSN(pgPort))
	require.NoError(t, err)
	t.Cleanup(dbPool.Close)

	return dbPool
}
