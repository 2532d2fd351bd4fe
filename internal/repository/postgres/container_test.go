package postgres

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	containerImage    = "postgres:16.3-alpine"
	containerDB       = "squad"
	containerUser     = "coach"
	containerPassword = "secret"
)

// startContainer runs a throwaway postgres and returns its DSN with a terminate func.
func startContainer(ctx context.Context) (string, func(), error) {
	c, err := tcpostgres.Run(ctx, containerImage,
		tcpostgres.WithDatabase(containerDB),
		tcpostgres.WithUsername(containerUser),
		tcpostgres.WithPassword(containerPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", nil, err
	}
	terminate := func() { _ = c.Terminate(context.Background()) }

	// explicitly set sslmode=disable because the container is not configured to use TLS
	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return "", nil, err
	}
	return dsn, terminate, nil
}
