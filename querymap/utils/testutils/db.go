package testutils

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krew-solutions/querymap-go/querymap/session"
	pgsession "github.com/krew-solutions/querymap-go/querymap/session/pg"
)

// NewPgSessionPool connects to the database described by DB_* environment
// variables, for integration tests.
func NewPgSessionPool() (session.SessionPool, error) {
	username := getEnv("DB_USERNAME", "devel")
	password := getEnv("DB_PASSWORD", "devel")
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	basename := getEnv("DB_DATABASE", "devel_querymap")

	connString := "postgres://" + username + ":" + password + "@" + host + ":" + port + "/" + basename

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}

	return pgsession.NewSessionPool(pool), nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}
