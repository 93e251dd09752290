package database

import (
	_ "github.com/lib/pq" // PostgreSQL driver
)

func postgresDriver() driver {
	return driver{name: "postgres", backend: PostgreSQL}
}
