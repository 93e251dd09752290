package database

import (
	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// mysqlDriver takes the go-sql-driver DSN form, user:password@tcp(host)/db,
// with an optional mysql:// prefix.
func mysqlDriver() driver {
	return driver{
		name:    "mysql",
		backend: MySQL,
		dsn: func(url string) string {
			return trimScheme(url, "mysql")
		},
	}
}
