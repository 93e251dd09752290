package database

import (
	_ "github.com/nakagami/firebirdsql" // Firebird driver
)

// firebirdDriver expects user:password@host[:port]/path/to/database, with an
// optional firebird:// prefix.
func firebirdDriver() driver {
	return driver{
		name:    "firebirdsql",
		backend: Firebird,
		dsn: func(url string) string {
			return trimScheme(url, "firebird", "firebirdsql")
		},
	}
}
