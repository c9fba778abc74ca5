// Package migrations embeds the SQL schema migration files into the binary
// so Rackdock can migrate its database without shipping loose SQL files.
package migrations

import (
	"embed"

	"github.com/rackdock/rackdock/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	// Register embedded migrations with the database package.
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
