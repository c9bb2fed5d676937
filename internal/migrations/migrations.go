// internal/migrations/migrations.go
package migrations

import "embed"

// Migrations holds the embedded goose SQL migrations, applied at startup.
//
//go:embed *.sql
var Migrations embed.FS
