package migrations

import "embed"

// Migrations holds the goose SQL migrations.
//
//go:embed *.sql
var Migrations embed.FS
