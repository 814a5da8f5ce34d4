package migrations

import "embed"

// Migrations holds the schema, written in the subset of SQL that both SQLite
// and Postgres accept.
//
//go:embed *.sql
var Migrations embed.FS
