// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API in tests and server bootstrap.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// The statements are portable between Postgres and SQLite, so the same
// files are handed to goose.NewProvider for either dialect.
//
//go:embed *.sql
var FS embed.FS
