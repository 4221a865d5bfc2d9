// Package migrations embeds the SQL schema migrations for the backend database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
