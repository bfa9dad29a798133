// Package migrations embeds the SQL migration files applied at startup.
package migrations

import "embed"

// Files holds all .up.sql migration files.
//
//go:embed *.up.sql
var Files embed.FS
