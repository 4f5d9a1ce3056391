// Package migrations embeds the SQL migration files so the migrate
// command can run them from any working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
