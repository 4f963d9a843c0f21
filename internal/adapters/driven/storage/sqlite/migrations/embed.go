// Package migrations embeds the SQLite schema migration scripts.
package migrations

import "embed"

// FS holds the numbered SQL scripts the store applies in order at startup.
//
//go:embed *.sql
var FS embed.FS
