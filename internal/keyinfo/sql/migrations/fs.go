// Package migrations embeds the golang-migrate SQL sources for the
// key-info table, keeping the schema versioned separately from the
// gorm model that reads and writes it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
