// Package migrations embeds the SQL migrations for the PostgreSQL karma store.
package migrations

import "embed"

// KarmaFS holds the karma schema migrations under karma/.
//
//go:embed karma/*.sql
var KarmaFS embed.FS
