// Package migrations embeds the schema of the client-local mirror database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
