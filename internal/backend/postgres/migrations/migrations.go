// Package migrations embeds the relational schema of the hosted store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
