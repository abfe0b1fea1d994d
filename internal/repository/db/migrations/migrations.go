// Package migrations embeds the goose SQL migrations of the lost & found schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
