// Package migrations embeds the goose SQL migrations so the binary can
// bring its own schema up on start.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
