// Package migrations holds the postgres schema for the bot engine.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
