// Package migrations embeds the SQL migrations so deployed binaries
// can migrate without shipping loose files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
