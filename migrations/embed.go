// Package migrations embeds the versioned SQL schema so the CLI can migrate
// without the files being present next to the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
