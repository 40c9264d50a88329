package migrations

import "embed"

// FS holds the ordered *.up.sql / *.down.sql schema migrations.
//
//go:embed *.sql
var FS embed.FS
