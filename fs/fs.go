// Package appfs embeds the SQL migrations and seed fixtures shipped with
// the binaries.
package appfs

import "embed"

//go:embed migrations fixtures
var FS embed.FS
