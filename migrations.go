// Package gymease exposes assets embedded at the module root.
package gymease

import "embed"

//go:embed migrations/*.sql
var MigrationsFS embed.FS
