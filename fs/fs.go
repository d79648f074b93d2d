// Package appfs embeds the static assets shipped with every binary:
// the content catalog seed and the SQL migrations.
package appfs

import "embed"

// CatalogPath is the path of the default content catalog inside FS.
const CatalogPath = "catalog/australian-content.yaml"

//go:embed catalog migrations
var FS embed.FS
