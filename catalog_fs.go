package relay

import (
	"embed"
	"io/fs"
)

// catalogFS holds the integration and event catalogs shipped with the relay.
//
//go:embed data/*.yml
var catalogFS embed.FS

// GetCatalogFS returns the embedded catalog tree.
func GetCatalogFS() fs.FS {
	return catalogFS
}
