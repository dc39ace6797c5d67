package templates

import (
	"embed"
	"io/fs"
)

//go:embed catalog/*.yaml
var embeddedCatalog embed.FS

//go:embed bodies/*.tpl
var embeddedBodies embed.FS

// CatalogFS exposes the embedded catalog rooted at its directory.
func CatalogFS() fs.FS {
	sub, err := fs.Sub(embeddedCatalog, "catalog")
	if err != nil {
		return embeddedCatalog
	}
	return sub
}

// BodiesFS exposes the embedded document bodies rooted at their directory.
func BodiesFS() fs.FS {
	sub, err := fs.Sub(embeddedBodies, "bodies")
	if err != nil {
		return embeddedBodies
	}
	return sub
}
