// Package web embeds the static dashboard served by the API server at /.
//
// Usage in the API server:
//
//	fs, err := web.DistFS() // io/fs.FS rooted at static/
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var dist embed.FS

// DistFS returns a filesystem rooted at the embedded static/ directory.
// This is ready to use with http.FileServerFS or http.FS.
func DistFS() (fs.FS, error) {
	return fs.Sub(dist, "static")
}
