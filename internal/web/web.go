// Package web carries the compiled SPA bundle, embedded so the server
// ships as a single binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed dist/*
var dist embed.FS

// Dist returns the bundle root with the dist/ prefix stripped.
func Dist() (fs.FS, error) {
	return fs.Sub(dist, "dist")
}
