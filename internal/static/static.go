// Package static embeds the assets shipped with the binary.
package static

import (
	"embed"
	"fmt"
	"io/fs"
)

// Prefix is the URL path the embedded assets are served under.
const Prefix = "/static"

// DefaultImageURL is where the placeholder for posts and tournaments without an upload is served.
const DefaultImageURL = Prefix + "/default.png"

//go:embed static/*
var staticFS embed.FS

// FS returns the embedded assets rooted at the static directory.
func FS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// the directory is embedded, this cannot fail
		panic(err)
	}
	return sub
}

// DefaultImage returns the placeholder image.
func DefaultImage() ([]byte, error) {
	data, err := staticFS.ReadFile("static/default.png")
	if err != nil {
		return nil, fmt.Errorf("failed to read default image from embedded files: %w", err)
	}
	return data, nil
}
