package main

import (
	"embed"
	"io/fs"
)

// The browser touch surface served at "/".
//
//go:embed frontend/*.html frontend/*.js frontend/*.css
var frontendFiles embed.FS

func getFrontendFS() fs.FS {
	sub, err := fs.Sub(frontendFiles, "frontend")
	if err != nil {
		panic(err)
	}
	return sub
}
