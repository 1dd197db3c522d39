package render

import (
	"embed"
	"io/fs"
)

//go:embed all:theme
var theme embed.FS

// DefaultThemeName names the embedded theme in error messages.
const DefaultThemeName = "darkfish"

// DefaultTemplates returns the embedded page templates.
func DefaultTemplates() fs.FS {
	return mustSub("theme/templates")
}

// DefaultStatic returns the embedded static assets (stylesheet, scripts).
func DefaultStatic() fs.FS {
	return mustSub("theme/static")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(theme, dir)
	if err != nil {
		panic(err) // embedded layout is fixed at compile time
	}
	return sub
}
