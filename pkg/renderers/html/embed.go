package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var templates embed.FS

// TemplatesFS exposes the bundled templates so callers can start from them
// when they supply their own with WithTemplatesFS.
func TemplatesFS() fs.FS {
	return templates
}
