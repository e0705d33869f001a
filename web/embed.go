package web

import "embed"

// Templates embeds the dashboard HTML templates.
//
//go:embed templates/**/*.html
var Templates embed.FS
