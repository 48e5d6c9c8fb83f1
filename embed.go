package inkpress

import "embed"

// EmbeddedAssets contains static assets shipped with the engine:
// inkpress.css, the default stylesheet used by the theme package.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
