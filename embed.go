package sigsite

import "embed"

// EmbeddedAssets contains the stylesheet shipped with the site, served at
// /public/site.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
