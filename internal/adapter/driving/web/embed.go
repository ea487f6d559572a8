// Package web serves the submission form and its static assets from an
// embedded filesystem.
package web

import "embed"

// StaticFS holds the embedded form page and its assets.
//
//go:embed static/*
var StaticFS embed.FS
