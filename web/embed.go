package web

import "embed"

// TemplatesFS embeds the HTML templates for server-side rendering.
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets (stylesheets).
//go:embed static/*
var StaticFS embed.FS
