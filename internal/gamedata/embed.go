// Package gamedata provides embedded generator data and utilities for loading it.
package gamedata

import "embed"

// dataFS embeds the example bitmaps and the cell palette at build time.
//
//go:embed *.json
var dataFS embed.FS
