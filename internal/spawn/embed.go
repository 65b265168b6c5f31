// Package spawn provides the embedded spawn table that maps depths to the
// entity names generators may request.
package spawn

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
