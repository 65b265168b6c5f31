// Package data provides embedded hand-authored seed maps.
package data

import "embed"

// dataFS embeds all prefab maps from the data directory at build time.
//
//go:embed *.txt
var dataFS embed.FS

// FS returns the embedded filesystem containing the prefab maps.
func FS() embed.FS {
	return dataFS
}
