package data

import (
	"fmt"
	"io/fs"
	"strings"
)

// LoadPrefab returns the rows of the named prefab map (without the .txt
// extension). Trailing blank lines are dropped.
func LoadPrefab(name string) ([]string, error) {
	content, err := dataFS.ReadFile(name + ".txt")
	if err != nil {
		return nil, fmt.Errorf("failed to read prefab %s: %w", name, err)
	}

	rows := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	for len(rows) > 0 && strings.TrimSpace(rows[len(rows)-1]) == "" {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("prefab %s is empty", name)
	}
	return rows, nil
}

// PrefabNames lists the embedded prefabs in lexical order.
func PrefabNames() []string {
	matches, _ := fs.Glob(dataFS, "*.txt")
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, ".txt"))
	}
	return names
}
