package data

import "testing"

func TestLoadPrefab(t *testing.T) {
	for _, name := range PrefabNames() {
		rows, err := LoadPrefab(name)
		if err != nil {
			t.Fatalf("LoadPrefab(%q) failed: %v", name, err)
		}
		if len(rows) < 8 {
			t.Errorf("prefab %q has only %d rows", name, len(rows))
		}
	}
}

func TestPrefabNames(t *testing.T) {
	names := PrefabNames()
	want := map[string]bool{"crypt": false, "catacomb": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, found := range want {
		if !found {
			t.Errorf("Expected prefab %q not embedded", n)
		}
	}
}

func TestLoadPrefabMissing(t *testing.T) {
	if _, err := LoadPrefab("does-not-exist"); err == nil {
		t.Error("Expected error for missing prefab")
	}
}
