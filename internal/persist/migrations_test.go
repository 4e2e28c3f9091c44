package persist

import (
	"strings"
	"testing"
)

func TestEmbeddedMigrations(t *testing.T) {
	ms, err := embeddedMigrations()
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) == 0 {
		t.Fatal("no migrations embedded")
	}
	if ms[0].Version != 1 {
		t.Fatalf("first migration version = %d, want 1", ms[0].Version)
	}
	raw, err := migrations.ReadFile("migrations/00001_create_snapshots.sql")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "world_snapshots") {
		t.Fatal("snapshot migration does not create world_snapshots")
	}
}
