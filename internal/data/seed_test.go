package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
)

const sample = `
entities:
  - name: first
    number: 0
    day: monday
  - name: second
    number: 10
    day: WEDNESDAY
    position: {x: 1, y: 2}
    velocity: {x: 0.5, y: -1}
    score: 3.5
    clock: true
  - name: bare
`

func TestParseSeedAndSpawn(t *testing.T) {
	s, err := ParseSeed([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if s.Count() != 3 {
		t.Fatalf("Count = %d, want 3", s.Count())
	}

	w := ecs.NewWorld(ecs.WithEntityPool(&ecs.EntityPool{}))
	es, err := s.Spawn(w)
	if err != nil {
		t.Fatal(err)
	}
	if len(es) != 3 || len(w.Entities()) != 3 {
		t.Fatalf("spawned %d entities", len(es))
	}

	n, ok := ecs.Get[*component.Number](es[0], component.KindNumber)
	if !ok || n.Value != 0 {
		t.Fatalf("first number = %v, %v", n, ok)
	}
	d, _ := ecs.Get[*component.Day](es[1], component.KindDay)
	if d == nil || d.Day != time.Wednesday {
		t.Fatalf("second day = %v", d)
	}
	if es[1].Len() != 6 {
		t.Fatalf("second has %d components, want 6", es[1].Len())
	}
	v, _ := ecs.Get[*component.Velocity](es[1], component.KindVelocity)
	if v == nil || v.Y != -1 {
		t.Fatalf("velocity = %v", v)
	}
	if es[2].Len() != 0 {
		t.Fatalf("bare entity has %d components", es[2].Len())
	}
}

func TestParseSeedRejectsBadDay(t *testing.T) {
	_, err := ParseSeed([]byte("entities:\n  - name: x\n    day: someday\n"))
	if err == nil || !strings.Contains(err.Error(), "someday") {
		t.Fatalf("err = %v", err)
	}
	if _, err := ParseSeed([]byte("entities: [")); err == nil {
		t.Fatal("broken yaml accepted")
	}
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entities.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSeed(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Entities[1].Name != "second" {
		t.Fatalf("entities = %+v", s.Entities)
	}
	if _, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}
