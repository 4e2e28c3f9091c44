package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	"gopkg.in/yaml.v3"
)

type vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// EntitySeed describes one entity's initial components. Absent keys mean the
// entity does not get that component.
type EntitySeed struct {
	Name     string   `yaml:"name"`
	Number   *int     `yaml:"number"`
	Day      string   `yaml:"day"`
	Position *vec2    `yaml:"position"`
	Velocity *vec2    `yaml:"velocity"`
	Score    *float64 `yaml:"score"`
	Clock    bool     `yaml:"clock"`
}

type seedFile struct {
	Entities []EntitySeed `yaml:"entities"`
}

// Seed is the parsed initial world population.
type Seed struct {
	Entities []EntitySeed
}

// Count returns the number of seeded entities.
func (s *Seed) Count() int {
	return len(s.Entities)
}

// LoadSeed loads the initial entities from a YAML file.
func LoadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	s, err := ParseSeed(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseSeed decodes and validates seed YAML.
func ParseSeed(raw []byte) (*Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i, e := range f.Entities {
		if _, err := e.Components(); err != nil {
			return nil, fmt.Errorf("entity %d (%s): %w", i, e.Name, err)
		}
	}
	return &Seed{Entities: f.Entities}, nil
}

// Components builds the component instances for this seed.
func (e EntitySeed) Components() ([]ecs.Component, error) {
	var cs []ecs.Component
	if e.Number != nil {
		cs = append(cs, &component.Number{Value: *e.Number})
	}
	if e.Day != "" {
		d, err := component.ParseWeekday(e.Day)
		if err != nil {
			return nil, err
		}
		cs = append(cs, &component.Day{Day: d})
	}
	if e.Position != nil {
		cs = append(cs, &component.Position{X: e.Position.X, Y: e.Position.Y})
	}
	if e.Velocity != nil {
		cs = append(cs, &component.Velocity{X: e.Velocity.X, Y: e.Velocity.Y})
	}
	if e.Score != nil {
		cs = append(cs, &component.Score{Value: *e.Score})
	}
	if e.Clock {
		cs = append(cs, &component.Clock{})
	}
	return cs, nil
}

// Spawn creates one entity per seed, in file order.
func (s *Seed) Spawn(w *ecs.World) ([]*ecs.Entity, error) {
	out := make([]*ecs.Entity, 0, len(s.Entities))
	for i, seed := range s.Entities {
		cs, err := seed.Components()
		if err != nil {
			return out, fmt.Errorf("entity %d (%s): %w", i, seed.Name, err)
		}
		out = append(out, w.NewEntity(cs...))
	}
	return out, nil
}
