// Package render prints world state after each tick. It is the host's
// drawing step and only reads the world between Update calls.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
)

// Console writes one line per entity followed by a "---" separator.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Render writes the current state of w. Entities without any component are
// skipped.
func (c *Console) Render(w *ecs.World) error {
	var b strings.Builder
	for _, e := range w.Entities() {
		if line := describe(e); line != "" {
			fmt.Fprintf(&b, "Entity %d: %s\n", e.ID(), line)
		}
	}
	b.WriteString("---\n")
	_, err := io.WriteString(c.out, b.String())
	return err
}

func describe(e *ecs.Entity) string {
	var parts []string
	if n, ok := ecs.Get[*component.Number](e, component.KindNumber); ok {
		parts = append(parts, fmt.Sprintf("Number = %d", n.Value))
	}
	if d, ok := ecs.Get[*component.Day](e, component.KindDay); ok {
		parts = append(parts, fmt.Sprintf("Day = %s", d.Day))
	}
	if p, ok := ecs.Get[*component.Position](e, component.KindPosition); ok {
		parts = append(parts, fmt.Sprintf("Position = (%.2f, %.2f)", p.X, p.Y))
	}
	if s, ok := ecs.Get[*component.Score](e, component.KindScore); ok {
		parts = append(parts, fmt.Sprintf("Score = %.2f", s.Value))
	}
	if ck, ok := ecs.Get[*component.Clock](e, component.KindClock); ok {
		if ck.Synced() {
			parts = append(parts, fmt.Sprintf("Clock = %s (%s, offset %s)",
				ck.Remote.Format(time.RFC3339), ck.Source, ck.Offset().Round(time.Millisecond)))
		} else {
			parts = append(parts, "Clock = unsynced")
		}
	}
	return strings.Join(parts, ", ")
}
