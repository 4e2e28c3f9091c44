package component

import (
	"fmt"
	"strings"
	"time"

	"github.com/l1jgo/ecsim/internal/core/ecs"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Day tracks a weekday that advances in whole steps.
type Day struct {
	Day time.Weekday
}

func (*Day) Kind() ecs.ComponentKind { return KindDay }

// Advance moves to the following weekday; Saturday wraps to Sunday.
func (d *Day) Advance() {
	d.Day = (d.Day + 1) % 7
}

func (d *Day) String() string { return d.Day.String() }

var titleCaser = cases.Title(language.English)

// ParseWeekday accepts an English weekday name in any case ("monday",
// "WEDNESDAY") or its three-letter abbreviation.
func ParseWeekday(s string) (time.Weekday, error) {
	name := titleCaser.String(strings.ToLower(strings.TrimSpace(s)))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := d.String()
		if name == full || (len(name) == 3 && strings.HasPrefix(full, name)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
