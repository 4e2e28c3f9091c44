package component

import (
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"monday":    time.Monday,
		"WEDNESDAY": time.Wednesday,
		" Sunday ":  time.Sunday,
		"sat":       time.Saturday,
		"tHu":       time.Thursday,
	}
	for in, want := range cases {
		got, err := ParseWeekday(in)
		if err != nil {
			t.Errorf("ParseWeekday(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", in, got, want)
		}
	}
	for _, bad := range []string{"", "mon day", "funday", "su"} {
		if _, err := ParseWeekday(bad); err == nil {
			t.Errorf("ParseWeekday(%q) succeeded", bad)
		}
	}
}

func TestDayAdvanceWraps(t *testing.T) {
	d := &Day{Day: time.Saturday}
	d.Advance()
	if d.Day != time.Sunday {
		t.Fatalf("after Saturday got %v", d.Day)
	}
	d.Day = time.Monday
	for i := 0; i < 7; i++ {
		d.Advance()
	}
	if d.Day != time.Monday {
		t.Fatalf("seven advances from Monday gave %v", d.Day)
	}
}

func TestClockOffset(t *testing.T) {
	c := &Clock{}
	if c.Synced() || c.Offset() != 0 {
		t.Fatal("fresh clock reports a sync")
	}
	local := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.Remote = local.Add(1500 * time.Millisecond)
	c.FetchedAt = local
	c.Fetches = 1
	if c.Offset() != 1500*time.Millisecond {
		t.Fatalf("Offset = %v", c.Offset())
	}
	if KindName(c.Kind()) != "Clock" {
		t.Fatalf("KindName = %q", KindName(c.Kind()))
	}
}
