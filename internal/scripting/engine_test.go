package scripting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestScoreTickCallsHook(t *testing.T) {
	e, err := NewEngineFromSource(`
function on_tick(ctx)
  if ctx.tick % 2 == 0 then
    return ctx.score + 4 * ctx.dt
  end
  return ctx.score + 1
end
`, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	got, err := e.ScoreTick(ScoreContext{Score: 1, DT: 0.5, Tick: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Fatalf("score = %v, want 3", got)
	}
	got, err = e.ScoreTick(ScoreContext{Score: 1, Tick: 3})
	if err != nil || got != 2 {
		t.Fatalf("score = %v, %v; want 2", got, err)
	}
}

func TestScoreTickErrors(t *testing.T) {
	e, err := NewEngineFromSource(`x = 1`, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if e.HasHook() {
		t.Fatal("HasHook true without on_tick")
	}
	if got, err := e.ScoreTick(ScoreContext{Score: 7}); !errors.Is(err, ErrNoHook) || got != 7 {
		t.Fatalf("ScoreTick = %v, %v", got, err)
	}

	bad, err := NewEngineFromSource(`function on_tick(ctx) return "high" end`, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer bad.Close()
	if _, err := bad.ScoreTick(ScoreContext{}); err == nil {
		t.Fatal("string return accepted")
	}

	raising, err := NewEngineFromSource(`function on_tick(ctx) error("nope") end`, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer raising.Close()
	if _, err := raising.ScoreTick(ScoreContext{}); err == nil {
		t.Fatal("lua error not reported")
	}
}

func TestNewEngineLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a_helpers.lua": "function bonus() return 10 end",
		"b_score.lua":   "function on_tick(ctx) return ctx.score + bonus() end",
		"notes.txt":     "not lua",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	got, err := e.ScoreTick(ScoreContext{Score: 5})
	if err != nil || got != 15 {
		t.Fatalf("ScoreTick = %v, %v; want 15", got, err)
	}

	empty, err := NewEngine(filepath.Join(dir, "missing"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer empty.Close()
	if empty.HasHook() {
		t.Fatal("empty engine has hook")
	}

	if _, err := NewEngineFromSource("function (", zap.NewNop()); err == nil {
		t.Fatal("syntax error accepted")
	}
}
