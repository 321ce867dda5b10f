package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func fixedClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeFile, true},
		{LevelPhase, ScopePass, false},
		{LevelDetail, ScopePass, true},
		{LevelDetail, ScopeSymbol, false},
		{LevelDebug, ScopeSymbol, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestStartNestsSpans(t *testing.T) {
	fixedClock(t)
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, file := Start(ctx, ScopeFile, "file:a.c")
	_, pass := Start(ctx, ScopePass, "scan")
	pass.WithExtra("tokens", "12").End("")
	// filtered out at LevelDetail, children attach to the file span
	sctx, sym := Start(ctx, ScopeSymbol, "printf")
	if CurrentSpan(sctx).SpanID != file.ID() {
		t.Fatalf("disabled span must not replace the parent")
	}
	sym.End("")
	file.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		Name     string            `json:"name"`
		ParentID uint64            `json:"parent_id"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "scan" || ev.ParentID != file.ID() || ev.Extra["tokens"] != "12" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestTextFormat(t *testing.T) {
	ev := &Event{
		Time:  time.Date(2024, 1, 2, 3, 4, 5, 6e6, time.UTC),
		Kind:  KindSpanEnd,
		Scope: ScopePass,
		Name:  "resolve",
		Extra: map[string]string{"b": "2", "a": "1"},
	}
	got := string(FormatEvent(ev, FormatText))
	want := "03:04:05.006     ← resolve {a=1, b=2}\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestErrorPassesLevelError(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatText)
	Point(tr, ScopeDriver, "ignored", "", 0)
	Error(tr, ScopeFile, "file:x.c", "boom")
	if !strings.Contains(buf.String(), "! file:x.c (boom)") || strings.Contains(buf.String(), "ignored") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestNewOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("expected disabled tracer, got %v %v", tr, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
