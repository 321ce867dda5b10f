package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	i := tm.Begin("scan")
	tm.End(i, "42 tokens")
	j := tm.Begin("plan")
	tm.End(j, "")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "scan" || r.Phases[0].Note != "42 tokens" {
		t.Fatalf("unexpected report %+v", r)
	}
	if !strings.Contains(r.Summary(), "// 42 tokens") {
		t.Fatalf("summary misses note:\n%s", r.Summary())
	}
}

func TestSumKeepsOrder(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "scan", DurationMS: 1}, {Name: "plan", DurationMS: 2, Note: "x"}}}
	b := Report{TotalMS: 4, Phases: []PhaseReport{{Name: "plan", DurationMS: 1}, {Name: "apply", DurationMS: 3}}}
	got := Sum(a, b)
	if got.TotalMS != 7 {
		t.Fatalf("total = %v", got.TotalMS)
	}
	want := []PhaseReport{{Name: "scan", DurationMS: 1}, {Name: "plan", DurationMS: 3}, {Name: "apply", DurationMS: 3}}
	for i := range want {
		if got.Phases[i] != want[i] {
			t.Fatalf("phase %d = %+v, want %+v", i, got.Phases[i], want[i])
		}
	}
	var nilTimer *Timer
	if len(nilTimer.Report().Phases) != 0 {
		t.Fatal("nil timer must report nothing")
	}
}
