package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"autoinclude/internal/driver"
)

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("fixing", []string{"a.c", "b.c"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.c", Stage: driver.StageResolve, Status: driver.StatusWorking})
	if got := m.items[0].status; got != "resolving" {
		t.Fatalf("a.c status = %q, want resolving", got)
	}
	m.Update(eventMsg{File: "a.c", Stage: driver.StagePlan, Status: driver.StatusDone, Added: 2})
	m.Update(eventMsg{File: "b.c", Stage: driver.StageLoad, Status: driver.StatusError})
	// события для неизвестных файлов игнорируются
	m.Update(eventMsg{File: "zzz.c", Stage: driver.StagePlan, Status: driver.StatusDone, Added: 5})

	if m.added != 2 || m.finished() != 2 {
		t.Fatalf("added=%d finished=%d, want 2 and 2", m.added, m.finished())
	}
	if p := m.percent(); p != 1.0 {
		t.Fatalf("percent = %v, want 1", p)
	}

	view := m.View()
	for _, want := range []string{"fixing (2/2 files, 2 added)", "a.c (+2)", "error"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}

	m.Update(doneMsg{})
	if !strings.Contains(m.View(), "done: fixing") {
		t.Fatalf("expected done header:\n%s", m.View())
	}
}

func TestProgressFromStageIsMonotonic(t *testing.T) {
	stages := []driver.Stage{driver.StageLoad, driver.StageScan, driver.StageIncludes, driver.StageResolve, driver.StagePlan, driver.StageApply}
	prev := 0.0
	for _, s := range stages {
		p := progressFromStage(s)
		if p <= prev {
			t.Fatalf("stage %s: %v not above %v", s, p, prev)
		}
		prev = p
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("src/very/long/path.c", 10); got != "src/..." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("short.c", 10); got != "short.c" {
		t.Fatalf("got %q", got)
	}
}

func TestProgressModelInterrupt(t *testing.T) {
	m := NewProgressModel("fixing", []string{"a.c"}, make(chan driver.Event))
	if Interrupted(m) {
		t.Fatal("fresh model is not interrupted")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !Interrupted(m) {
		t.Fatal("ctrl+c must interrupt")
	}
}
