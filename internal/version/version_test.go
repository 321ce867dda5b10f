package version

import (
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, msg, date string) {
	t.Helper()
	orig := [...]string{Version, GitCommit, GitMessage, BuildDate}
	Version, GitCommit, GitMessage, BuildDate = v, commit, msg, date
	t.Cleanup(func() {
		Version, GitCommit, GitMessage, BuildDate = orig[0], orig[1], orig[2], orig[3]
	})
}

func TestColoredWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	withVersion(t, "1.2.3-rc.1", "", "", "")
	if got := Colored(); got != "1.2.3-rc.1" {
		t.Fatalf("Colored() = %q", got)
	}
	withVersion(t, "2.0", "", "", "")
	if got := Colored(); got != "2.0" {
		t.Fatalf("Colored() = %q", got)
	}
}

func TestDetails(t *testing.T) {
	withVersion(t, "1.0.0", "", "", "")
	if got := Details(); len(got) != 0 {
		t.Fatalf("expected no details, got %v", got)
	}

	withVersion(t, "1.0.0", "abc123", "", "2024-01-15T10:30:00Z")
	got := Details()
	want := []string{"commit:  abc123", "built:   2024-01-15T10:30:00Z"}
	if len(got) != len(want) {
		t.Fatalf("Details() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Details()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
