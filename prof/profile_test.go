package prof

import (
	"strings"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	SnapshotAndReset()
	entries := []Entry{
		{Label: "sign", Dur: 2 * time.Millisecond},
		{Label: "keygen", Dur: 30 * time.Millisecond},
		{Label: "sign", Dur: 4 * time.Millisecond},
	}
	stats := Summarize(entries)
	if len(stats) != 2 {
		t.Fatalf("got %d labels, want 2", len(stats))
	}
	if stats[0].Label != "keygen" || stats[0].Count != 1 {
		t.Fatalf("first stat = %+v, want keygen x1", stats[0])
	}
	if stats[1].Label != "sign" || stats[1].Count != 2 || stats[1].Total != 6*time.Millisecond {
		t.Fatalf("second stat = %+v, want sign x2 total 6ms", stats[1])
	}
	if stats[1].Mean() != 3*time.Millisecond {
		t.Fatalf("sign mean = %v, want 3ms", stats[1].Mean())
	}
}

func TestTrackAndSnapshot(t *testing.T) {
	SnapshotAndReset()
	Track(time.Now().Add(-time.Millisecond), "stage")
	entries := SnapshotAndReset()
	if len(entries) != 1 || entries[0].Label != "stage" {
		t.Fatalf("entries = %+v, want one stage entry", entries)
	}
	if entries[0].Dur <= 0 {
		t.Fatalf("non-positive duration %v", entries[0].Dur)
	}
	if again := SnapshotAndReset(); len(again) != 0 {
		t.Fatalf("store not cleared: %+v", again)
	}
}

func TestReportFormat(t *testing.T) {
	var sb strings.Builder
	Report(&sb, []Entry{{Label: "verify", Dur: time.Millisecond}})
	if !strings.Contains(sb.String(), "verify") {
		t.Fatalf("report misses the label: %q", sb.String())
	}
}
