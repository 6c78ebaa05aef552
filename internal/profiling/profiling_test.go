package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	stop := Track("renderer.DrawRectangles")
	time.Sleep(2 * time.Millisecond)
	stop()
	Track("renderer.DrawRectangles")()

	snap := Snapshot()
	if snap["renderer.DrawRectangles"] < 2*time.Millisecond {
		t.Fatalf("recorded %v", snap["renderer.DrawRectangles"])
	}
	if SumWithPrefix("renderer.") != snap["renderer.DrawRectangles"] {
		t.Fatal("prefix sum mismatch")
	}
	if SumWithPrefix("atlas.") != 0 {
		t.Fatal("unrelated prefix should be zero")
	}
}

func TestCountersReset(t *testing.T) {
	ResetFrame()
	CountDraw(3)
	CountDraw(1)
	CountUpload(2)

	got := Frame()
	if got != (Counters{DrawCalls: 2, Instances: 4, Uploads: 2}) {
		t.Fatalf("counters %+v", got)
	}

	ResetFrame()
	if Frame() != (Counters{}) || len(Snapshot()) != 0 {
		t.Fatal("ResetFrame left state behind")
	}
}

func TestTopN(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["a"] = 1500 * time.Microsecond
	frameTotals["b"] = 4 * time.Millisecond
	frameTotals["c"] = 100 * time.Microsecond
	mu.Unlock()

	got := TopN(2)
	if got != "b:4ms, a:1.5ms" {
		t.Fatalf("TopN = %q", got)
	}
	if strings.Count(TopN(10), ",") != 2 {
		t.Fatalf("TopN(10) = %q", TopN(10))
	}
}
