// Package profiling keeps per-frame CPU timings and draw counters.
package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	frame       Counters
)

// Counters are the draw statistics of the current frame.
type Counters struct {
	DrawCalls int
	Instances int
	Uploads   int
}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("renderer.DrawRectangles")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// CountDraw records one draw call covering instances instances.
func CountDraw(instances int) {
	mu.Lock()
	frame.DrawCalls++
	frame.Instances += instances
	mu.Unlock()
}

// CountUpload records buffer uploads.
func CountUpload(n int) {
	mu.Lock()
	frame.Uploads += n
	mu.Unlock()
}

// Frame returns the counters accumulated since the last ResetFrame.
func Frame() Counters {
	mu.Lock()
	defer mu.Unlock()
	return frame
}

// ResetFrame clears timings and counters. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	frame = Counters{}
	mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// SumWithPrefix totals every timing whose name starts with prefix.
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for k, v := range frameTotals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the n slowest timings of the current frame.
// Example: "renderer.DrawCircles:4.2ms, renderer.DrawTexture:2.1ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+formatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing .0.
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}
