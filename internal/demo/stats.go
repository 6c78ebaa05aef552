package demo

import (
	"g2d/internal/graphics"
	"g2d/internal/graphics/renderer"
	"g2d/internal/profiling"
	"log/slog"
	"time"
)

// StatsLogger logs frame counters at most once per interval while stats are
// enabled.
type StatsLogger struct {
	Interval time.Duration
	Enabled  func() bool

	frames int
	since  time.Duration
}

func (s *StatsLogger) Init(*renderer.Context) error {
	if s.Interval <= 0 {
		s.Interval = time.Second
	}
	return nil
}

func (s *StatsLogger) Render(ctx *renderer.Context, frame renderer.Frame) error {
	s.frames++
	s.since += time.Duration(frame.DT * float64(time.Second))
	if s.since < s.Interval {
		return nil
	}
	if s.Enabled == nil || s.Enabled() {
		st := ctx.Stats()
		graphics.Logger().Info("frame stats",
			slog.Int("fps", int(float64(s.frames)/s.since.Seconds())),
			slog.Int("drawCalls", st.DrawCalls),
			slog.Int("instances", st.Instances),
			slog.Int("uploads", st.Uploads),
			slog.Int("textures", st.Textures),
			slog.String("top", profiling.TopN(3)))
	}
	s.frames = 0
	s.since = 0
	return nil
}

func (s *StatsLogger) Dispose() {}
