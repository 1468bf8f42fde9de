package stats

import "time"

// Clock returns the current time.
type Clock func() time.Time

// Stopwatch measures active typing time. It keeps an accumulated duration
// plus the instant it was last resumed; only one of the two grows at a time.
type Stopwatch struct {
	clock   Clock
	elapsed time.Duration
	since   time.Time
	running bool
}

// NewStopwatch returns a stopped stopwatch driven by clock.
func NewStopwatch(clock Clock) *Stopwatch {
	if clock == nil {
		clock = time.Now
	}
	return &Stopwatch{clock: clock}
}

// Start resets the stopwatch and starts it.
func (s *Stopwatch) Start() {
	s.elapsed = 0
	s.since = s.clock()
	s.running = true
}

// Pause folds the running interval into the accumulator. Pausing a stopped
// stopwatch does nothing.
func (s *Stopwatch) Pause() {
	if !s.running {
		return
	}
	s.elapsed += s.clock().Sub(s.since)
	s.running = false
}

// Resume starts a new running interval.
func (s *Stopwatch) Resume() {
	if s.running {
		return
	}
	s.since = s.clock()
	s.running = true
}

// Running reports whether time is being accumulated.
func (s *Stopwatch) Running() bool {
	return s.running
}

// Elapsed returns the accumulated time, including the current interval
// when running. It does not modify the stopwatch.
func (s *Stopwatch) Elapsed() time.Duration {
	if !s.running {
		return s.elapsed
	}
	return s.elapsed + s.clock().Sub(s.since)
}
