package batch

import "time"

// Outcome is the result of one formatting task. Exactly one Outcome is
// produced per candidate entry; a nil Err means the file was formatted and
// written back.
type Outcome struct {
	// Path is the candidate file path the task was dispatched for.
	Path string

	// Err is the per-file failure, if any. Engine errors, engine panics,
	// enumeration errors and write-back errors all land here.
	Err error
}

// Failed reports whether the task failed.
func (o Outcome) Failed() bool { return o.Err != nil }

// Summary describes a completed batch.
type Summary struct {
	// Total is the number of candidate entries dispatched.
	Total int

	// Elapsed is the wall-clock duration of the dispatch-and-wait phase
	// only; settings resolution and expansion are not included.
	Elapsed time.Duration
}

// Config holds executor configuration.
type Config struct {
	// Workers is the worker pool size. Zero means one worker per CPU.
	Workers int

	// RateLimit caps started tasks per second. Zero means unlimited.
	RateLimit int
}
