package session

import (
	"context"
	"sync"
	"time"
)

// Urgency is a presentational tier derived from remaining time. It never
// feeds back into timer behavior.
type Urgency string

const (
	UrgencyCalm     Urgency = "calm"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
)

// UrgencyThresholds holds the remaining/target ratios below which the
// display escalates.
type UrgencyThresholds struct {
	Critical float64
	Warning  float64
}

// DefaultUrgencyThresholds matches the classic <30% red, <60% yellow tiers.
var DefaultUrgencyThresholds = UrgencyThresholds{Critical: 0.3, Warning: 0.6}

// RestTimer is a second-granularity countdown between sets. It supports
// pause/resume, time extension and skip, and reports the actual elapsed
// active time back through its callbacks: onDone fires on natural expiry
// or skip (both alert), onClose fires on dismissal without completing
// (no alert). A target of zero or less completes immediately instead of
// counting negatively.
type RestTimer struct {
	mu        sync.Mutex
	target    int
	remaining int
	elapsed   int
	paused    bool
	finished  bool
	alert     func()
	onDone    func(elapsedSeconds int)
	onClose   func(elapsedSeconds int)
	cancel    context.CancelFunc
}

// NewRestTimer creates a countdown for the given target seconds. Callbacks
// may be nil. If seconds <= 0 the timer completes (and alerts) before
// returning.
func NewRestTimer(seconds int, alert func(), onDone, onClose func(elapsedSeconds int)) *RestTimer {
	t := &RestTimer{
		target:    seconds,
		remaining: seconds,
		alert:     alert,
		onDone:    onDone,
		onClose:   onClose,
	}
	if seconds <= 0 {
		t.remaining = 0
		t.mu.Lock()
		t.complete()
	}
	return t
}

// Run drives the countdown from a wall-clock ticker until it finishes or
// the context is cancelled. Cancelling stops further ticks but does not
// fire any callback; elapsed time stays readable.
func (t *RestTimer) Run(ctx context.Context) {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	ctx, t.cancel = context.WithCancel(ctx)
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if t.Tick(); t.Finished() {
					return
				}
			}
		}
	}()
}

// Tick advances the countdown by one second. Paused or finished timers
// ignore ticks, so pausing freezes both the display and the elapsed-time
// accounting.
func (t *RestTimer) Tick() {
	t.mu.Lock()
	if t.paused || t.finished {
		t.mu.Unlock()
		return
	}
	t.elapsed++
	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return
	}
	t.remaining = 0
	t.complete()
}

// complete finishes the timer with an alert. Caller must hold mu (or be
// the constructor); mu is released before callbacks run.
func (t *RestTimer) complete() {
	t.finished = true
	elapsed := t.elapsed
	alert, done := t.alert, t.onDone
	if t.cancel != nil {
		t.cancel()
	}
	t.mu.Unlock()

	if alert != nil {
		alert()
	}
	if done != nil {
		done(elapsed)
	}
}

// Pause stops the countdown without losing elapsed-time accounting.
func (t *RestTimer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
}

// Resume continues the countdown from where it paused.
func (t *RestTimer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = false
}

// Add extends the remaining time by n seconds.
func (t *RestTimer) Add(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return
	}
	t.remaining += n
}

// Skip ends the rest early, alerting and reporting elapsed time so far as
// a completion.
func (t *RestTimer) Skip() {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	t.complete()
}

// Close dismisses the timer without treating the rest as complete. The
// elapsed time is still reported, through the close callback, and no
// alert plays.
func (t *RestTimer) Close() {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	t.finished = true
	elapsed := t.elapsed
	closeFn := t.onClose
	if t.cancel != nil {
		t.cancel()
	}
	t.mu.Unlock()

	if closeFn != nil {
		closeFn(elapsed)
	}
}

// Remaining returns the seconds left on the countdown.
func (t *RestTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Elapsed returns the active seconds accumulated so far.
func (t *RestTimer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// Paused reports whether the countdown is paused.
func (t *RestTimer) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Finished reports whether the timer has completed or been closed.
func (t *RestTimer) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}

// Urgency classifies the remaining/target ratio against the thresholds.
func (t *RestTimer) Urgency(th UrgencyThresholds) Urgency {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.target <= 0 {
		return UrgencyCritical
	}
	ratio := float64(t.remaining) / float64(t.target)
	switch {
	case ratio < th.Critical:
		return UrgencyCritical
	case ratio < th.Warning:
		return UrgencyWarning
	default:
		return UrgencyCalm
	}
}
