package roam

import (
	"time"
)

const DefaultMaxDelta = 100 * time.Millisecond

type Time struct {
	Time time.Time
	Dt   time.Duration
	// MaxDelta caps Delta.
	MaxDelta time.Duration
}

// Delta is the last frame's duration in seconds, capped at MaxDelta.
func (t *Time) Delta() float32 {
	dt := t.Dt
	if t.MaxDelta > 0 && dt > t.MaxDelta {
		dt = t.MaxDelta
	}
	if dt < 0 {
		dt = 0
	}
	return float32(dt.Seconds())
}

func (t *Time) advance(now time.Time) {
	t.Dt = now.Sub(t.Time)
	t.Time = now
}

// FramePacer holds each frame to Interval by sleeping out the remainder. A frame
// that overruns by more than a whole interval restarts the schedule instead of
// being made up with shorter frames.
type FramePacer struct {
	Interval time.Duration

	next  time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

func NewFramePacer(targetFPS int) *FramePacer {
	p := &FramePacer{now: time.Now, sleep: time.Sleep}
	if targetFPS > 0 {
		p.Interval = time.Second / time.Duration(targetFPS)
	}
	return p
}

// Wait blocks until the current frame's deadline. It never blocks when
// Interval is zero.
func (p *FramePacer) Wait() {
	if p.Interval <= 0 {
		return
	}
	now := p.now()
	if p.next.IsZero() || now.Sub(p.next) > p.Interval {
		p.next = now
	}
	if d := p.next.Sub(now); d > 0 {
		p.sleep(d)
	}
	p.next = p.next.Add(p.Interval)
}

type TimeModule struct {
	MaxDelta time.Duration
	// TargetFPS paces the frame loop; zero runs unpaced.
	TargetFPS int
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	maxDelta := mod.MaxDelta
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}
	cmd.AddResources(
		&Time{
			Time:     time.Now(),
			MaxDelta: maxDelta,
		},
		NewFramePacer(mod.TargetFPS),
	)
	cmd.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
	cmd.UseSystem(
		System(framePaceSystem).
			InStage(Finale).
			RunAlways(),
	)
}

func timeSystem(t *Time) {
	t.advance(time.Now())
}

func framePaceSystem(p *FramePacer) {
	p.Wait()
}
