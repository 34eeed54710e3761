package tui

import "time"

type timerState int

const (
	timerStopped timerState = iota
	timerRunning
	timerPaused
)

// timerModel is the session stopwatch. It only measures time; the dashboard
// records the session when it stops.
type timerModel struct {
	now func() time.Time

	state     timerState
	startTime time.Time
	pausedAt  time.Time
	pauseGap  time.Duration

	// Idle detection
	lastActivity time.Time
	idleTimeout  time.Duration
	isIdle       bool
}

func newTimerModel(idleTimeout time.Duration) timerModel {
	return timerModel{
		now:          time.Now,
		state:        timerStopped,
		lastActivity: time.Now(),
		idleTimeout:  idleTimeout,
	}
}

func (t *timerModel) start() {
	now := t.now()
	t.state = timerRunning
	t.startTime = now
	t.pauseGap = 0
	t.lastActivity = now
	t.isIdle = false
}

// stop ends the session and returns its length, excluding paused time.
func (t *timerModel) stop() time.Duration {
	if t.state == timerStopped {
		return 0
	}
	d := t.currentElapsed()
	t.state = timerStopped
	t.isIdle = false
	return d
}

func (t *timerModel) pause() {
	if t.state != timerRunning {
		return
	}
	t.state = timerPaused
	t.pausedAt = t.now()
}

func (t *timerModel) resume() {
	if t.state != timerPaused {
		return
	}
	now := t.now()
	t.pauseGap += now.Sub(t.pausedAt)
	t.state = timerRunning
	t.isIdle = false
	t.lastActivity = now
}

func (t *timerModel) toggle() {
	switch t.state {
	case timerRunning:
		t.pause()
	case timerPaused:
		t.resume()
	}
}

// tick pauses a running session once no key was pressed for idleTimeout.
func (t *timerModel) tick() {
	if t.state != timerRunning || t.idleTimeout <= 0 {
		return
	}
	if t.now().Sub(t.lastActivity) > t.idleTimeout {
		t.isIdle = true
		t.pause()
	}
}

func (t *timerModel) recordActivity() {
	t.lastActivity = t.now()
	if t.isIdle && t.state == timerPaused {
		t.resume()
	}
}

func (t timerModel) running() bool {
	return t.state != timerStopped
}

func (t timerModel) paused() bool {
	return t.state == timerPaused
}

func (t timerModel) currentElapsed() time.Duration {
	switch t.state {
	case timerRunning:
		return t.now().Sub(t.startTime) - t.pauseGap
	case timerPaused:
		return t.pausedAt.Sub(t.startTime) - t.pauseGap
	}
	return 0
}
