package idreg

import (
	"testing"
	"time"
)

func TestTunerHandleChangeAppliesNestedSection(t *testing.T) {
	reg := newTestRegistry(t)
	tu := &Tuner{
		reg: reg,
		last: tunables{
			SpinBackoffMin: reg.spinMin(),
			SpinBackoffMax: reg.spinMax(),
			StatsEnabled:   reg.statsOn(),
		},
	}

	var reloaded bool
	tu.OnReload = func(old, next tunables) { reloaded = true }

	tu.handleChange(map[string]interface{}{
		"registry": map[string]interface{}{
			"spin_backoff_min": "5us",
			"spin_backoff_max": "2ms",
			"stats_enabled":    true,
		},
	})

	if !reloaded {
		t.Fatal("OnReload was not called")
	}
	if got := reg.spinMin(); got != 5*time.Microsecond {
		t.Errorf("spinMin() = %v, want 5us", got)
	}
	if got := reg.spinMax(); got != 2*time.Millisecond {
		t.Errorf("spinMax() = %v, want 2ms", got)
	}
	if !reg.statsOn() {
		t.Error("statsOn() = false, want true")
	}
}

func TestTunerHandleChangeAppliesFlatSection(t *testing.T) {
	reg := newTestRegistry(t)
	tu := &Tuner{reg: reg, last: tunables{SpinBackoffMin: reg.spinMin(), SpinBackoffMax: reg.spinMax()}}

	tu.handleChange(map[string]interface{}{
		"spin_backoff_min": "1us",
		"spin_backoff_max": "1us",
	})

	if got := reg.spinMin(); got != time.Microsecond {
		t.Errorf("spinMin() = %v, want 1us", got)
	}
}

func TestTunerHandleChangeIgnoresUnrelatedPayload(t *testing.T) {
	reg := newTestRegistry(t)
	before := tunables{SpinBackoffMin: reg.spinMin(), SpinBackoffMax: reg.spinMax(), StatsEnabled: reg.statsOn()}
	tu := &Tuner{reg: reg, last: before}

	tu.handleChange(map[string]interface{}{"unrelated": "value"})

	if tu.Current() != before {
		t.Errorf("Current() = %+v after unrelated payload, want unchanged %+v", tu.Current(), before)
	}
}

func TestTunerHandleChangeIgnoresInvalidDuration(t *testing.T) {
	reg := newTestRegistry(t)
	before := reg.spinMin()
	tu := &Tuner{reg: reg, last: tunables{SpinBackoffMin: before}}

	tu.handleChange(map[string]interface{}{
		"registry": map[string]interface{}{"spin_backoff_min": "not-a-duration"},
	})

	if reg.spinMin() != before {
		t.Errorf("spinMin() changed on invalid input: got %v, want unchanged %v", reg.spinMin(), before)
	}
}

func TestNewTunerRequiresConfigPath(t *testing.T) {
	reg := newTestRegistry(t)
	if _, err := NewTuner(reg, TunerOptions{}); err == nil {
		t.Fatal("NewTuner with empty ConfigPath succeeded, want error")
	}
}
