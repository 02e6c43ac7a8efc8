// tuning.go: dynamic retuning of backoff and statistics parameters via Argus
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// Tuner watches a configuration file and retunes a Registry's runtime
// parameters as it changes, without requiring the Registry to be rebuilt.
// Only the parameters that can safely change after construction are
// retuned: TypeBits, IDBits and MaxTypes are baked into the codec and the
// type-slot arrays at NewRegistry time and are never touched here.
type Tuner struct {
	reg     *Registry
	watcher *argus.Watcher
	mu      sync.RWMutex
	last    tunables

	// OnReload is called after a configuration change has been applied.
	// Must be fast and non-blocking.
	OnReload func(old, new tunables)

	logger Logger
}

// tunables is the subset of Config a Tuner may adjust at runtime.
type tunables struct {
	SpinBackoffMin time.Duration
	SpinBackoffMax time.Duration
	StatsEnabled   bool
}

// TunerOptions configures a Tuner.
type TunerOptions struct {
	// ConfigPath is the file to watch. Supports JSON, YAML, TOML, HCL, INI,
	// Properties — whatever Argus's format detector recognizes.
	ConfigPath string

	// PollInterval is how often to check for changes. Default 1s, floor
	// 100ms.
	PollInterval time.Duration

	OnReload func(old, new tunables)
	Logger   Logger
}

// NewTuner builds a Tuner over reg and starts watching opts.ConfigPath.
//
// Recognized keys, optionally nested under a "registry" section:
//
//	registry:
//	  spin_backoff_min: "1us"
//	  spin_backoff_max: "1ms"
//	  stats_enabled: true
func NewTuner(reg *Registry, opts TunerOptions) (*Tuner, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = reg.cfg.Logger
	}
	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	t := &Tuner{
		reg:      reg,
		OnReload: opts.OnReload,
		logger:   opts.Logger,
		last: tunables{
			SpinBackoffMin: reg.spinMin(),
			SpinBackoffMax: reg.spinMax(),
			StatsEnabled:   reg.statsOn(),
		},
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(
		opts.ConfigPath, t.handleChange, argus.Config{PollInterval: opts.PollInterval},
	)
	if err != nil {
		return nil, err
	}
	t.watcher = watcher
	return t, nil
}

// Start begins watching the configuration file.
func (t *Tuner) Start() error {
	if t.watcher.IsRunning() {
		return nil
	}
	return t.watcher.Start()
}

// Stop stops watching the configuration file.
func (t *Tuner) Stop() error {
	return t.watcher.Stop()
}

// Current returns the Tuner's most recently applied parameters.
func (t *Tuner) Current() tunables {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

func (t *Tuner) handleChange(data map[string]interface{}) {
	section, ok := data["registry"].(map[string]interface{})
	if !ok {
		if _, hasKey := data["spin_backoff_min"]; hasKey {
			section = data
		} else {
			return
		}
	}

	t.mu.Lock()
	old := t.last
	next := old
	if d, ok := parseTuningDuration(section["spin_backoff_min"]); ok {
		next.SpinBackoffMin = d
	}
	if d, ok := parseTuningDuration(section["spin_backoff_max"]); ok {
		next.SpinBackoffMax = d
	}
	if b, ok := section["stats_enabled"].(bool); ok {
		next.StatsEnabled = b
	}
	t.last = next
	t.mu.Unlock()

	t.apply(next)
	if t.OnReload != nil {
		t.OnReload(old, next)
	}
}

// apply pushes the retuned values into the live Registry's atomic tunables
// (registry.go), which backoff.go and every StatsEnabled check read through
// spinMin/spinMax/statsOn — race-free independent of Config, which is only
// a construction-time snapshot.
func (t *Tuner) apply(next tunables) {
	t.reg.spinBackoffMin.Store(int64(next.SpinBackoffMin))
	t.reg.spinBackoffMax.Store(int64(next.SpinBackoffMax))
	t.reg.statsEnabled.Store(next.StatsEnabled)
}

func parseTuningDuration(value interface{}) (time.Duration, bool) {
	if str, ok := value.(string); ok {
		if d, err := time.ParseDuration(str); err == nil && d > 0 {
			return d, true
		}
	}
	return 0, false
}
