// config.go: configuration for a Registry
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

import (
	"time"

	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for a Registry.
type Config struct {
	// TypeBits is the width of the type-tag field of a Handle. Must be > 0
	// and TypeBits+IDBits must equal 63. Default: DefaultTypeBits.
	TypeBits uint

	// IDBits is the width of the per-type index field of a Handle. Default:
	// DefaultIDBits.
	IDBits uint

	// MaxTypes is the number of type-info slots, including reserved slot 0.
	// Must be <= 1<<TypeBits. Default: DefaultMaxTypes.
	MaxTypes uint32

	// ReservedTypes is the number of low type slots reserved for
	// library-defined types (indices [1, ReservedTypes) per §3). NewRegistry
	// stores it as the starting point of an application type counter, but
	// no operation hands out type tags from it: RegisterType always uses the
	// caller's ClassDescriptor.TypeTag, in any slot of [1, MaxTypes).
	// Default: 1 (only the reserved slot 0).
	ReservedTypes uint32

	// SpinBackoffMin is the initial sleep duration used by the
	// do-not-disturb wait loop described in §5. Default: 1 microsecond.
	SpinBackoffMin time.Duration

	// SpinBackoffMax is the ceiling for the exponential backoff used while
	// waiting on a do-not-disturb token. This resolves design-note open
	// question 2 (the legacy one-second placeholder sleep is replaced with
	// a bounded exponential backoff). Default: 1 millisecond.
	SpinBackoffMax time.Duration

	// FreeListWatermark is the high-water mark used by the free-list
	// trimming heuristic of §4.6: Retire only calls free() on a retired
	// record once both the list length and the reallocable count exceed
	// this value. Default: DefaultFreeListWatermark.
	FreeListWatermark int

	// StatsEnabled toggles the per-operation and retry counters described
	// in §6, per §9's note that statistics counters may be gated behind a
	// flag. The entry, max-concurrency and allocation counters are kept
	// whether or not it is set.
	StatsEnabled bool

	// Unwrap extracts the concrete object for the small set of
	// indirection-bearing types described in §4.8. If nil, the identity
	// function is used (no type performs object unwrapping).
	Unwrap Unwrapper

	// OuterMutex models the outer library's global API mutex, held by the
	// caller for the duration of each Registry call; unwrapObject (§4.8) is
	// the only place the core acquires it itself. If nil, a private
	// *sync.Mutex is used.
	OuterMutex OuterMutex

	// Logger receives structured diagnostic events. Default: NoOpLogger.
	Logger Logger

	// TimeProvider supplies wall-clock readings for statistics. Default:
	// go-timecache's cached clock.
	TimeProvider TimeProvider

	// MetricsCollector receives per-operation latency samples. Default:
	// NoOpMetricsCollector.
	MetricsCollector MetricsCollector
}

// Validate normalizes c in place, filling every unset field with its
// documented default. It never returns a non-nil error for the current
// field set (mirroring the teacher's Validate, which only normalizes), but
// keeps the error return for forward compatibility with stricter checks.
func (c *Config) Validate() error {
	if c.TypeBits == 0 {
		c.TypeBits = DefaultTypeBits
	}
	if c.IDBits == 0 {
		c.IDBits = DefaultIDBits
	}
	if c.TypeBits+c.IDBits != 63 {
		c.IDBits = 63 - c.TypeBits
	}

	if c.MaxTypes == 0 {
		c.MaxTypes = DefaultMaxTypes
	}
	if limit := uint32(1) << c.TypeBits; c.MaxTypes > limit {
		c.MaxTypes = limit
	}

	if c.ReservedTypes == 0 {
		c.ReservedTypes = 1
	}

	if c.SpinBackoffMin <= 0 {
		c.SpinBackoffMin = time.Microsecond
	}
	if c.SpinBackoffMax <= 0 {
		c.SpinBackoffMax = time.Millisecond
	}
	if c.SpinBackoffMax < c.SpinBackoffMin {
		c.SpinBackoffMax = c.SpinBackoffMin
	}

	if c.FreeListWatermark <= 0 {
		c.FreeListWatermark = DefaultFreeListWatermark
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a Config with sensible defaults applied.
func DefaultConfig() Config {
	c := Config{}
	_ = c.Validate()
	return c
}

// systemTimeProvider is the default time provider, using go-timecache for
// ~121x faster time access compared to time.Now() with zero allocations.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
