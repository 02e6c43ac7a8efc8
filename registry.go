// registry.go: process-wide (or test-local) global registry state
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

import (
	"sync"
	"sync/atomic"
	"time"
)

// Registry is the global registry state described in §3: the array of
// type-info pointers, the type-slot allocation bitmap, the per-type
// marking counters, the two safe-reclamation free lists, the active-thread
// counter, and statistics. Unlike the original design's single process-wide
// structure, a Registry here is an explicit, independently constructible
// object so tests (and independent subsystems within one process) can each
// have a fresh instance — per §9's design note.
type Registry struct {
	cfg   Config
	codec codec

	types     []atomic.Pointer[typeInfo]
	allocated []atomic.Bool
	nextType  atomic.Uint32

	marking []atomic.Int32

	idFreeList   *freeList[*idInfo]
	typeFreeList *freeList[*typeInfo]

	activeThreads atomic.Uint64
	// enterSeq/exitSeq bracket the quiescence snapshot described in §4.7:
	// if they are unchanged across an observation of activeThreads==0, no
	// goroutine entered or left during the window, so retired records may
	// be promoted to reallocable.
	enterSeq atomic.Uint64
	exitSeq  atomic.Uint64

	outerMutex OuterMutex
	unwrap     Unwrapper

	stats statsCounters

	// Runtime-tunable knobs, stored separately from cfg so Tuner (tuning.go)
	// can retune them without a data race against concurrent readers in
	// backoff.go and every StatsEnabled check.
	spinBackoffMin atomic.Int64
	spinBackoffMax atomic.Int64
	statsEnabled   atomic.Bool
}

// spinMin returns the current minimum do-not-disturb backoff duration.
func (r *Registry) spinMin() time.Duration { return time.Duration(r.spinBackoffMin.Load()) }

// spinMax returns the current maximum do-not-disturb backoff duration.
func (r *Registry) spinMax() time.Duration { return time.Duration(r.spinBackoffMax.Load()) }

// statsOn reports whether statistics counters are currently enabled.
func (r *Registry) statsOn() bool { return r.statsEnabled.Load() }

// NewRegistry constructs a Registry from cfg, applying Config.Validate's
// defaults first.
func NewRegistry(cfg Config) *Registry {
	_ = cfg.Validate()

	r := &Registry{
		cfg:       cfg,
		codec:     newCodec(cfg.TypeBits, cfg.IDBits),
		types:     make([]atomic.Pointer[typeInfo], cfg.MaxTypes),
		allocated: make([]atomic.Bool, cfg.MaxTypes),
		marking:   make([]atomic.Int32, cfg.MaxTypes),
		unwrap:    cfg.Unwrap,
	}
	r.nextType.Store(cfg.ReservedTypes)

	r.idFreeList = newFreeList[*idInfo](cfg.FreeListWatermark, func(*idInfo) {})
	r.typeFreeList = newFreeList[*typeInfo](cfg.FreeListWatermark, func(*typeInfo) {})

	if cfg.OuterMutex != nil {
		r.outerMutex = cfg.OuterMutex
	} else {
		r.outerMutex = &sync.Mutex{}
	}

	r.spinBackoffMin.Store(int64(cfg.SpinBackoffMin))
	r.spinBackoffMax.Store(int64(cfg.SpinBackoffMax))
	r.statsEnabled.Store(cfg.StatsEnabled)

	// Reserve slot 0, per §3: "Index 0 reserved."
	r.allocated[0].Store(true)

	return r
}

// Config returns a copy of the configuration the Registry was built with.
func (r *Registry) Config() Config { return r.cfg }
