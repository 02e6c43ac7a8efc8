// interfaces.go: external collaborator contracts for idreg
//
// These are the interfaces the CORE consumes but does not implement: the
// class descriptor and its free_func, future-handle realize/discard
// callbacks, the iterate visitor, the outer library mutex, and the ambient
// Logger/TimeProvider/MetricsCollector trio. See §6 of the design.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

// ClassFlag is a bitset of per-type behavior flags carried by a
// ClassDescriptor.
type ClassFlag uint32

const (
	// ClassIsApplication marks a type registered by application code rather
	// than by the library itself. It is reported by IsApplication;
	// DestroyType does not treat such a descriptor differently from any
	// other.
	ClassIsApplication ClassFlag = 1 << iota

	// ClassIsMTSafe marks a type whose object extractor is already safe for
	// concurrent invocation, so unwrapObject skips the outer-mutex
	// bracketing of §4.8 for it. FreeFunc is never bracketed by the core,
	// whether or not this flag is set.
	ClassIsMTSafe
)

// FreeFunc releases the object backing a handle when its reference count
// drops to zero. asyncToken is opaque caller-supplied context threaded
// through from DecRef (e.g. an async request token; ClearType passes nil,
// and Remove never calls FreeFunc); FreeFunc
// returns a non-nil error on failure, in which case §4.3/§4.10 still mark
// the record deleted on a force/always-close path.
type FreeFunc func(object interface{}, asyncToken interface{}) error

// ClassDescriptor is supplied by the caller of RegisterType and copied by
// value into the type's record. The registry has no destroy hook for it:
// DestroyType does nothing with the descriptor, with or without
// ClassIsApplication.
type ClassDescriptor struct {
	// TypeTag is the desired type slot in [1, MaxTypes).
	TypeTag Type

	// ReservedInitialIndex is the starting value of the type's nextid
	// allocator.
	ReservedInitialIndex uint64

	// Flags is a bitset of ClassIsApplication / ClassIsMTSafe.
	Flags ClassFlag

	// FreeFunc is invoked at final release of a handle's reference count.
	// May be nil, in which case the final dec_ref marks the record deleted
	// without calling anything.
	FreeFunc FreeFunc
}

// IsApplication reports whether c carries ClassIsApplication.
func (c ClassDescriptor) IsApplication() bool { return c.Flags&ClassIsApplication != 0 }

// IsMTSafe reports whether c carries ClassIsMTSafe.
func (c ClassDescriptor) IsMTSafe() bool { return c.Flags&ClassIsMTSafe != 0 }

// RealizeFunc resolves a future handle's placeholder into the handle of the
// actual, already-registered object. See §4.5.
type RealizeFunc func(placeholder interface{}) (Handle, error)

// DiscardFunc releases a future handle's placeholder once realization has
// extracted the real object. See §4.5.
type DiscardFunc func(placeholder interface{}) error

// VisitorStatus is the tri-state result of an iterate Visitor invocation.
type VisitorStatus int

const (
	// VisitorContinue asks Iterate to proceed to the next record.
	VisitorContinue VisitorStatus = 0
	// VisitorStopSuccess asks Iterate to stop and report success.
	VisitorStopSuccess VisitorStatus = 1
	// VisitorStopError asks Iterate to stop and report a failure.
	VisitorStopError VisitorStatus = -1
)

// Visitor is invoked by Iterate for each surviving (unmarked, and
// app-ref-filtered if requested) record of a type. Its return value is
// preserved verbatim by Iterate: VisitorStopError stops iteration and
// reports an error, VisitorStopSuccess stops iteration and reports
// success, VisitorContinue continues.
//
// Caller obligation (§9 open question 3): Visitor is invoked while the
// record's do-not-disturb token is held. A Visitor that looks up the same
// handle it was called with will deadlock unless it reenters through a
// Locked method (LookupLocked, IncRefLocked, DecRefLocked, and so on) of the
// same Registry that invoked it: that family asserts holdsOuterMutex=true
// into the wait loop, which is what lets the reentrancy bypass of §5 apply
// (the calling goroutine already holds the OuterMutex and the token owner
// recorded haveGlobalMutex). Reentering through the plain, unlocked method
// names spins forever.
type Visitor func(object interface{}, h Handle, udata interface{}) VisitorStatus

// OuterMutex models the outer library's "global API mutex" (§1: a
// deliberately external collaborator), held by the embedding application for
// the duration of whichever idreg call it is making. unwrapObject (unwrap.go)
// is the only place the registry itself calls Lock/Unlock; every other
// callback site (FreeFunc, DiscardFunc, Visitor) instead trusts the
// holdsOuterMutex flag threaded down from the Locked/non-Locked method the
// application chose, per §4.8.
type OuterMutex interface {
	Lock()
	Unlock()
}

// Unwrapper extracts the concrete object named by a registered payload for
// a given type, for the small fixed set of indirection-bearing types
// described in §4.8 (e.g. file/group/dataset/attribute/datatype wrappers).
// A Registry with no Unwrapper configured treats every stored object as
// already concrete (unwrap is the identity function).
type Unwrapper func(object interface{}, t Type) (interface{}, error)

// Logger defines a minimal, allocation-conscious logging interface.
// Implementations should use structured logging and avoid allocating on
// the hot path when no sink is attached.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger discards every call. Used as the default Logger so the
// registry never needs a nil check on the hot path.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}
func (NoOpLogger) Info(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Warn(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider supplies monotonic-ish wall clock readings to the registry,
// used only for statistics timestamps (the registry itself has no TTL or
// expiration concept). Allows injecting go-timecache's cached clock.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	Now() int64
}

// MetricsCollector receives latency samples for registry operations. A nil
// collector is never stored on a Registry; NoOpMetricsCollector is used
// instead.
type MetricsCollector interface {
	RecordRegister(latencyNanos int64)
	RecordLookup(latencyNanos int64)
	RecordDecRef(latencyNanos int64)
}

// NoOpMetricsCollector discards every sample.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordRegister(int64) {}
func (NoOpMetricsCollector) RecordLookup(int64)   {}
func (NoOpMetricsCollector) RecordDecRef(int64)   {}
