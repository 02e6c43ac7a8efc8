// Package idreg implements a lock-free, multi-threaded identifier registry.
//
// idreg issues opaque integer handles that name arbitrary library objects
// (files, groups, datasets, property lists, ...), tracks a per-handle
// reference count, and guarantees safe concurrent lookup, registration and
// release across many goroutines without a global lock. It is a direct
// generalization of the "ID registry" subsystem found at the core of
// scientific data libraries: callers register an object under a type and
// get back a handle; other goroutines may look the handle up, bump or drop
// its reference count, or iterate all live handles of a type, all without
// blocking each other except for the narrow, single-writer window a given
// handle's own state machine requires.
//
// Example usage:
//
//	reg := idreg.NewRegistry(idreg.DefaultConfig())
//	fileType, _ := reg.RegisterType(idreg.ClassDescriptor{
//		TypeTag:  idreg.Type(1),
//		FreeFunc: closeFile,
//	})
//	h, _ := reg.Register(fileType, myFile, true, nil, nil)
//	obj, _ := reg.Lookup(h)
//	reg.DecRef(h, true, nil)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

const (
	// Version of the idreg module.
	Version = "v0.1.0-dev"

	// DefaultTypeBits is the default width of the type-tag field of a handle.
	DefaultTypeBits = 8

	// DefaultIDBits is the default width of the per-type index field of a
	// handle. DefaultTypeBits + DefaultIDBits must equal 63.
	DefaultIDBits = 55

	// DefaultMaxTypes is the default number of type-info slots reserved in
	// a Registry, including the reserved slot 0.
	DefaultMaxTypes = 128

	// DefaultFreeListWatermark is the default high-water mark used by the
	// free-list trimming heuristic in §4.6 of the design.
	DefaultFreeListWatermark = 256
)
