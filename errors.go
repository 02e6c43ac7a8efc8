// errors.go: structured error taxonomy for idreg registry operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for all registry operations. The taxonomy follows §7 of the design.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for idreg registry operations, one per §7 taxonomy entry.
const (
	// BadRange: type tag out of bounds, handle encodes an invalid type, or
	// nextid is about to overflow its index field.
	ErrCodeBadRange errors.ErrorCode = "IDREG_BAD_RANGE"

	// BadGroup: the type slot is unallocated or has already been destroyed.
	ErrCodeBadGroup errors.ErrorCode = "IDREG_BAD_GROUP"

	// NotFound: the handle is not present in its type's table, or is marked.
	ErrCodeNotFound errors.ErrorCode = "IDREG_NOT_FOUND"

	// InUse: register-with-existing-id observed a live record already
	// occupying the requested handle.
	ErrCodeInUse errors.ErrorCode = "IDREG_IN_USE"

	// AllocFail: the free list was empty and heap allocation failed.
	ErrCodeAllocFail errors.ErrorCode = "IDREG_ALLOC_FAIL"

	// CallbackFailed: free_func, realize_cb, discard_cb, or the iterate
	// visitor returned a negative/error result.
	ErrCodeCallbackFailed errors.ErrorCode = "IDREG_CALLBACK_FAILED"

	// Internal: a CAS invariant was violated. Should be unreachable; a
	// registry that returns this is treated as having detected corruption
	// in its own bookkeeping.
	ErrCodeInternal errors.ErrorCode = "IDREG_INTERNAL"
)

const (
	msgBadRange       = "type tag or index out of range"
	msgBadGroup       = "type slot is unallocated or has been destroyed"
	msgNotFound       = "handle not found or marked for deletion"
	msgInUse          = "handle is already in use by a live record"
	msgAllocFail      = "free list empty and heap allocation failed"
	msgCallbackFailed = "callback returned an error"
	msgInternal       = "internal registry invariant violated"
)

// NewErrBadRange reports a type tag or handle index outside its configured
// bit field.
func NewErrBadRange(operation string, value interface{}) error {
	return errors.NewWithContext(ErrCodeBadRange, msgBadRange, map[string]interface{}{
		"operation": operation,
		"value":     value,
	})
}

// NewErrBadGroup reports an operation against an unallocated or destroyed
// type slot.
func NewErrBadGroup(t Type) error {
	return errors.NewWithField(ErrCodeBadGroup, msgBadGroup, "type", uint32(t))
}

// NewErrNotFound reports a handle that is absent from its type's table or
// whose record has already been marked for deletion.
func NewErrNotFound(h Handle) error {
	return errors.NewWithField(ErrCodeNotFound, msgNotFound, "handle", int64(h))
}

// NewErrInUse reports that register-with-existing-id found a live record
// already occupying the requested handle.
func NewErrInUse(h Handle) error {
	return errors.NewWithField(ErrCodeInUse, msgInUse, "handle", int64(h))
}

// NewErrAllocFail reports that neither the free list nor the heap could
// produce a new record.
func NewErrAllocFail(kind string) error {
	return errors.NewWithField(ErrCodeAllocFail, msgAllocFail, "kind", kind).AsRetryable()
}

// NewErrCallbackFailed wraps a failure returned by a user-supplied
// free_func, realize_cb, discard_cb, or iterate visitor.
func NewErrCallbackFailed(callback string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeCallbackFailed, msgCallbackFailed).
			WithContext("callback", callback)
	}
	return errors.NewWithField(ErrCodeCallbackFailed, msgCallbackFailed, "callback", callback)
}

// NewErrInternal reports a CAS invariant violation. These are treated as
// fatal per §7 and should never surface in a correctly operating registry.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternal, msgInternal).
			WithContext("operation", operation).
			WithSeverity("critical")
	}
	return errors.NewWithField(ErrCodeInternal, msgInternal, "operation", operation).
		WithSeverity("critical")
}

// IsNotFound reports whether err is (or wraps) a NotFound error.
func IsNotFound(err error) bool {
	return errors.HasCode(err, ErrCodeNotFound)
}

// IsBadRange reports whether err is (or wraps) a BadRange error.
func IsBadRange(err error) bool {
	return errors.HasCode(err, ErrCodeBadRange)
}

// IsBadGroup reports whether err is (or wraps) a BadGroup error.
func IsBadGroup(err error) bool {
	return errors.HasCode(err, ErrCodeBadGroup)
}

// IsInUse reports whether err is (or wraps) an InUse error.
func IsInUse(err error) bool {
	return errors.HasCode(err, ErrCodeInUse)
}

// IsCallbackFailed reports whether err is (or wraps) a CallbackFailed error.
func IsCallbackFailed(err error) bool {
	return errors.HasCode(err, ErrCodeCallbackFailed)
}

// IsRetryable reports whether err can be retried by the caller.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the structured error code carried by err, if any.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts the structured context map carried by err, if any.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var idregErr *errors.Error
	if goerrors.As(err, &idregErr) {
		return idregErr.Context
	}
	return nil
}
