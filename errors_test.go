package idreg

import "testing"

func TestErrorPredicates(t *testing.T) {
	cases := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"BadRange", NewErrBadRange("op", 1), IsBadRange},
		{"BadGroup", NewErrBadGroup(1), IsBadGroup},
		{"NotFound", NewErrNotFound(1), IsNotFound},
		{"InUse", NewErrInUse(1), IsInUse},
		{"CallbackFailed", NewErrCallbackFailed("cb", nil), IsCallbackFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.pred(tc.err) {
				t.Errorf("predicate for %s returned false on its own constructor's error", tc.name)
			}
		})
	}
}

func TestErrorPredicatesRejectMismatches(t *testing.T) {
	notFound := NewErrNotFound(1)
	if IsBadRange(notFound) {
		t.Error("IsBadRange(NotFound) = true, want false")
	}
	if IsInUse(notFound) {
		t.Error("IsInUse(NotFound) = true, want false")
	}
}

func TestErrorPredicatesNilSafe(t *testing.T) {
	if IsNotFound(nil) || IsBadRange(nil) || IsBadGroup(nil) || IsInUse(nil) || IsCallbackFailed(nil) {
		t.Error("a predicate returned true for a nil error")
	}
	if IsRetryable(nil) {
		t.Error("IsRetryable(nil) = true, want false")
	}
	if GetErrorCode(nil) != "" {
		t.Error("GetErrorCode(nil) is non-empty")
	}
	if GetErrorContext(nil) != nil {
		t.Error("GetErrorContext(nil) is non-nil")
	}
}

func TestAllocFailIsRetryable(t *testing.T) {
	err := NewErrAllocFail("idInfo")
	if !IsRetryable(err) {
		t.Error("NewErrAllocFail result is not retryable, want retryable")
	}
}

func TestCallbackFailedWrapsCause(t *testing.T) {
	cause := NewErrNotFound(5)
	wrapped := NewErrCallbackFailed("free_func", cause)
	if !IsCallbackFailed(wrapped) {
		t.Error("wrapped callback error lost its CallbackFailed code")
	}
	if GetErrorCode(wrapped) != ErrCodeCallbackFailed {
		t.Errorf("GetErrorCode(wrapped) = %v, want %v", GetErrorCode(wrapped), ErrCodeCallbackFailed)
	}
}
