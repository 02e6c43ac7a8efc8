// statsview.go: read-only diagnostic snapshot of a type's live handles
//
// Grounded on the retrieved NVIDIA-k8s-test-infra HandleTable (a
// uintptr->object table with a reverse index for debugging) and the
// retrieved caddyserver/caddy UsagePool (a refcounted construct-once map
// exposing its membership for inspection): neither is part of any hot
// path, both exist purely so an operator or test can ask "what is live
// right now". statsview.go is the same idea over a Registry's per-type
// hash table, built entirely on GetFirst/GetNext so it never competes for
// do_not_disturb with real traffic.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

// HandleSnapshot is one entry of a Snapshot: a live handle and the object
// it currently names (after unwrapping, per §4.8).
type HandleSnapshot struct {
	Handle Handle
	Object interface{}
}

// Snapshot returns a point-in-time (non-atomic, non-locking) list of every
// live handle of type t, for diagnostics and tests only. It is built from
// the same stateless GetFirst/GetNext walk Iterate uses, so the usual
// caveats apply: concurrent inserts and deletes may cause entries to be
// repeated or missed, and the result is stale the instant it is returned.
func (r *Registry) Snapshot(t Type) ([]HandleSnapshot, error) {
	var out []HandleSnapshot

	h, obj, err := r.GetFirst(t)
	for err == nil {
		out = append(out, HandleSnapshot{Handle: h, Object: obj})
		h, obj, err = r.GetNext(t, h)
	}
	if IsNotFound(err) {
		return out, nil
	}
	return out, err
}
