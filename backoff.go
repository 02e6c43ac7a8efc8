// backoff.go: the do-not-disturb wait loop (§5) and its reentrancy bypass
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package idreg

import "time"

// waitDoNotDisturb returns the first kernel snapshot of rec that is either
// not token-held, or is token-held by a goroutine that recorded
// haveGlobalMutex while the calling goroutine itself already holds the
// OuterMutex (holdsOuterMutex) — the reentrancy bypass of §5. Otherwise it
// backs off exponentially (design-note resolution of §9 open question 2:
// the legacy one-second placeholder sleep is replaced with a bounded
// exponential backoff from Config.SpinBackoffMin to Config.SpinBackoffMax)
// and retries, bumping the cas_retries statistic each time Config.StatsEnabled
// is set.
func (r *Registry) waitDoNotDisturb(rec *idInfo, holdsOuterMutex bool) *kernel {
	backoff := r.spinMin()
	for {
		k := rec.load()
		if !k.state.tokenHeld() {
			return k
		}
		if holdsOuterMutex && k.haveGlobalMutex {
			// Reentrancy bypass: the outer mutex already serializes the
			// token holder and the current goroutine, so it is safe to
			// proceed as if the token were not held.
			return k
		}
		if r.statsOn() {
			r.stats.casRetries.Add(1)
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > r.spinMax() {
			backoff = r.spinMax()
		}
	}
}
