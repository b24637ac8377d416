// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package storage

import (
	"hash/fnv"
	"sync"
)

// lockStripes bounds memory regardless of how many keys are ever locked.
// Two keys hashing to the same stripe serialize needlessly but correctly.
const lockStripes = 64

// keyedMutex serializes operations per key via hashed lock striping.
// Session IDs and user IDs map onto a fixed set of mutexes, so per-session
// operations are mutually exclusive while unrelated sessions proceed in
// parallel.
type keyedMutex struct {
	stripes [lockStripes]sync.Mutex
}

// Lock acquires the stripe for key and returns its unlock function.
//
//	unlock := locks.Lock("session:" + id)
//	defer unlock()
func (k *keyedMutex) Lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &k.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
