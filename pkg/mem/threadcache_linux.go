//go:build linux
// +build linux

// Copyright 2023 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mem

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// gettid is replaceable in tests.
var gettid = unix.Gettid

// ThreadPageCache wraps a reader with one page cache per OS thread,
// keyed by gettid. Threads never exchange cache pages, so reads on
// different threads proceed without contending on shared pages. The
// per-thread mutex exists only because the scheduler may migrate a
// caller between threads mid-read; it is effectively uncontended.
type ThreadPageCache struct {
	underlying Reader
	caches     sync.Map // tid int -> *threadCache
	counters   cacheCounters
}

type threadCache struct {
	mu    sync.Mutex
	pages map[uint64][]byte
}

// NewThreadPageCache returns a per-thread caching wrapper around
// underlying.
func NewThreadPageCache(underlying Reader) *ThreadPageCache {
	return &ThreadPageCache{underlying: underlying}
}

func (c *ThreadPageCache) Read(addr uint64, buf []byte) int {
	tc := c.cacheForCaller()
	if tc == nil {
		return c.underlying.Read(addr, buf)
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return cachedRead(c.underlying, tc.pages, addr, buf, &c.counters)
}

// Clear drops the calling thread's cached pages only.
func (c *ThreadPageCache) Clear() {
	c.caches.Delete(gettid())
}

// Stats returns cache counters summed over all threads.
func (c *ThreadPageCache) Stats() Stats {
	return Stats{
		CacheHits:      atomic.LoadUint64(&c.counters.hits),
		CacheMisses:    atomic.LoadUint64(&c.counters.misses),
		CacheFillFails: atomic.LoadUint64(&c.counters.fillFails),
	}
}

func (c *ThreadPageCache) cacheForCaller() *threadCache {
	tid := gettid()
	if v, ok := c.caches.Load(tid); ok {
		return v.(*threadCache)
	}
	v, _ := c.caches.LoadOrStore(tid, &threadCache{pages: map[uint64][]byte{}})
	return v.(*threadCache)
}
