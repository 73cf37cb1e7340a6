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
)

// Cache granularity. This is independent of the OS page size; 1k
// pages keep miss fills cheap while still amortizing syscalls for
// address-clustered unwinder reads.
const (
	cachePageBits = 10
	cachePageSize = 1 << cachePageBits
	cachePageMask = cachePageSize - 1
)

type cacheCounters struct {
	hits      uint64
	misses    uint64
	fillFails uint64
}

// cachedRead serves a read from pages, filling missing pages from
// underlying one whole cache page at a time. Pages are only ever
// dropped when their fill fails; the cache grows monotonically,
// which suits the small bounded working set of an unwind.
func cachedRead(underlying Reader, pages map[uint64][]byte, addr uint64, buf []byte, counters *cacheCounters) int {
	done := 0
	for done < len(buf) {
		cur := addr + uint64(done)
		if cur < addr {
			return done
		}
		pageIdx := cur >> cachePageBits
		slot, ok := pages[pageIdx]
		if !ok {
			atomic.AddUint64(&counters.misses, 1)
			slot = make([]byte, cachePageSize)
			if !ReadFully(underlying, pageIdx<<cachePageBits, slot) {
				atomic.AddUint64(&counters.fillFails, 1)
				delete(pages, pageIdx)
				if done == 0 {
					return underlying.Read(addr, buf)
				}
				// cur is the base of this page by
				// construction of the previous copy.
				return underlying.Read(pageIdx<<cachePageBits, buf[done:]) + done
			}
			pages[pageIdx] = slot
		} else {
			atomic.AddUint64(&counters.hits, 1)
		}
		done += copy(buf[done:], slot[cur&cachePageMask:])
	}
	return done
}

// SharedPageCache wraps a reader with a page cache shared by all
// callers. A single mutex guards the whole cache for the duration of
// each read: the design target is one unwinding reader, the lock
// only serializes occasional concurrent use.
type SharedPageCache struct {
	mu         sync.Mutex
	underlying Reader
	pages      map[uint64][]byte
	counters   cacheCounters
}

// NewSharedPageCache returns a caching wrapper around underlying.
func NewSharedPageCache(underlying Reader) *SharedPageCache {
	return &SharedPageCache{
		underlying: underlying,
		pages:      map[uint64][]byte{},
	}
}

func (c *SharedPageCache) Read(addr uint64, buf []byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cachedRead(c.underlying, c.pages, addr, buf, &c.counters)
}

// Clear drops all cached pages.
func (c *SharedPageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = map[uint64][]byte{}
}

// Stats returns cache counters accumulated so far.
func (c *SharedPageCache) Stats() Stats {
	return Stats{
		CacheHits:      atomic.LoadUint64(&c.counters.hits),
		CacheMisses:    atomic.LoadUint64(&c.counters.misses),
		CacheFillFails: atomic.LoadUint64(&c.counters.fillFails),
	}
}
