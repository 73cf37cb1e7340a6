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
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// countingReader counts the reads hitting the underlying reader.
type countingReader struct {
	inner Reader
	reads int
}

func (c *countingReader) Read(addr uint64, buf []byte) int {
	c.reads++
	return c.inner.Read(addr, buf)
}

// rampMod fills n bytes with a pattern that does not repeat at page
// granularity.
func rampMod(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestSharedPageCachePageCross(t *testing.T) {
	data := rampMod(4 * cachePageSize)
	counting := &countingReader{inner: NewBufferReader(data)}
	cache := NewSharedPageCache(counting)

	// A read straddling the first cache page boundary fills both
	// pages and returns the stitched bytes.
	buf := make([]byte, 8)
	n := cache.Read(cachePageSize-4, buf)
	require.Equal(t, 8, n)
	require.Equal(t, data[cachePageSize-4:cachePageSize+4], buf)
	require.Equal(t, 2, counting.reads, "both pages must be filled with one read each")

	// Both pages are now cached: reads inside them leave the
	// underlying reader alone.
	require.Equal(t, 4, cache.Read(0, buf[:4]))
	require.Equal(t, data[:4], buf[:4])
	require.Equal(t, 4, cache.Read(2*cachePageSize-4, buf[:4]))
	require.Equal(t, 2, counting.reads)

	stats := cache.Stats()
	require.Equal(t, uint64(2), stats.CacheMisses)
	require.Equal(t, uint64(2), stats.CacheHits)
}

func TestSharedPageCacheMatchesUncached(t *testing.T) {
	data := rampMod(3 * cachePageSize)
	uncached := NewBufferReader(data)
	cache := NewSharedPageCache(NewBufferReader(data))

	sizes := []int{1, 7, 8, 255, cachePageSize, cachePageSize + 1, 2*cachePageSize + 9}
	addrs := []uint64{0, 1, 13, cachePageSize - 1, cachePageSize, 2*cachePageSize - 3,
		3*cachePageSize - 1, 3 * cachePageSize, 4 * cachePageSize}
	for _, size := range sizes {
		for _, addr := range addrs {
			want := make([]byte, size)
			got := make([]byte, size)
			wantN := uncached.Read(addr, want)
			gotN := cache.Read(addr, got)
			if wantN != gotN || !bytes.Equal(want[:wantN], got[:gotN]) {
				t.Fatalf("Read(%#x, %d): cached read differs from uncached: %d vs %d bytes", addr, size, gotN, wantN)
			}
		}
	}
}

func TestSharedPageCacheFillFailure(t *testing.T) {
	// The backing is smaller than one cache page, so the page fill
	// fails and the read falls through uncached.
	data := rampMod(100)
	counting := &countingReader{inner: NewBufferReader(data)}
	cache := NewSharedPageCache(counting)

	buf := make([]byte, 10)
	require.Equal(t, 10, cache.Read(40, buf))
	require.Equal(t, data[40:50], buf)

	stats := cache.Stats()
	require.Equal(t, uint64(1), stats.CacheMisses)
	require.Equal(t, uint64(1), stats.CacheFillFails)

	// Nothing was cached, the next read fills and falls through
	// again.
	require.Equal(t, 10, cache.Read(40, buf))
	require.Equal(t, uint64(2), cache.Stats().CacheFillFails)
}

func TestSharedPageCacheSecondPageFillFailure(t *testing.T) {
	// One full cache page and a bit: the first page fills, the
	// second page fill fails, and the tail is read uncached from
	// the second page base.
	data := rampMod(cachePageSize + 10)
	counting := &countingReader{inner: NewBufferReader(data)}
	cache := NewSharedPageCache(counting)

	buf := make([]byte, 12)
	require.Equal(t, 12, cache.Read(cachePageSize-6, buf))
	require.Equal(t, data[cachePageSize-6:cachePageSize+6], buf)

	stats := cache.Stats()
	require.Equal(t, uint64(2), stats.CacheMisses)
	require.Equal(t, uint64(1), stats.CacheFillFails)
}

func TestSharedPageCacheClear(t *testing.T) {
	data := rampMod(2 * cachePageSize)
	counting := &countingReader{inner: NewBufferReader(data)}
	cache := NewSharedPageCache(counting)

	buf := make([]byte, 4)
	require.Equal(t, 4, cache.Read(0, buf))
	require.Equal(t, 4, cache.Read(0, buf))
	require.Equal(t, 1, counting.reads)

	cache.Clear()
	require.Equal(t, 4, cache.Read(0, buf))
	require.Equal(t, 2, counting.reads, "a cleared cache must fill again")
}

func TestSharedPageCacheConcurrentReaders(t *testing.T) {
	data := rampMod(4 * cachePageSize)
	cache := NewSharedPageCache(NewBufferReader(data))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			buf := make([]byte, 32)
			for i := 0; i < 200; i++ {
				addr := uint64((seed*37 + i*13) % (4*cachePageSize - 32))
				n := cache.Read(addr, buf)
				if n != 32 {
					t.Errorf("Read(%#x, 32): got %d bytes", addr, n)
					return
				}
				if !bytes.Equal(buf, data[addr:addr+32]) {
					t.Errorf("Read(%#x, 32): wrong bytes", addr)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}
