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
	"math"
	"sort"
)

// RangeReader exposes the window [begin, begin+length) of an inner
// reader, rebased so that its first byte appears at address offset.
// The inner reader may be shared between several ranges.
type RangeReader struct {
	inner  Reader
	begin  uint64
	length uint64
	offset uint64
}

// NewRangeReader returns a reader for addresses
// [offset, offset+length), backed by inner addresses starting at
// begin.
func NewRangeReader(inner Reader, begin, length, offset uint64) *RangeReader {
	return &RangeReader{inner: inner, begin: begin, length: length, offset: offset}
}

// Offset returns the first exposed address.
func (r *RangeReader) Offset() uint64 {
	return r.offset
}

// Length returns the number of exposed bytes.
func (r *RangeReader) Length() uint64 {
	return r.length
}

func (r *RangeReader) Read(addr uint64, buf []byte) int {
	if addr < r.offset {
		return 0
	}
	delta := addr - r.offset
	if delta >= r.length {
		return 0
	}
	if r.begin > math.MaxUint64-delta {
		return 0
	}
	max := r.length - delta
	if uint64(len(buf)) > max {
		buf = buf[:max]
	}
	return r.inner.Read(r.begin+delta, buf)
}

type rangesEntry struct {
	// lastAddr is the exclusive upper bound of the range,
	// clamped to the maximum address on overflow.
	lastAddr uint64
	reader   *RangeReader
}

// RangesReader dispatches reads to one of many RangeReaders by
// address. Exactly one range is consulted per read: the one whose
// upper bound is the smallest value strictly greater than the
// address. A read extending past the consulted range is truncated,
// never continued in a neighboring range.
type RangesReader struct {
	entries []rangesEntry
}

// NewRangesReader returns an empty dispatcher.
func NewRangesReader() *RangesReader {
	return &RangesReader{}
}

// Insert adds a range. A range with the same upper bound as an
// existing one replaces it.
func (r *RangesReader) Insert(rr *RangeReader) {
	last := rr.offset + rr.length
	if last < rr.offset {
		last = math.MaxUint64
	}
	i := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].lastAddr >= last
	})
	if i < len(r.entries) && r.entries[i].lastAddr == last {
		r.entries[i].reader = rr
		return
	}
	r.entries = append(r.entries, rangesEntry{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = rangesEntry{lastAddr: last, reader: rr}
}

func (r *RangesReader) Read(addr uint64, buf []byte) int {
	i := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].lastAddr > addr
	})
	if i == len(r.entries) {
		return 0
	}
	return r.entries[i].reader.Read(addr, buf)
}
