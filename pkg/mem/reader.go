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
)

// Reader is an address-indexed byte source. Read copies up to
// len(buf) bytes starting at addr into buf and returns the number of
// bytes actually copied. A return of 0 means no bytes are available
// at addr: past the end of a range, an unreadable page, or a closed
// source. Partial returns are allowed; the caller decides whether to
// continue at addr+n.
type Reader interface {
	Read(addr uint64, buf []byte) int
}

// maxStringBlock bounds the scratch buffer ReadString walks with.
const maxStringBlock = 256

// ReadFully returns true if the whole of buf was filled from addr in
// one read.
func ReadFully(r Reader, addr uint64, buf []byte) bool {
	return r.Read(addr, buf) == len(buf)
}

// ReadString reads a NUL terminated string of at most maxRead bytes
// starting at addr. It walks the address range in bounded blocks so
// that short strings never allocate; a string overflowing the first
// block is re-read in one go once its exact length is known.
func ReadString(r Reader, addr uint64, maxRead uint64) (string, bool) {
	var scratch [maxStringBlock]byte
	for offset := uint64(0); offset < maxRead; {
		cur := addr + offset
		if cur < addr {
			return "", false
		}
		block := uint64(maxStringBlock)
		if left := maxRead - offset; block > left {
			block = left
		}
		n := r.Read(cur, scratch[:block])
		if n == 0 {
			return "", false
		}
		if k := bytes.IndexByte(scratch[:n], 0); k >= 0 {
			if offset == 0 {
				return string(scratch[:k]), true
			}
			full := make([]byte, offset+uint64(k))
			if !ReadFully(r, addr, full) {
				return "", false
			}
			return string(full), true
		}
		offset += uint64(n)
	}
	return "", false
}
