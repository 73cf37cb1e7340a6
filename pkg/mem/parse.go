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
	"fmt"
	"strconv"
	"strings"
)

// AddrRange is a byte range in some address space.
type AddrRange struct {
	addr   uint64
	length uint64
}

// NewAddrRange returns the range [startAddr, stopAddr).
func NewAddrRange(startAddr, stopAddr uint64) AddrRange {
	if stopAddr < startAddr {
		startAddr, stopAddr = stopAddr, startAddr
	}
	return AddrRange{addr: startAddr, length: stopAddr - startAddr}
}

// Addr returns the first address of the range.
func (r AddrRange) Addr() uint64 {
	return r.addr
}

// Length returns the length of the range in bytes.
func (r AddrRange) Length() uint64 {
	return r.length
}

// EndAddr returns the first address past the range.
func (r AddrRange) EndAddr() uint64 {
	return r.addr + r.length
}

func (r AddrRange) String() string {
	return fmt.Sprintf("%x-%x", r.addr, r.EndAddr())
}

// ParseAddrRange parses a range expressed as hexadecimal
// "start-stop" addresses, as "start+size" with a size suffix (kB,
// MB, GB, TB), or as a bare start address meaning one OS page.
func ParseAddrRange(s string) (AddrRange, error) {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		start, err := strconv.ParseUint(s[:i], 16, 64)
		if err != nil {
			return AddrRange{}, fmt.Errorf("invalid start address in range %q", s)
		}
		stop, err := strconv.ParseUint(s[i+1:], 16, 64)
		if err != nil {
			return AddrRange{}, fmt.Errorf("invalid end address in range %q", s)
		}
		return NewAddrRange(start, stop), nil
	}
	if i := strings.IndexByte(s, '+'); i >= 0 {
		start, err := strconv.ParseUint(s[:i], 16, 64)
		if err != nil {
			return AddrRange{}, fmt.Errorf("invalid start address in range %q", s)
		}
		size, err := ParseBytes(s[i+1:])
		if err != nil {
			return AddrRange{}, fmt.Errorf("invalid size in range %q: %v", s, err)
		}
		return AddrRange{addr: start, length: size}, nil
	}
	start, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return AddrRange{}, fmt.Errorf("invalid address range %q, expected start-stop, start+size or start", s)
	}
	return AddrRange{addr: start, length: constUPagesize}, nil
}

// ParseBytes parses a byte count with an optional unit: "4k", "1MB",
// "2G", "1T" or a plain number.
func ParseBytes(s string) (uint64, error) {
	origS := s
	factor := uint64(1)
	if len(s) == 0 {
		return 0, fmt.Errorf("syntax error in bytes: string is empty")
	}
	if s[len(s)-1] == 'B' {
		s = s[:len(s)-1]
	}
	numpart := s[:len(s)-1]
	switch c := s[len(s)-1]; {
	case c == 'k':
		factor = 1024
	case c == 'M':
		factor = 1024 * 1024
	case c == 'G':
		factor = 1024 * 1024 * 1024
	case c == 'T':
		factor = 1024 * 1024 * 1024 * 1024
	case '0' <= c && c <= '9':
		numpart = s
	default:
		return 0, fmt.Errorf("syntax error in bytes %q: unexpected unit %q", origS, c)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(numpart), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("syntax error in bytes %q: bad numeric part %q", origS, numpart)
	}
	return n * factor, nil
}
