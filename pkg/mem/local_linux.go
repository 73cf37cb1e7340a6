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
	"unsafe"

	"golang.org/x/sys/unix"
)

// LocalReader reads the current process's own address space. It
// prefers process_vm_readv, which probes readability without risking
// a fault, and falls back to a direct copy from the address when the
// vectored read transfers nothing. The fallback is attempted on
// every call; there is no sticky choice here.
type LocalReader struct {
	pid int
}

// NewLocalReader returns a reader for the current process.
func NewLocalReader() *LocalReader {
	return &LocalReader{pid: unix.Getpid()}
}

func (l *LocalReader) Read(addr uint64, buf []byte) int {
	if len(buf) == 0 || addr > maxUintptr {
		return 0
	}
	if avail := maxUintptr - addr; avail < uint64(len(buf))-1 {
		buf = buf[:avail+1]
	}
	if n := vmRead(l.pid, addr, buf, nil); n > 0 {
		return n
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(buf))
	return copy(buf, src)
}
